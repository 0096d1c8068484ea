package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.MovimientoStockRepository = (*MovimientoStockRepo)(nil)

// MovimientoStockRepo implementación sobre PostgreSQL del log de movimientos.
type MovimientoStockRepo struct {
	q Querier
}

// NewMovimientoStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoStockRepository(q Querier) *MovimientoStockRepo {
	return &MovimientoStockRepo{q: q}
}

// Crear persiste un movimiento (lo usa la cascada para registrar mermas).
func (r *MovimientoStockRepo) Crear(m *entity.MovimientoStock) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_stock (id, sucursal_id, ingrediente_id, tipo, cantidad, costo_unitario, referencia, fecha, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.SucursalID, m.IngredienteID, m.Tipo, m.Cantidad, m.CostoUnitario,
		m.Referencia, m.Fecha, m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("crear movimiento de stock: %w", err)
	}
	return nil
}

// ListarPorIngrediente movimientos de un ingrediente en la ventana [desde, hasta),
// en orden de fecha ascendente.
func (r *MovimientoStockRepo) ListarPorIngrediente(sucursalID, ingredienteID string, desde, hasta time.Time) ([]*entity.MovimientoStock, error) {
	query := `
		SELECT id, sucursal_id, ingrediente_id, tipo, cantidad, costo_unitario, referencia, fecha, created_at, created_by
		FROM movimientos_stock
		WHERE sucursal_id = $1 AND ingrediente_id = $2 AND fecha >= $3 AND fecha < $4
		ORDER BY fecha`
	rows, err := r.q.Query(context.Background(), query, sucursalID, ingredienteID, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimientoStock
	for rows.Next() {
		var m entity.MovimientoStock
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.SucursalID, &m.IngredienteID, &m.Tipo, &m.Cantidad,
			&m.CostoUnitario, &m.Referencia, &m.Fecha, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
