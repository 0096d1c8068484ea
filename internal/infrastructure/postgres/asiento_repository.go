package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.AsientoRepository = (*AsientoRepo)(nil)

// AsientoRepo implementación de AsientoRepository sobre PostgreSQL.
type AsientoRepo struct {
	q Querier
}

// NewAsientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAsientoRepository(q Querier) *AsientoRepo {
	return &AsientoRepo{q: q}
}

// Crear persiste un asiento derivado de un cierre.
func (r *AsientoRepo) Crear(a *entity.Asiento) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO asientos (id, cierre_origen_id, categoria, monto, periodo_key, nota, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CierreOrigenID, a.Categoria, a.Monto, a.PeriodoKey, a.Nota, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("crear asiento: %w", err)
	}
	return nil
}

// ListarPorCierre lista los asientos generados por un cierre.
func (r *AsientoRepo) ListarPorCierre(cierreID string) ([]*entity.Asiento, error) {
	query := `
		SELECT id, cierre_origen_id, categoria, monto, periodo_key, nota, created_at
		FROM asientos WHERE cierre_origen_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, cierreID)
	if err != nil {
		return nil, fmt.Errorf("listar asientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Asiento
	for rows.Next() {
		var a entity.Asiento
		if err := rows.Scan(&a.ID, &a.CierreOrigenID, &a.Categoria, &a.Monto,
			&a.PeriodoKey, &a.Nota, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asiento: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
