package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.CierreRepository = (*CierreRepo)(nil)

// CierreRepo implementación de CierreRepository sobre PostgreSQL.
//
// La unicidad por (sucursal_id, sub_entidad_id, periodo_key) vive en un
// índice único de la tabla; sub_entidad_id se guarda como cadena vacía (no
// NULL) para que el constraint cubra también los cierres de turno. La
// idempotencia es INSERT .. ON CONFLICT DO NOTHING más re-lectura, nunca un
// read-then-write de aplicación: dos intentos concurrentes producen un solo
// cierre y el perdedor recibe el existente.
type CierreRepo struct {
	q Querier
}

// NewCierreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCierreRepository(q Querier) *CierreRepo {
	return &CierreRepo{q: q}
}

const columnasCierre = `id, sucursal_id, sub_entidad_id, periodo_key, tipo,
		saldo_apertura, entradas, salidas, esperado, valor_real, descuadre,
		desgloses, created_at, created_by`

// CrearSiNoExiste inserta el cierre si la clave está libre; si ya existe,
// devuelve el registro existente sin modificarlo y creado=false.
func (r *CierreRepo) CrearSiNoExiste(c *entity.Cierre) (*entity.Cierre, bool, error) {
	desgloses, err := json.Marshal(c.Desgloses)
	if err != nil {
		return nil, false, fmt.Errorf("serializar desgloses: %w", err)
	}
	query := `
		INSERT INTO cierres (` + columnasCierre + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (sucursal_id, sub_entidad_id, periodo_key) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.SucursalID, c.SubEntidadID, c.PeriodoKey, c.Tipo,
		c.SaldoApertura, c.Entradas, c.Salidas, c.Esperado, c.Real, c.Descuadre,
		desgloses, c.CreatedAt, c.CreatedBy,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insertar cierre: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return c, true, nil
	}
	// Conflicto: otro intento (concurrente o anterior) ya cerró este periodo.
	existente, err := r.Buscar(c.SucursalID, c.SubEntidadID, c.PeriodoKey)
	if err != nil {
		return nil, false, err
	}
	if existente == nil {
		return nil, false, fmt.Errorf("cierre en conflicto no encontrado: %s/%s/%s",
			c.SucursalID, c.SubEntidadID, c.PeriodoKey)
	}
	return existente, false, nil
}

// Buscar devuelve el cierre de la clave, o nil si no existe.
func (r *CierreRepo) Buscar(sucursalID, subEntidadID, periodoKey string) (*entity.Cierre, error) {
	query := `
		SELECT ` + columnasCierre + `
		FROM cierres
		WHERE sucursal_id = $1 AND sub_entidad_id = $2 AND periodo_key = $3`
	c, err := r.escanearUno(r.q.QueryRow(context.Background(), query, sucursalID, subEntidadID, periodoKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar cierre: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cierre por ID, o nil si no existe.
func (r *CierreRepo) GetByID(id string) (*entity.Cierre, error) {
	query := `SELECT ` + columnasCierre + ` FROM cierres WHERE id = $1`
	c, err := r.escanearUno(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cierre: %w", err)
	}
	return c, nil
}

// Listar cierres de una sucursal, opcionalmente filtrados por periodo,
// ordenados del más reciente al más antiguo.
func (r *CierreRepo) Listar(sucursalID, periodoKey string, limit, offset int) ([]*entity.Cierre, error) {
	query := `SELECT ` + columnasCierre + ` FROM cierres WHERE sucursal_id = $1`
	args := []any{sucursalID}
	pos := 2
	if periodoKey != "" {
		query += fmt.Sprintf(" AND periodo_key = $%d", pos)
		args = append(args, periodoKey)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar cierres: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cierre
	for rows.Next() {
		c, err := r.escanearUno(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cierre: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CierreRepo) escanearUno(row pgx.Row) (*entity.Cierre, error) {
	var c entity.Cierre
	var real, descuadre *decimal.Decimal
	var desgloses []byte
	var createdBy *string
	err := row.Scan(
		&c.ID, &c.SucursalID, &c.SubEntidadID, &c.PeriodoKey, &c.Tipo,
		&c.SaldoApertura, &c.Entradas, &c.Salidas, &c.Esperado, &real, &descuadre,
		&desgloses, &c.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	c.Real = real
	c.Descuadre = descuadre
	if createdBy != nil {
		c.CreatedBy = *createdBy
	}
	if len(desgloses) > 0 {
		if err := json.Unmarshal(desgloses, &c.Desgloses); err != nil {
			return nil, fmt.Errorf("deserializar desgloses: %w", err)
		}
	}
	return &c, nil
}
