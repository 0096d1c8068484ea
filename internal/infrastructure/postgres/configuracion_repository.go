package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.TurnoRepository = (*TurnoRepo)(nil)
var _ repository.IngredienteRepository = (*IngredienteRepo)(nil)

// TurnoRepo lectura de definiciones de turno.
type TurnoRepo struct {
	q Querier
}

// NewTurnoRepository construye el adaptador.
func NewTurnoRepository(q Querier) *TurnoRepo {
	return &TurnoRepo{q: q}
}

// PorSucursal definiciones de turno de una sucursal.
func (r *TurnoRepo) PorSucursal(sucursalID string) ([]entity.DefinicionTurno, error) {
	query := `
		SELECT id, sucursal_id, nombre, hora_inicio, hora_fin, activo
		FROM definiciones_turno WHERE sucursal_id = $1
		ORDER BY hora_inicio`
	rows, err := r.q.Query(context.Background(), query, sucursalID)
	if err != nil {
		return nil, fmt.Errorf("listar turnos: %w", err)
	}
	defer rows.Close()
	var list []entity.DefinicionTurno
	for rows.Next() {
		var d entity.DefinicionTurno
		if err := rows.Scan(&d.ID, &d.SucursalID, &d.Nombre, &d.HoraInicio, &d.HoraFin, &d.Activo); err != nil {
			return nil, fmt.Errorf("scan turno: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SucursalesConTurnos IDs de sucursales con al menos un turno activo.
func (r *TurnoRepo) SucursalesConTurnos() ([]string, error) {
	query := `SELECT DISTINCT sucursal_id FROM definiciones_turno WHERE activo ORDER BY sucursal_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("listar sucursales con turnos: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sucursal: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IngredienteRepo lectura de configuración de ingredientes.
type IngredienteRepo struct {
	q Querier
}

// NewIngredienteRepository construye el adaptador.
func NewIngredienteRepository(q Querier) *IngredienteRepo {
	return &IngredienteRepo{q: q}
}

// GetByID obtiene un ingrediente, o nil si no existe.
func (r *IngredienteRepo) GetByID(id string) (*entity.Ingrediente, error) {
	query := `
		SELECT id, sucursal_id, nombre, unidad, costo_unitario, categoria_costo, activo
		FROM ingredientes WHERE id = $1`
	var ing entity.Ingrediente
	var categoria *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ing.ID, &ing.SucursalID, &ing.Nombre, &ing.Unidad, &ing.CostoUnitario, &categoria, &ing.Activo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingrediente: %w", err)
	}
	if categoria != nil {
		ing.CategoriaCosto = *categoria
	}
	return &ing, nil
}

// PorSucursal ingredientes activos de una sucursal.
func (r *IngredienteRepo) PorSucursal(sucursalID string) ([]*entity.Ingrediente, error) {
	query := `
		SELECT id, sucursal_id, nombre, unidad, costo_unitario, categoria_costo, activo
		FROM ingredientes WHERE sucursal_id = $1 AND activo
		ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query, sucursalID)
	if err != nil {
		return nil, fmt.Errorf("listar ingredientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingrediente
	for rows.Next() {
		var ing entity.Ingrediente
		var categoria *string
		if err := rows.Scan(&ing.ID, &ing.SucursalID, &ing.Nombre, &ing.Unidad,
			&ing.CostoUnitario, &categoria, &ing.Activo); err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		if categoria != nil {
			ing.CategoriaCosto = *categoria
		}
		list = append(list, &ing)
	}
	return list, rows.Err()
}
