package repository

import "github.com/jhoicas/Cierres-api/internal/domain/entity"

// TurnoRepository lectura de las definiciones de turno por sucursal.
type TurnoRepository interface {
	PorSucursal(sucursalID string) ([]entity.DefinicionTurno, error)
	// SucursalesConTurnos IDs de sucursales con al menos un turno activo
	// (el lote programado itera sobre ellas).
	SucursalesConTurnos() ([]string, error)
}

// IngredienteRepository lectura de la configuración de ingredientes.
type IngredienteRepository interface {
	GetByID(id string) (*entity.Ingrediente, error)
	PorSucursal(sucursalID string) ([]*entity.Ingrediente, error)
}
