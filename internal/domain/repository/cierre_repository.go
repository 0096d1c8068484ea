package repository

import "github.com/jhoicas/Cierres-api/internal/domain/entity"

// CierreRepository puerto de persistencia de cierres (DIP).
//
// CrearSiNoExiste es la única vía de escritura: intenta insertar y, si ya
// existe un cierre para (sucursal, sub-entidad, periodo), devuelve el
// existente sin tocarlo y creado=false. La unicidad la garantiza la base
// (constraint único), de modo que dos intentos concurrentes producen
// exactamente un cierre y el perdedor observa creado=false, nunca un
// duplicado ni una sobreescritura.
type CierreRepository interface {
	CrearSiNoExiste(c *entity.Cierre) (cierre *entity.Cierre, creado bool, err error)
	// Buscar devuelve el cierre de la clave, o nil si no existe (primer cierre).
	Buscar(sucursalID, subEntidadID, periodoKey string) (*entity.Cierre, error)
	GetByID(id string) (*entity.Cierre, error)
	Listar(sucursalID string, periodoKey string, limit, offset int) ([]*entity.Cierre, error)
}

// AsientoRepository puerto de persistencia de asientos derivados.
type AsientoRepository interface {
	Crear(a *entity.Asiento) error
	ListarPorCierre(cierreID string) ([]*entity.Asiento, error)
}
