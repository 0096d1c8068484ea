package repository

import (
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

// MovimientoStockRepository puerto de persistencia del log de movimientos.
// ListarPorIngrediente es la fuente de eventos del cierre de stock; Crear lo
// usa solo la cascada de asientos para registrar la merma detectada.
type MovimientoStockRepository interface {
	Crear(m *entity.MovimientoStock) error
	ListarPorIngrediente(sucursalID, ingredienteID string, desde, hasta time.Time) ([]*entity.MovimientoStock, error)
}
