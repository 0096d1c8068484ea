package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. El log es append-only: el motor de cierres
// solo los lee; las correcciones se hacen con movimientos nuevos, nunca editando.
const (
	MovimientoCompra          = "compra"
	MovimientoVenta           = "venta"
	MovimientoAjuste          = "ajuste"
	MovimientoMerma           = "merma"
	MovimientoTrasladoEntrada = "traslado_entrada"
	MovimientoTrasladoSalida  = "traslado_salida"
	MovimientoAjusteConteo    = "ajuste_conteo"
	MovimientoProduccion      = "produccion"
)

// EsSalida indica si el tipo de movimiento resta del stock (venta, traslado
// de salida, merma). Todos los demás tipos suman.
func EsSalida(tipo string) bool {
	switch tipo {
	case MovimientoVenta, MovimientoTrasladoSalida, MovimientoMerma:
		return true
	}
	return false
}

// MovimientoStock representa un movimiento de inventario de un ingrediente en una sucursal.
type MovimientoStock struct {
	ID            string
	SucursalID    string
	IngredienteID string
	Tipo          string
	Cantidad      decimal.Decimal // siempre positiva; el signo lo da el tipo
	CostoUnitario decimal.Decimal
	Referencia    string // cierre, orden o nota que lo originó
	Fecha         time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
