package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden que cuentan para un cierre de turno.
const (
	OrdenCompletada = "completada"
	OrdenEntregada  = "entregada"
)

// Métodos de pago conocidos. El agregador acepta cualquier string y agrupa
// los vacíos bajo "desconocido"; estos son los que cargan las pantallas POS.
const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)

// Orden es una venta registrada por el POS o un canal de delivery.
type Orden struct {
	ID         string
	SucursalID string
	Canal      string // mostrador, rappi, didi, web... vacío = desconocido
	MetodoPago string
	Estado     string
	Total      decimal.Decimal
	Fecha      time.Time
	Items      []OrdenItem
}

// OrdenItem línea de una orden.
type OrdenItem struct {
	ID       string
	OrdenID  string
	Producto string // nombre al momento de la venta; vacío = desconocido
	Cantidad decimal.Decimal
	Subtotal decimal.Decimal
}
