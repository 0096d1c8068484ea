package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)

// SesionCaja ciclo de vida de una caja registradora: apertura con fondo
// inicial, movimientos durante el turno, cierre con monto declarado.
// El motor de cierres solo la lee; el POS la escribe.
type SesionCaja struct {
	ID             string
	SucursalID     string
	CajaID         string
	UsuarioID      string
	MontoInicial   decimal.Decimal
	MontoDeclarado *decimal.Decimal // nil mientras la sesión siga abierta
	Estado         string
	AbiertaEn      time.Time
	CerradaEn      *time.Time
}
