package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cierre.
const (
	CierreStockMensual = "stock_mensual"
	CierreTurno        = "turno"
)

// Desglose montos por clave de una dimensión (canal, método de pago, producto, empleado).
type Desglose map[string]decimal.Decimal

// BucketMonto un renglón de desglose ya ordenado para presentación.
type BucketMonto struct {
	Clave string          `json:"clave"`
	Monto decimal.Decimal `json:"monto"`
}

// Cierre es el registro inmutable que colapsa un periodo de una sucursal
// (y opcionalmente una sub-entidad, ej. un ingrediente).
//
// Invariante de unicidad: a lo sumo un Cierre por (SucursalID, SubEntidadID,
// PeriodoKey), garantizado por constraint en la base, no por la aplicación.
// Una vez creado nunca se actualiza ni borra: las correcciones van como
// asientos o movimientos en periodos posteriores.
type Cierre struct {
	ID           string
	SucursalID   string
	SubEntidadID string // ID del ingrediente en cierres de stock; vacío en cierres de turno
	PeriodoKey   string
	Tipo         string

	SaldoApertura decimal.Decimal
	Entradas      decimal.Decimal
	Salidas       decimal.Decimal
	Esperado      decimal.Decimal
	Real          *decimal.Decimal // nil si el periodo no se concilia contra un valor físico/declarado
	Descuadre     *decimal.Decimal // nil cuando Real es nil

	Desgloses map[string]Desglose // dimensión -> clave -> monto (JSONB en base)
	CreatedAt time.Time
	CreatedBy string
}
