package dto

import "github.com/shopspring/decimal"

// ConteoFisicoRequest conteo de un ingrediente en el cierre mensual.
type ConteoFisicoRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required"`
	CantidadReal  decimal.Decimal `json:"cantidad_real"`
}

// CerrarStockRequest cierre mensual de stock de una sucursal.
type CerrarStockRequest struct {
	PeriodoKey string                `json:"periodo_key" validate:"required"` // "YYYY-MM"
	Conteos    []ConteoFisicoRequest `json:"conteos" validate:"required,min=1"`
}

// CerrarTurnoRequest cierre manual de un turno concreto.
type CerrarTurnoRequest struct {
	PeriodoKey string `json:"periodo_key" validate:"required"` // "YYYY-MM-DD|turno"
}

// BucketDTO renglón de desglose ordenado para presentación.
type BucketDTO struct {
	Clave string          `json:"clave"`
	Monto decimal.Decimal `json:"monto"`
}

// CierreResponse representación HTTP de un cierre.
type CierreResponse struct {
	ID            string                 `json:"id"`
	SucursalID    string                 `json:"sucursal_id"`
	SubEntidadID  string                 `json:"sub_entidad_id,omitempty"`
	PeriodoKey    string                 `json:"periodo_key"`
	Tipo          string                 `json:"tipo"`
	SaldoApertura decimal.Decimal        `json:"saldo_apertura"`
	Entradas      decimal.Decimal        `json:"entradas"`
	Salidas       decimal.Decimal        `json:"salidas"`
	Esperado      decimal.Decimal        `json:"esperado"`
	Real          *decimal.Decimal       `json:"real,omitempty"`
	Descuadre     *decimal.Decimal       `json:"descuadre,omitempty"`
	Desgloses     map[string][]BucketDTO `json:"desgloses"`
	YaCerrado     bool                   `json:"ya_cerrado"`
	ErrorAsiento  string                 `json:"error_asiento,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

// ResumenLoteResponse resultado del job de cierres de turno.
type ResumenLoteResponse struct {
	Cerrados   int `json:"cerrados"`
	YaCerrados int `json:"ya_cerrados"`
	Fallidos   int `json:"fallidos"`
}
