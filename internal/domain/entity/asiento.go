package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asiento registro financiero derivado de un cierre con descuadre.
// Lo lee el módulo de P&L; aquí solo se crea, nunca se edita.
type Asiento struct {
	ID             string
	CierreOrigenID string
	Categoria      string
	Monto          decimal.Decimal
	PeriodoKey     string
	Nota           string
	CreatedAt      time.Time
}
