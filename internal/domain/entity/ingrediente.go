package entity

import "github.com/shopspring/decimal"

// Ingrediente insumo de una sucursal sujeto a conteo físico mensual.
// CategoriaCosto es la categoría P&L del asiento de merma; vacía = usar la
// categoría por defecto configurada en la aplicación.
type Ingrediente struct {
	ID             string
	SucursalID     string
	Nombre         string
	Unidad         string // kg, lt, und...
	CostoUnitario  decimal.Decimal
	CategoriaCosto string
	Activo         bool
}
