// Package cierre contiene la aritmética pura de conciliación de un periodo.
// Toda la matemática de cantidades y dinero usa decimal de precisión fija;
// el redondeo a precisión de presentación ocurre en la capa HTTP/PDF, nunca
// antes de persistir un cierre o un asiento.
package cierre

import "github.com/shopspring/decimal"

// Esperado valor esperado al cierre: saldo de apertura + entradas - salidas.
func Esperado(apertura, entradas, salidas decimal.Decimal) decimal.Decimal {
	return apertura.Add(entradas).Sub(salidas)
}

// Merma diferencia esperado - real, con piso en cero: un conteo físico mayor
// al esperado no genera merma negativa ni se autocorrige; el sobrante queda
// visible en el descuadre firmado del cierre pero no produce asiento.
func Merma(esperado, real decimal.Decimal) decimal.Decimal {
	m := esperado.Sub(real)
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

// DescuadreCaja diferencia firmada declarado - esperado: negativa es faltante,
// positiva es sobrante. A diferencia de la merma de stock, aquí ambos signos
// se registran.
func DescuadreCaja(declarado, esperado decimal.Decimal) decimal.Decimal {
	return declarado.Sub(esperado)
}

// CostoMerma monto del asiento: merma por costo unitario del ingrediente.
func CostoMerma(merma, costoUnitario decimal.Decimal) decimal.Decimal {
	return merma.Mul(costoUnitario)
}
