package cierre_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

func TestAgregarOrdenes_TotalesYDesgloses(t *testing.T) {
	ordenes := []*entity.Orden{
		{Canal: "mostrador", MetodoPago: entity.PagoEfectivo, Total: d("100"), Items: []entity.OrdenItem{
			{Producto: "hamburguesa", Subtotal: d("60")},
			{Producto: "papas", Subtotal: d("40")},
		}},
		{Canal: "rappi", MetodoPago: entity.PagoTarjeta, Total: d("80"), Items: []entity.OrdenItem{
			{Producto: "hamburguesa", Subtotal: d("80")},
		}},
		{Canal: "mostrador", MetodoPago: entity.PagoEfectivo, Total: d("50")},
	}

	tot := appcierre.AgregarOrdenes(ordenes)

	assert.Equal(t, 3, tot.Cantidad)
	assert.True(t, d("230").Equal(tot.Suma))
	assert.True(t, d("150").Equal(tot.PorCanal["mostrador"]))
	assert.True(t, d("80").Equal(tot.PorCanal["rappi"]))
	assert.True(t, d("150").Equal(tot.VentasPorMetodo(entity.PagoEfectivo)))
	assert.True(t, d("80").Equal(tot.VentasPorMetodo(entity.PagoTarjeta)))
	assert.True(t, decimal.Zero.Equal(tot.VentasPorMetodo(entity.PagoTransferencia)))
	assert.True(t, d("140").Equal(tot.PorProducto["hamburguesa"]))
}

// TestAgregarOrdenes_BucketDesconocido: los metadatos vacíos no se pierden ni
// revientan el agregado; caen en el bucket "desconocido" y las sumas cierran.
func TestAgregarOrdenes_BucketDesconocido(t *testing.T) {
	ordenes := []*entity.Orden{
		{Canal: "", MetodoPago: entity.PagoEfectivo, Total: d("30"), Items: []entity.OrdenItem{
			{Producto: "", Subtotal: d("30")},
		}},
		{Canal: "web", MetodoPago: "", Total: d("70")},
	}

	tot := appcierre.AgregarOrdenes(ordenes)

	assert.True(t, d("30").Equal(tot.PorCanal[appcierre.BucketDesconocido]))
	assert.True(t, d("70").Equal(tot.PorMetodoPago[appcierre.BucketDesconocido]))
	assert.True(t, d("30").Equal(tot.PorProducto[appcierre.BucketDesconocido]))
	assert.True(t, d("100").Equal(tot.Suma), "el bucket desconocido no altera el total")
}

func TestOrdenarDesglose_DescendenteConEmpatePorClave(t *testing.T) {
	desglose := entity.Desglose{
		"tarjeta":       d("80"),
		"efectivo":      d("150"),
		"transferencia": d("80"),
	}

	buckets := appcierre.OrdenarDesglose(desglose)

	require.Len(t, buckets, 3)
	assert.Equal(t, "efectivo", buckets[0].Clave)
	// Empate en 80: desempate alfabético para salida determinística.
	assert.Equal(t, "tarjeta", buckets[1].Clave)
	assert.Equal(t, "transferencia", buckets[2].Clave)
}

// ── Movimientos de stock ──────────────────────────────────────────────────────

func TestAgregarMovimientos_EntradasYSalidas(t *testing.T) {
	movs := []*entity.MovimientoStock{
		{Tipo: entity.MovimientoCompra, Cantidad: d("100")},
		{Tipo: entity.MovimientoProduccion, Cantidad: d("50")},
		{Tipo: entity.MovimientoVenta, Cantidad: d("120")},
		{Tipo: entity.MovimientoMerma, Cantidad: d("2")},
		{Tipo: entity.MovimientoTrasladoSalida, Cantidad: d("8")},
	}

	tot := appcierre.AgregarMovimientos(movs)

	assert.True(t, d("150").Equal(tot.Entradas))
	assert.True(t, d("130").Equal(tot.Salidas))
	assert.True(t, d("100").Equal(tot.PorTipo[entity.MovimientoCompra]))
	assert.True(t, d("120").Equal(tot.PorTipo[entity.MovimientoVenta]))
}

// ── Asistencia ────────────────────────────────────────────────────────────────

func marcacion(empleado, tipo string, hora time.Time) *entity.RegistroAsistencia {
	return &entity.RegistroAsistencia{EmpleadoID: empleado, Tipo: tipo, Fecha: hora}
}

// TestEmparejarAsistencia_AperturaSinParejaMasReciente valida la regla de
// pila: con IN 09:00, IN 09:05 (duplicada) y OUT 17:00, la salida se empareja
// con la entrada sin pareja más reciente (09:05). La 09:00 queda como tramo
// abierto hasta el fin del periodo en vez de fusionarse en silencio.
func TestEmparejarAsistencia_AperturaSinParejaMasReciente(t *testing.T) {
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	finPeriodo := dia.Add(18 * time.Hour)

	regs := []*entity.RegistroAsistencia{
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(9*time.Hour)),
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(9*time.Hour+5*time.Minute)),
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(17*time.Hour)),
	}

	tramos := appcierre.EmparejarAsistencia(regs, finPeriodo)
	require.Len(t, tramos, 2)

	// Salida ordenada por (empleado, entrada): primero el tramo abierto de las
	// 09:00, después el cerrado de 09:05→17:00.
	assert.True(t, tramos[0].Abierto)
	assert.Equal(t, dia.Add(9*time.Hour), tramos[0].Entrada)
	assert.Equal(t, finPeriodo, tramos[0].Salida)
	assert.True(t, d("9").Equal(tramos[0].Horas), "el tramo abierto computa hasta el fin del periodo")

	assert.False(t, tramos[1].Abierto)
	assert.Equal(t, dia.Add(9*time.Hour+5*time.Minute), tramos[1].Entrada)
	assert.Equal(t, dia.Add(17*time.Hour), tramos[1].Salida)
	// 7h55m = 475 minutos / 60
	assert.True(t, d("475").Div(d("60")).Equal(tramos[1].Horas))
}

// Una salida sin entrada previa no tiene tramo computable: se ignora.
func TestEmparejarAsistencia_SalidaSinEntradaSeIgnora(t *testing.T) {
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	regs := []*entity.RegistroAsistencia{
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(8*time.Hour)),
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(9*time.Hour)),
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(13*time.Hour)),
	}

	tramos := appcierre.EmparejarAsistencia(regs, dia.Add(18*time.Hour))

	require.Len(t, tramos, 1)
	assert.False(t, tramos[0].Abierto)
	assert.True(t, d("4").Equal(tramos[0].Horas))
}

// El emparejamiento no depende del orden de llegada de las marcaciones.
func TestEmparejarAsistencia_OrdenaAntesDeEmparejar(t *testing.T) {
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	regs := []*entity.RegistroAsistencia{
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(17*time.Hour)),
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(9*time.Hour)),
	}

	tramos := appcierre.EmparejarAsistencia(regs, dia.Add(18*time.Hour))

	require.Len(t, tramos, 1)
	assert.False(t, tramos[0].Abierto)
	assert.True(t, d("8").Equal(tramos[0].Horas))
}

func TestHorasPorEmpleado(t *testing.T) {
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	regs := []*entity.RegistroAsistencia{
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(9*time.Hour)),
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(13*time.Hour)),
		marcacion("emp-1", entity.AsistenciaEntrada, dia.Add(14*time.Hour)),
		marcacion("emp-1", entity.AsistenciaSalida, dia.Add(17*time.Hour)),
		marcacion("emp-2", entity.AsistenciaEntrada, dia.Add(10*time.Hour)),
		marcacion("emp-2", entity.AsistenciaSalida, dia.Add(16*time.Hour)),
	}

	horas := appcierre.HorasPorEmpleado(appcierre.EmparejarAsistencia(regs, dia.Add(18*time.Hour)))

	assert.True(t, d("7").Equal(horas["emp-1"]), "dos tramos de emp-1 se suman")
	assert.True(t, d("6").Equal(horas["emp-2"]))
}
