package cierre_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del cierre de turno: conciliación de caja, desgloses de ventas,
// horas de asistencia y el lote programado con aislamiento de fallas.
// ──────────────────────────────────────────────────────────────────────────────

type entornoTurno struct {
	cierres    *fakeCierreRepo
	ordenes    *fakeFuenteOrdenes
	sesiones   *fakeFuenteSesiones
	asistencia *fakeFuenteAsistencia
	turnos     *fakeTurnoRepo
	uc         *appcierre.CerrarTurnoUseCase
}

func nuevoEntornoTurno() *entornoTurno {
	e := &entornoTurno{
		cierres:    newFakeCierreRepo(),
		ordenes:    &fakeFuenteOrdenes{errPorSucursal: map[string]error{}},
		sesiones:   &fakeFuenteSesiones{},
		asistencia: &fakeFuenteAsistencia{},
		turnos: &fakeTurnoRepo{porSucursal: map[string][]entity.DefinicionTurno{
			"suc-1": {
				{ID: "t1", SucursalID: "suc-1", Nombre: "dia", HoraInicio: "08:00", HoraFin: "16:00", Activo: true},
			},
		}},
	}
	e.uc = appcierre.NewCerrarTurnoUseCase(e.cierres, e.ordenes, e.sesiones, e.asistencia, e.turnos, logger.Nop())
	return e
}

func (e *entornoTurno) orden(sucursal, canal, metodo, estado, total string, fecha time.Time) {
	e.ordenes.ordenes = append(e.ordenes.ordenes, &entity.Orden{
		SucursalID: sucursal, Canal: canal, MetodoPago: metodo,
		Estado: estado, Total: d(total), Fecha: fecha,
	})
}

// TestCerrarTurno_ConciliacionDeCaja: fondo inicial 5000 y ventas en efectivo
// de 40000 dan esperado 45000; un declarado de 44500 deja descuadre -500.
// Tarjeta no cuenta en la caja pero sí en los desgloses.
func TestCerrarTurno_ConciliacionDeCaja(t *testing.T) {
	e := nuevoEntornoTurno()
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, entity.OrdenCompletada, "25000", dia.Add(10*time.Hour))
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, entity.OrdenEntregada, "15000", dia.Add(12*time.Hour))
	e.orden("suc-1", "rappi", entity.PagoTarjeta, entity.OrdenCompletada, "18000", dia.Add(13*time.Hour))
	// Cancelada y fuera de ventana: no cuentan.
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, "cancelada", "9000", dia.Add(11*time.Hour))
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, entity.OrdenCompletada, "9000", dia.Add(17*time.Hour))

	declarado := d("44500")
	cerradaEn := dia.Add(15*time.Hour + 55*time.Minute)
	e.sesiones.sesiones = []*entity.SesionCaja{{
		SucursalID: "suc-1", Estado: entity.SesionCerrada,
		MontoInicial: d("5000"), MontoDeclarado: &declarado,
		AbiertaEn: dia.Add(8 * time.Hour), CerradaEn: &cerradaEn,
	}}
	e.asistencia.registros = []*entity.RegistroAsistencia{
		{SucursalID: "suc-1", EmpleadoID: "emp-1", Tipo: entity.AsistenciaEntrada, Fecha: dia.Add(8 * time.Hour)},
		{SucursalID: "suc-1", EmpleadoID: "emp-1", Tipo: entity.AsistenciaSalida, Fecha: dia.Add(16 * time.Hour)},
	}

	res, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08-15|dia", UserID: "user-1",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Cierre)
	assert.False(t, res.YaCerrado)

	c := res.Cierre
	assert.Equal(t, entity.CierreTurno, c.Tipo)
	assert.Equal(t, "", c.SubEntidadID)
	assert.True(t, d("5000").Equal(c.SaldoApertura))
	assert.True(t, d("40000").Equal(c.Entradas), "solo el efectivo entra a la caja")
	assert.True(t, decimal.Zero.Equal(c.Salidas))
	assert.True(t, d("45000").Equal(c.Esperado))
	require.NotNil(t, c.Real)
	assert.True(t, d("44500").Equal(*c.Real))
	require.NotNil(t, c.Descuadre)
	assert.True(t, d("-500").Equal(*c.Descuadre), "faltante de 500, con signo")

	// Desgloses: las cuatro dimensiones del cierre de turno.
	assert.True(t, d("40000").Equal(c.Desgloses["canal"]["mostrador"]))
	assert.True(t, d("18000").Equal(c.Desgloses["canal"]["rappi"]))
	assert.True(t, d("18000").Equal(c.Desgloses["metodo_pago"][entity.PagoTarjeta]))
	assert.True(t, d("8").Equal(c.Desgloses["horas_empleado"]["emp-1"]))
}

// Sin sesión con monto declarado no hay conciliación: Real y Descuadre nulos,
// pero el cierre registra igual el esperado.
func TestCerrarTurno_SinDeclaradoNoConcilia(t *testing.T) {
	e := nuevoEntornoTurno()
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, entity.OrdenCompletada, "10000", dia.Add(10*time.Hour))

	res, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08-15|dia", UserID: "user-1",
	})
	require.NoError(t, err)

	assert.True(t, d("10000").Equal(res.Cierre.Esperado))
	assert.Nil(t, res.Cierre.Real)
	assert.Nil(t, res.Cierre.Descuadre)
}

// La sesión pertenece al periodo en que se cerró: una caja abierta minutos
// antes del turno concilia igual, y una cerrada después del fin del turno
// queda para el periodo siguiente.
func TestCerrarTurno_SesionAsignadaPorInstanteDeCierre(t *testing.T) {
	e := nuevoEntornoTurno()
	dia := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	e.orden("suc-1", "mostrador", entity.PagoEfectivo, entity.OrdenCompletada, "10000", dia.Add(10*time.Hour))

	declaradoTemprana := d("12000")
	cierreTemprana := dia.Add(15 * time.Hour)
	declaradoTardia := d("99999")
	cierreTardia := dia.Add(16*time.Hour + 30*time.Minute)
	e.sesiones.sesiones = []*entity.SesionCaja{
		{
			// Abierta a las 07:50, antes del inicio del turno de las 08:00.
			SucursalID: "suc-1", Estado: entity.SesionCerrada,
			MontoInicial: d("2000"), MontoDeclarado: &declaradoTemprana,
			AbiertaEn: dia.Add(7*time.Hour + 50*time.Minute), CerradaEn: &cierreTemprana,
		},
		{
			// Cerrada a las 16:30, fuera de [08:00, 16:00): no cuenta aquí.
			SucursalID: "suc-1", Estado: entity.SesionCerrada,
			MontoInicial: d("7777"), MontoDeclarado: &declaradoTardia,
			AbiertaEn: dia.Add(9 * time.Hour), CerradaEn: &cierreTardia,
		},
	}

	res, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08-15|dia", UserID: "user-1",
	})
	require.NoError(t, err)

	c := res.Cierre
	assert.True(t, d("2000").Equal(c.SaldoApertura), "solo el fondo de la sesión cerrada en ventana")
	assert.True(t, d("12000").Equal(c.Esperado), "2000 de fondo + 10000 en efectivo")
	require.NotNil(t, c.Real)
	assert.True(t, d("12000").Equal(*c.Real))
	require.NotNil(t, c.Descuadre)
	assert.True(t, decimal.Zero.Equal(*c.Descuadre))
}

func TestCerrarTurno_Idempotente(t *testing.T) {
	e := nuevoEntornoTurno()
	in := appcierre.CierreTurnoInput{SucursalID: "suc-1", PeriodoKey: "2026-08-15|dia", UserID: "user-1"}

	primero, err := e.uc.CerrarTurno(context.Background(), in)
	require.NoError(t, err)
	segundo, err := e.uc.CerrarTurno(context.Background(), in)
	require.NoError(t, err)

	assert.False(t, primero.YaCerrado)
	assert.True(t, segundo.YaCerrado)
	assert.Equal(t, primero.Cierre.ID, segundo.Cierre.ID)
	assert.Len(t, e.cierres.porClave, 1)
}

func TestCerrarTurno_ClaveMensualRechazada(t *testing.T) {
	e := nuevoEntornoTurno()
	_, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08", UserID: "user-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigPeriodoInvalida)
}

func TestCerrarTurno_TurnoDesconocido(t *testing.T) {
	e := nuevoEntornoTurno()
	_, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08-15|madrugada", UserID: "user-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigPeriodoInvalida)
}

func TestCerrarTurno_FuenteCaida(t *testing.T) {
	e := nuevoEntornoTurno()
	e.ordenes.errPorSucursal["suc-1"] = errors.New("timeout")

	_, err := e.uc.CerrarTurno(context.Background(), appcierre.CierreTurnoInput{
		SucursalID: "suc-1", PeriodoKey: "2026-08-15|dia", UserID: "user-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFuenteNoDisponible)
	assert.Empty(t, e.cierres.porClave)
}

// ── Lote programado ───────────────────────────────────────────────────────────

// TestCerrarTurnosVencidos_AislaFallas: una sucursal con la fuente de órdenes
// caída no bloquea a las demás; su falla se cuenta y el resto cierra normal.
func TestCerrarTurnosVencidos_AislaFallas(t *testing.T) {
	e := nuevoEntornoTurno()
	e.turnos.porSucursal["suc-2"] = []entity.DefinicionTurno{
		{ID: "t2", SucursalID: "suc-2", Nombre: "dia", HoraInicio: "08:00", HoraFin: "16:00", Activo: true},
	}
	e.ordenes.errPorSucursal["suc-2"] = errors.New("fuente caída")

	// A las 18:00 el turno "dia" (08:00-16:00) de hoy ya venció.
	ahora := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)
	resumen := e.uc.CerrarTurnosVencidos(context.Background(), ahora)

	assert.Equal(t, 1, resumen.Cerrados, "suc-1 cierra normal")
	assert.Equal(t, 1, resumen.Fallidos, "la falla de suc-2 queda aislada")
	assert.Equal(t, 0, resumen.YaCerrados)

	cierre, err := e.cierres.Buscar("suc-1", "", "2026-08-15|dia")
	require.NoError(t, err)
	require.NotNil(t, cierre)
	assert.Equal(t, appcierre.UserScheduler, cierre.CreatedBy)
}

// El siguiente tick reintenta: lo ya cerrado termina en no-op y lo que falló
// vuelve a intentarse.
func TestCerrarTurnosVencidos_ReintentoIdempotente(t *testing.T) {
	e := nuevoEntornoTurno()
	ahora := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)

	primero := e.uc.CerrarTurnosVencidos(context.Background(), ahora)
	segundo := e.uc.CerrarTurnosVencidos(context.Background(), ahora)

	assert.Equal(t, 1, primero.Cerrados)
	assert.Equal(t, 0, segundo.Cerrados)
	assert.Equal(t, 1, segundo.YaCerrados)
	assert.Len(t, e.cierres.porClave, 1, "un solo cierre pese a los dos ticks")
}

// Antes de que el turno termine, el lote cierra la instancia de ayer, no la
// de hoy a medias.
func TestCerrarTurnosVencidos_TurnoEnCursoCierraElDeAyer(t *testing.T) {
	e := nuevoEntornoTurno()

	// 12:00: el turno de hoy (08:00-16:00) sigue abierto.
	ahora := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	resumen := e.uc.CerrarTurnosVencidos(context.Background(), ahora)

	assert.Equal(t, 1, resumen.Cerrados)
	hoy, _ := e.cierres.Buscar("suc-1", "", "2026-08-15|dia")
	assert.Nil(t, hoy, "la instancia en curso no se cierra")
	ayer, _ := e.cierres.Buscar("suc-1", "", "2026-08-14|dia")
	assert.NotNil(t, ayer)
}
