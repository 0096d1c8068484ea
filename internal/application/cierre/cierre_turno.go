package cierre

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cierres-api/internal/domain"
	domcierre "github.com/jhoicas/Cierres-api/internal/domain/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/periodo"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
	"github.com/jhoicas/Cierres-api/pkg/logger"
)

// UserScheduler identidad con la que el lote programado firma los cierres.
const UserScheduler = "scheduler"

// CerrarTurnoUseCase cierre de un turno de una sucursal: pliega las órdenes
// completadas/entregadas de la ventana en desgloses por canal, método de pago
// y producto; concilia el efectivo esperado (fondo inicial + ventas en
// efectivo) contra el declarado de las sesiones de caja; y empareja las
// marcaciones de asistencia en horas por empleado. Persiste un cierre
// inmutable por (sucursal, periodo-turno).
type CerrarTurnoUseCase struct {
	cierres    repository.CierreRepository
	ordenes    repository.FuenteOrdenes
	sesiones   repository.FuenteSesionesCaja
	asistencia repository.FuenteAsistencia
	turnos     repository.TurnoRepository
	log        *logger.Logger
	ahora      func() time.Time
}

// NewCerrarTurnoUseCase construye el caso de uso.
func NewCerrarTurnoUseCase(
	cierres repository.CierreRepository,
	ordenes repository.FuenteOrdenes,
	sesiones repository.FuenteSesionesCaja,
	asistencia repository.FuenteAsistencia,
	turnos repository.TurnoRepository,
	log *logger.Logger,
) *CerrarTurnoUseCase {
	return &CerrarTurnoUseCase{
		cierres:    cierres,
		ordenes:    ordenes,
		sesiones:   sesiones,
		asistencia: asistencia,
		turnos:     turnos,
		log:        log,
		ahora:      time.Now,
	}
}

// CierreTurnoInput entrada del cierre de un turno concreto.
type CierreTurnoInput struct {
	SucursalID string
	PeriodoKey string // "YYYY-MM-DD|turno"
	UserID     string
}

// CerrarTurno ejecuta el cierre del turno. Idempotente: repetir la llamada
// devuelve el cierre existente con YaCerrado=true.
func (uc *CerrarTurnoUseCase) CerrarTurno(ctx context.Context, input CierreTurnoInput) (*ResultadoCierre, error) {
	if input.SucursalID == "" || input.PeriodoKey == "" {
		return nil, domain.ErrInvalidInput
	}
	if periodo.EsMensual(input.PeriodoKey) {
		return nil, fmt.Errorf("%w: el cierre de turno requiere clave fecha|turno, recibió %q",
			domain.ErrConfigPeriodoInvalida, input.PeriodoKey)
	}

	defs, err := uc.turnos.PorSucursal(input.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("%w: definiciones de turno: %v", domain.ErrFuenteNoDisponible, err)
	}
	rango, err := periodo.ResolverTurno(input.PeriodoKey, defs)
	if err != nil {
		return nil, err
	}

	ordenes, err := uc.ordenes.Listar(input.SucursalID, rango.Inicio, rango.Fin,
		[]string{entity.OrdenCompletada, entity.OrdenEntregada})
	if err != nil {
		return nil, fmt.Errorf("%w: órdenes: %v", domain.ErrFuenteNoDisponible, err)
	}
	totales := AgregarOrdenes(ordenes)

	sesiones, err := uc.sesiones.ListarCerradas(input.SucursalID, rango.Inicio, rango.Fin)
	if err != nil {
		return nil, fmt.Errorf("%w: sesiones de caja: %v", domain.ErrFuenteNoDisponible, err)
	}

	marcaciones, err := uc.asistencia.Listar(input.SucursalID, rango.Inicio, rango.Fin)
	if err != nil {
		return nil, fmt.Errorf("%w: asistencia: %v", domain.ErrFuenteNoDisponible, err)
	}
	tramos := EmparejarAsistencia(marcaciones, rango.Fin)

	// Conciliación de caja: esperado = fondo inicial + ventas en efectivo.
	// Sin sesión con monto declarado no hay conciliación (Real y Descuadre
	// quedan nulos); el cierre registra igualmente el esperado.
	fondoInicial := decimal.Zero
	var declarado *decimal.Decimal
	for _, s := range sesiones {
		fondoInicial = fondoInicial.Add(s.MontoInicial)
		if s.MontoDeclarado != nil {
			suma := s.MontoDeclarado.Add(valorODefecto(declarado))
			declarado = &suma
		}
	}
	entradasEfectivo := totales.VentasPorMetodo(entity.PagoEfectivo)
	esperado := domcierre.Esperado(fondoInicial, entradasEfectivo, decimal.Zero)

	var descuadre *decimal.Decimal
	if declarado != nil {
		d := domcierre.DescuadreCaja(*declarado, esperado)
		descuadre = &d
	}

	now := uc.ahora()
	nuevo := &entity.Cierre{
		ID:            uuid.New().String(),
		SucursalID:    input.SucursalID,
		SubEntidadID:  "",
		PeriodoKey:    input.PeriodoKey,
		Tipo:          entity.CierreTurno,
		SaldoApertura: fondoInicial,
		Entradas:      entradasEfectivo,
		Salidas:       decimal.Zero,
		Esperado:      esperado,
		Real:          declarado,
		Descuadre:     descuadre,
		Desgloses: map[string]entity.Desglose{
			"canal":          totales.PorCanal,
			"metodo_pago":    totales.PorMetodoPago,
			"producto":       totales.PorProducto,
			"horas_empleado": HorasPorEmpleado(tramos),
		},
		CreatedAt: now,
		CreatedBy: input.UserID,
	}

	persistido, creado, err := uc.cierres.CrearSiNoExiste(nuevo)
	if err != nil {
		return nil, fmt.Errorf("persistir cierre de turno: %w", err)
	}
	if !creado {
		uc.log.Info().
			Str("sucursal", input.SucursalID).
			Str("periodo", input.PeriodoKey).
			Msg("cierre de turno ya existente")
		return &ResultadoCierre{Cierre: persistido, YaCerrado: true}, nil
	}
	return &ResultadoCierre{Cierre: persistido}, nil
}

// ResumenLote resultado del lote programado.
type ResumenLote struct {
	Cerrados   int
	YaCerrados int
	Fallidos   int
}

// CerrarTurnosVencidos intenta cerrar, para cada sucursal con turnos activos,
// la instancia más recientemente terminada de cada turno respecto de ahora.
//
// Las fallas se aíslan por (sucursal, periodo): un error en una sucursal se
// registra y no bloquea a las demás; los cierres ya escritos en el mismo lote
// no se ven afectados. Reintentar en el siguiente tick es seguro porque los
// turnos ya cerrados terminan en no-ops idempotentes.
func (uc *CerrarTurnoUseCase) CerrarTurnosVencidos(ctx context.Context, ahora time.Time) ResumenLote {
	var resumen ResumenLote

	sucursales, err := uc.turnos.SucursalesConTurnos()
	if err != nil {
		uc.log.Error().Err(err).Msg("lote de cierres: no se pudieron listar sucursales")
		return resumen
	}

	for _, sucursalID := range sucursales {
		defs, err := uc.turnos.PorSucursal(sucursalID)
		if err != nil {
			uc.log.Error().Err(err).Str("sucursal", sucursalID).
				Msg("lote de cierres: definiciones de turno no disponibles")
			resumen.Fallidos++
			continue
		}
		for _, def := range defs {
			if !def.Activo {
				continue
			}
			clave, ok := ultimaInstanciaTerminada(def, defs, ahora)
			if !ok {
				continue
			}
			res, err := uc.CerrarTurno(ctx, CierreTurnoInput{
				SucursalID: sucursalID,
				PeriodoKey: clave,
				UserID:     UserScheduler,
			})
			switch {
			case err != nil:
				// Aislar la falla: se registra y se reintenta en el próximo tick.
				uc.log.Error().Err(err).
					Str("sucursal", sucursalID).
					Str("periodo", clave).
					Msg("cierre de turno fallido")
				resumen.Fallidos++
			case res.YaCerrado:
				resumen.YaCerrados++
			default:
				uc.log.Info().
					Str("sucursal", sucursalID).
					Str("periodo", clave).
					Str("cierre", res.Cierre.ID).
					Msg("turno cerrado")
				resumen.Cerrados++
			}
		}
	}
	return resumen
}

// ultimaInstanciaTerminada clave de la instancia más reciente del turno cuyo
// fin ya pasó: la de hoy si su ventana ya terminó, si no la de ayer. Es el
// único lugar (junto al scheduler que pasa ahora) donde la hora actual entra
// al cálculo de periodos.
func ultimaInstanciaTerminada(def entity.DefinicionTurno, defs []entity.DefinicionTurno, ahora time.Time) (string, bool) {
	ahora = ahora.UTC()
	for _, dias := range []int{0, -1} {
		fecha := ahora.AddDate(0, 0, dias)
		clave := periodo.ClaveTurno(fecha, def.Nombre)
		rango, err := periodo.ResolverTurno(clave, defs)
		if err != nil {
			return "", false
		}
		if !rango.Fin.After(ahora) {
			return clave, true
		}
	}
	return "", false
}

func valorODefecto(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
