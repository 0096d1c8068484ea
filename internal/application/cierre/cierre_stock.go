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

// CerrarStockUseCase cierre mensual de stock por ingrediente: pliega los
// movimientos del mes, arrastra el saldo del cierre anterior, concilia contra
// el conteo físico y persiste un cierre inmutable por (sucursal, ingrediente,
// mes). La merma detectada dispara la cascada de asientos.
type CerrarStockUseCase struct {
	cierres      repository.CierreRepository
	movimientos  repository.MovimientoStockRepository
	ingredientes repository.IngredienteRepository
	cascada      *CascadaAsientos
	log          *logger.Logger
	ahora        func() time.Time
}

// NewCerrarStockUseCase construye el caso de uso.
func NewCerrarStockUseCase(
	cierres repository.CierreRepository,
	movimientos repository.MovimientoStockRepository,
	ingredientes repository.IngredienteRepository,
	cascada *CascadaAsientos,
	log *logger.Logger,
) *CerrarStockUseCase {
	return &CerrarStockUseCase{
		cierres:      cierres,
		movimientos:  movimientos,
		ingredientes: ingredientes,
		cascada:      cascada,
		log:          log,
		ahora:        time.Now,
	}
}

// ConteoFisico cantidad contada de un ingrediente al cierre del mes.
type ConteoFisico struct {
	IngredienteID string
	CantidadReal  decimal.Decimal
}

// CierreStockInput entrada del cierre mensual manual.
type CierreStockInput struct {
	SucursalID string
	PeriodoKey string // "YYYY-MM"
	UserID     string
	Conteos    []ConteoFisico
}

// ResultadoCierre resultado por sub-entidad. YaCerrado indica el no-op
// idempotente (el cierre devuelto es el ya existente, sin asientos nuevos).
// ErrAsiento reporta una cascada fallida sin invalidar el cierre.
type ResultadoCierre struct {
	Cierre     *entity.Cierre
	YaCerrado  bool
	Asiento    *entity.Asiento
	ErrAsiento error
}

// CerrarStock ejecuta el cierre mensual para los conteos recibidos.
//
// Un error de lectura de fuentes aborta el intento completo (nunca se
// persiste un cierre parcial); los cierres de conteos anteriores del mismo
// lote ya persistidos no se revierten, y repetir el envío es seguro gracias
// a CrearSiNoExiste.
func (uc *CerrarStockUseCase) CerrarStock(ctx context.Context, input CierreStockInput) ([]ResultadoCierre, error) {
	if input.SucursalID == "" || len(input.Conteos) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !periodo.EsMensual(input.PeriodoKey) {
		return nil, fmt.Errorf("%w: el cierre de stock requiere clave mensual, recibió %q",
			domain.ErrConfigPeriodoInvalida, input.PeriodoKey)
	}
	rango, err := periodo.ResolverMensual(input.PeriodoKey)
	if err != nil {
		return nil, err
	}
	claveAnterior, err := periodo.Anterior(input.PeriodoKey)
	if err != nil {
		return nil, err
	}

	resultados := make([]ResultadoCierre, 0, len(input.Conteos))
	for _, conteo := range input.Conteos {
		res, err := uc.cerrarIngrediente(ctx, input, conteo, rango, claveAnterior)
		if err != nil {
			return nil, err
		}
		resultados = append(resultados, res)
	}
	return resultados, nil
}

func (uc *CerrarStockUseCase) cerrarIngrediente(
	_ context.Context,
	input CierreStockInput,
	conteo ConteoFisico,
	rango periodo.Rango,
	claveAnterior string,
) (ResultadoCierre, error) {
	ing, err := uc.ingredientes.GetByID(conteo.IngredienteID)
	if err != nil {
		return ResultadoCierre{}, fmt.Errorf("%w: ingredientes: %v", domain.ErrFuenteNoDisponible, err)
	}
	if ing == nil || ing.SucursalID != input.SucursalID {
		return ResultadoCierre{}, fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, conteo.IngredienteID)
	}
	if conteo.CantidadReal.IsNegative() {
		return ResultadoCierre{}, domain.ErrInvalidInput
	}

	movs, err := uc.movimientos.ListarPorIngrediente(input.SucursalID, ing.ID, rango.Inicio, rango.Fin)
	if err != nil {
		return ResultadoCierre{}, fmt.Errorf("%w: movimientos de stock: %v", domain.ErrFuenteNoDisponible, err)
	}
	totales := AgregarMovimientos(movs)

	apertura, err := uc.saldoApertura(input.SucursalID, ing.ID, claveAnterior)
	if err != nil {
		return ResultadoCierre{}, err
	}

	esperado := domcierre.Esperado(apertura, totales.Entradas, totales.Salidas)
	real := conteo.CantidadReal
	// El descuadre del cierre de stock queda firmado (un sobrante es visible
	// como descuadre positivo) pero la merma tiene piso en cero.
	descuadre := real.Sub(esperado)
	merma := domcierre.Merma(esperado, real)

	now := uc.ahora()
	nuevo := &entity.Cierre{
		ID:            uuid.New().String(),
		SucursalID:    input.SucursalID,
		SubEntidadID:  ing.ID,
		PeriodoKey:    input.PeriodoKey,
		Tipo:          entity.CierreStockMensual,
		SaldoApertura: apertura,
		Entradas:      totales.Entradas,
		Salidas:       totales.Salidas,
		Esperado:      esperado,
		Real:          &real,
		Descuadre:     &descuadre,
		Desgloses: map[string]entity.Desglose{
			"tipo_movimiento": totales.PorTipo,
		},
		CreatedAt: now,
		CreatedBy: input.UserID,
	}

	persistido, creado, err := uc.cierres.CrearSiNoExiste(nuevo)
	if err != nil {
		return ResultadoCierre{}, fmt.Errorf("persistir cierre de stock: %w", err)
	}
	if !creado {
		// Reintento o doble envío: no-op idempotente, cero asientos nuevos.
		uc.log.Info().
			Str("sucursal", input.SucursalID).
			Str("ingrediente", ing.ID).
			Str("periodo", input.PeriodoKey).
			Msg("cierre de stock ya existente")
		return ResultadoCierre{Cierre: persistido, YaCerrado: true}, nil
	}

	// La merma pertenece al mes que se cierra, no al instante en que alguien
	// pulsó "cerrar": fechada en now caería en el mes siguiente y la
	// agregación la restaría otra vez sobre un arrastre que ya la descontó.
	fechaMerma := rango.Fin.Add(-time.Second)
	asiento, errAsiento := uc.cascada.Ejecutar(persistido, ing, merma, fechaMerma, now, input.UserID)
	if errAsiento != nil {
		uc.log.Error().Err(errAsiento).
			Str("cierre", persistido.ID).
			Msg("cascada de asientos fallida; el cierre queda persistido")
	}
	return ResultadoCierre{Cierre: persistido, Asiento: asiento, ErrAsiento: errAsiento}, nil
}

// saldoApertura arrastre del periodo anterior: el conteo real si existió, si
// no el esperado; cero cuando no hay cierre previo (primer cierre, no es
// error). Nunca lee periodos futuros ni el cierre aún no creado del periodo
// actual.
func (uc *CerrarStockUseCase) saldoApertura(sucursalID, ingredienteID, claveAnterior string) (decimal.Decimal, error) {
	previo, err := uc.cierres.Buscar(sucursalID, ingredienteID, claveAnterior)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cierre anterior: %v", domain.ErrFuenteNoDisponible, err)
	}
	if previo == nil {
		return decimal.Zero, nil
	}
	if previo.Real != nil {
		return *previo.Real, nil
	}
	return previo.Esperado, nil
}
