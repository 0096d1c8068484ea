package cierre

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cierres-api/internal/domain"
	domcierre "github.com/jhoicas/Cierres-api/internal/domain/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

// CascadaAsientos emite los registros secundarios de un cierre con merma:
// un movimiento de stock tipo merma (para que el kardex refleje la salida) y
// un asiento de costo en la categoría P&L del ingrediente.
//
// Es best-effort respecto al cierre: corre solo después de un cierre recién
// creado (nunca tras un "ya cerrado") y, si falla, el cierre sigue siendo
// válido; el error se devuelve envuelto en ErrAsientoFallido para seguimiento
// del operador, sin revertir nada.
type CascadaAsientos struct {
	movimientos      repository.MovimientoStockRepository
	asientos         repository.AsientoRepository
	categoriaDefecto string
}

// NewCascadaAsientos construye la cascada. categoriaDefecto se usa cuando el
// ingrediente no tiene categoría de costo configurada.
func NewCascadaAsientos(
	movimientos repository.MovimientoStockRepository,
	asientos repository.AsientoRepository,
	categoriaDefecto string,
) *CascadaAsientos {
	return &CascadaAsientos{
		movimientos:      movimientos,
		asientos:         asientos,
		categoriaDefecto: categoriaDefecto,
	}
}

// Ejecutar crea el movimiento de merma y el asiento de costo para un cierre
// de stock. Con merma cero o negativa no emite nada (un conteo físico por
// encima del esperado no genera asiento).
//
// fechaMerma debe caer dentro del periodo recién cerrado: el arrastre del
// mes siguiente ya parte del conteo físico (que refleja la pérdida), así que
// un movimiento de merma fechado fuera del periodo se restaría dos veces.
func (c *CascadaAsientos) Ejecutar(
	cr *entity.Cierre,
	ing *entity.Ingrediente,
	merma decimal.Decimal,
	fechaMerma time.Time,
	now time.Time,
	userID string,
) (*entity.Asiento, error) {
	if !merma.IsPositive() {
		return nil, nil
	}

	mov := &entity.MovimientoStock{
		ID:            uuid.New().String(),
		SucursalID:    cr.SucursalID,
		IngredienteID: ing.ID,
		Tipo:          entity.MovimientoMerma,
		Cantidad:      merma,
		CostoUnitario: ing.CostoUnitario,
		Referencia:    cr.ID,
		Fecha:         fechaMerma,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := c.movimientos.Crear(mov); err != nil {
		return nil, fmt.Errorf("%w: movimiento de merma: %v", domain.ErrAsientoFallido, err)
	}

	categoria := ing.CategoriaCosto
	if categoria == "" {
		categoria = c.categoriaDefecto
	}
	asiento := &entity.Asiento{
		ID:             uuid.New().String(),
		CierreOrigenID: cr.ID,
		Categoria:      categoria,
		Monto:          domcierre.CostoMerma(merma, ing.CostoUnitario),
		PeriodoKey:     cr.PeriodoKey,
		Nota:           fmt.Sprintf("Merma %s %s de %s (conteo %s)", merma.String(), ing.Unidad, ing.Nombre, cr.PeriodoKey),
		CreatedAt:      now,
	}
	if err := c.asientos.Crear(asiento); err != nil {
		return nil, fmt.Errorf("%w: asiento de costo: %v", domain.ErrAsientoFallido, err)
	}
	return asiento, nil
}
