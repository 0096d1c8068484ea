// Package pdf genera el acta de cierre imprimible que el encargado archiva
// con la documentación del periodo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Sucursal + tipo de cierre  │  Periodo + fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONCILIACIÓN: apertura / entradas / salidas / esperado /    │
//	│                real / descuadre                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESGLOSES: una tabla por dimensión, ordenada por monto      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ActaCierreGenerator genera el acta de un cierre usando Maroto v2.
type ActaCierreGenerator struct{}

// NewActaCierreGenerator construye el generador.
func NewActaCierreGenerator() *ActaCierreGenerator { return &ActaCierreGenerator{} }

// Generar genera el PDF del acta y devuelve sus bytes.
func (g *ActaCierreGenerator) Generar(c *entity.Cierre) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de cierre de periodo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(conciliacionRows(c)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range desgloseRows(c) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: sucursal + tipo (izq) y periodo + fecha de cierre (der).
func headerRow(c *entity.Cierre) core.Row {
	titulo := "ACTA DE CIERRE DE TURNO"
	if c.Tipo == entity.CierreStockMensual {
		titulo = "ACTA DE CIERRE DE STOCK"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Sucursal: "+c.SucursalID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Periodo: "+c.PeriodoKey, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Cerrado: "+c.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// conciliacionRows: los seis valores de la conciliación, dos por renglón.
func conciliacionRows(c *entity.Cierre) []core.Row {
	pares := [][2]string{
		{"Saldo de apertura", formatoMonto(c.SaldoApertura)},
		{"Entradas", formatoMonto(c.Entradas)},
		{"Salidas", formatoMonto(c.Salidas)},
		{"Esperado", formatoMonto(c.Esperado)},
		{"Real", formatoOpcional(c.Real)},
		{"Descuadre", formatoOpcional(c.Descuadre)},
	}
	var rows []core.Row
	for i := 0; i < len(pares); i += 2 {
		rows = append(rows, row.New(8).Add(
			col.New(3).Add(text.New(pares[i][0], props.Text{Size: 8, Color: colorGray, Top: 1})),
			col.New(3).Add(text.New(pares[i][1], props.Text{Size: 9, Style: fontstyle.Bold, Top: 1})),
			col.New(3).Add(text.New(pares[i+1][0], props.Text{Size: 8, Color: colorGray, Top: 1})),
			col.New(3).Add(text.New(pares[i+1][1], props.Text{Size: 9, Style: fontstyle.Bold, Top: 1})),
		))
	}
	return rows
}

// desgloseRows: una mini-tabla por dimensión, renglones ordenados por monto.
func desgloseRows(c *entity.Cierre) []core.Row {
	var rows []core.Row
	for _, dimension := range dimensionesOrdenadas(c.Desgloses) {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New("Desglose por "+dimension, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			})),
		))
		for _, bucket := range appcierre.OrdenarDesglose(c.Desgloses[dimension]) {
			rows = append(rows, row.New(6).Add(
				col.New(8).Add(text.New(bucket.Clave, props.Text{Size: 8, Top: 1})),
				col.New(4).Add(text.New(formatoMonto(bucket.Monto), props.Text{
					Size: 8, Align: align.Right, Top: 1,
				})),
			))
		}
	}
	return rows
}

func dimensionesOrdenadas(desgloses map[string]entity.Desglose) []string {
	claves := make([]string, 0, len(desgloses))
	for k := range desgloses {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	return claves
}

// formatoMonto redondeo de presentación a 2 decimales (solo aquí, nunca
// antes de persistir).
func formatoMonto(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatoOpcional(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return formatoMonto(*d)
}
