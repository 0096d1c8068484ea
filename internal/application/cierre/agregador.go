package cierre

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

// Clave de bucket para metadatos ausentes (canal o producto sin valor).
// Es una rama deliberada del agregador, no un null-coalesce accidental.
const BucketDesconocido = "desconocido"

// ── Órdenes ───────────────────────────────────────────────────────────────────

// TotalesOrdenes resultado de plegar las órdenes de una ventana.
type TotalesOrdenes struct {
	Cantidad      int
	Suma          decimal.Decimal
	PorCanal      entity.Desglose
	PorMetodoPago entity.Desglose
	PorProducto   entity.Desglose
}

// AgregarOrdenes pliega las órdenes en un solo paso: totales escalares más
// desgloses por canal, método de pago y producto. Los metadatos vacíos caen
// en el bucket "desconocido". Las sumas son adición simple, sin ponderación.
func AgregarOrdenes(ordenes []*entity.Orden) TotalesOrdenes {
	t := TotalesOrdenes{
		Suma:          decimal.Zero,
		PorCanal:      entity.Desglose{},
		PorMetodoPago: entity.Desglose{},
		PorProducto:   entity.Desglose{},
	}
	for _, o := range ordenes {
		t.Cantidad++
		t.Suma = t.Suma.Add(o.Total)
		sumar(t.PorCanal, o.Canal, o.Total)
		sumar(t.PorMetodoPago, o.MetodoPago, o.Total)
		for _, item := range o.Items {
			sumar(t.PorProducto, item.Producto, item.Subtotal)
		}
	}
	return t
}

// VentasPorMetodo devuelve el total vendido con un método de pago concreto.
func (t TotalesOrdenes) VentasPorMetodo(metodo string) decimal.Decimal {
	if m, ok := t.PorMetodoPago[metodo]; ok {
		return m
	}
	return decimal.Zero
}

func sumar(d entity.Desglose, clave string, monto decimal.Decimal) {
	if clave == "" {
		clave = BucketDesconocido
	}
	d[clave] = d[clave].Add(monto)
}

// OrdenarDesglose convierte un desglose en una lista ordenada descendente por
// monto (empates por clave ascendente) para salida determinística y legible.
func OrdenarDesglose(d entity.Desglose) []entity.BucketMonto {
	out := make([]entity.BucketMonto, 0, len(d))
	for clave, monto := range d {
		out = append(out, entity.BucketMonto{Clave: clave, Monto: monto})
	}
	sort.Slice(out, func(i, j int) bool {
		cmp := out[i].Monto.Cmp(out[j].Monto)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Clave < out[j].Clave
	})
	return out
}

// ── Movimientos de stock ──────────────────────────────────────────────────────

// TotalesMovimientos entradas y salidas de un ingrediente en la ventana.
type TotalesMovimientos struct {
	Entradas decimal.Decimal
	Salidas  decimal.Decimal
	PorTipo  entity.Desglose
}

// AgregarMovimientos pliega los movimientos en un solo paso. Los tipos de
// reversa (venta, traslado_salida, merma) cuentan como salidas; el resto
// como entradas. Las cantidades vienen siempre positivas del log.
func AgregarMovimientos(movs []*entity.MovimientoStock) TotalesMovimientos {
	t := TotalesMovimientos{
		Entradas: decimal.Zero,
		Salidas:  decimal.Zero,
		PorTipo:  entity.Desglose{},
	}
	for _, m := range movs {
		if entity.EsSalida(m.Tipo) {
			t.Salidas = t.Salidas.Add(m.Cantidad)
		} else {
			t.Entradas = t.Entradas.Add(m.Cantidad)
		}
		sumar(t.PorTipo, m.Tipo, m.Cantidad)
	}
	return t
}

// ── Asistencia ────────────────────────────────────────────────────────────────

// TramoAsistencia un tramo trabajado dentro del periodo. Si la entrada no
// tuvo salida antes del fin del periodo, Abierto es true y las horas se
// computan contra el límite del periodo, no se descartan.
type TramoAsistencia struct {
	EmpleadoID string
	Entrada    time.Time
	Salida     time.Time
	Horas      decimal.Decimal
	Abierto    bool
}

// EmparejarAsistencia empareja marcaciones entrada/salida por empleado con la
// regla de pila "apertura sin pareja más reciente": una salida se empareja
// con la entrada sin pareja inmediatamente anterior. Entradas duplicadas
// quedan como tramos abiertos (incompletos) en vez de fusionarse en silencio.
// Salidas sin entrada previa se ignoran: no hay tramo computable.
//
// Requiere las marcaciones en orden de timestamp; se ordenan aquí de forma
// estable por si la fuente no lo garantiza.
func EmparejarAsistencia(regs []*entity.RegistroAsistencia, finPeriodo time.Time) []TramoAsistencia {
	ordenados := make([]*entity.RegistroAsistencia, len(regs))
	copy(ordenados, regs)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].Fecha.Before(ordenados[j].Fecha)
	})

	abiertas := map[string][]*entity.RegistroAsistencia{} // empleado -> pila de entradas sin pareja
	var tramos []TramoAsistencia

	for _, r := range ordenados {
		switch r.Tipo {
		case entity.AsistenciaEntrada:
			abiertas[r.EmpleadoID] = append(abiertas[r.EmpleadoID], r)
		case entity.AsistenciaSalida:
			pila := abiertas[r.EmpleadoID]
			if len(pila) == 0 {
				continue
			}
			entrada := pila[len(pila)-1]
			abiertas[r.EmpleadoID] = pila[:len(pila)-1]
			tramos = append(tramos, TramoAsistencia{
				EmpleadoID: r.EmpleadoID,
				Entrada:    entrada.Fecha,
				Salida:     r.Fecha,
				Horas:      horasEntre(entrada.Fecha, r.Fecha),
			})
		}
	}

	// Entradas que quedaron sin salida: tramos abiertos hasta el fin del periodo.
	for empleado, pila := range abiertas {
		for _, entrada := range pila {
			tramos = append(tramos, TramoAsistencia{
				EmpleadoID: empleado,
				Entrada:    entrada.Fecha,
				Salida:     finPeriodo,
				Horas:      horasEntre(entrada.Fecha, finPeriodo),
				Abierto:    true,
			})
		}
	}

	sort.Slice(tramos, func(i, j int) bool {
		if tramos[i].EmpleadoID != tramos[j].EmpleadoID {
			return tramos[i].EmpleadoID < tramos[j].EmpleadoID
		}
		return tramos[i].Entrada.Before(tramos[j].Entrada)
	})
	return tramos
}

// HorasPorEmpleado desglose de horas trabajadas (tramos cerrados y abiertos).
func HorasPorEmpleado(tramos []TramoAsistencia) entity.Desglose {
	d := entity.Desglose{}
	for _, t := range tramos {
		sumar(d, t.EmpleadoID, t.Horas)
	}
	return d
}

// horasEntre duración en horas como decimal, a partir de minutos enteros.
func horasEntre(desde, hasta time.Time) decimal.Decimal {
	if hasta.Before(desde) {
		return decimal.Zero
	}
	minutos := int64(hasta.Sub(desde) / time.Minute)
	return decimal.NewFromInt(minutos).Div(decimal.NewFromInt(60))
}
