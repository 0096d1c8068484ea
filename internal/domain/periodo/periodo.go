// Package periodo resuelve claves de periodo a rangos de instantes concretos.
//
// Una clave de periodo identifica el bucket de tiempo que se cierra:
//
//	"2026-08"          → mes calendario (cierre de stock)
//	"2026-08-15|noche" → turno nombrado de una fecha (cierre de turno)
//
// Todo el cálculo es en UTC: la plataforma normaliza los timestamps de los
// eventos a UTC al ingresarlos, y resolver en UTC evita los bugs de borde de
// mes por zona horaria local. Ningún componente de este paquete lee el reloj
// del sistema; la clave llega siempre como parámetro explícito.
package periodo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain"
	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

// Rango ventana semiabierta [Inicio, Fin): un evento en Fin exacto queda fuera.
type Rango struct {
	Inicio time.Time
	Fin    time.Time
}

// Contiene indica si el instante cae dentro de la ventana semiabierta.
func (r Rango) Contiene(t time.Time) bool {
	return !t.Before(r.Inicio) && t.Before(r.Fin)
}

const (
	formatoMes     = "2006-01"
	formatoFecha   = "2006-01-02"
	separadorTurno = "|"
)

// ClaveMensual construye la clave de mes calendario para un instante (en UTC).
func ClaveMensual(t time.Time) string {
	return t.UTC().Format(formatoMes)
}

// ClaveTurno construye la clave de un turno nombrado en una fecha (en UTC).
func ClaveTurno(t time.Time, turno string) string {
	return t.UTC().Format(formatoFecha) + separadorTurno + turno
}

// EsMensual indica si la clave es de mes calendario.
func EsMensual(clave string) bool {
	return !strings.Contains(clave, separadorTurno)
}

// NombreTurno devuelve el nombre del turno de una clave de turno ("" si es mensual).
func NombreTurno(clave string) string {
	_, turno, ok := strings.Cut(clave, separadorTurno)
	if !ok {
		return ""
	}
	return turno
}

// Anterior devuelve la clave del periodo inmediatamente anterior: el mes
// previo para claves mensuales, el día previo con el mismo turno para claves
// de turno. Es la regla de predecesor que alimenta el arrastre de saldos.
func Anterior(clave string) (string, error) {
	if EsMensual(clave) {
		t, err := time.Parse(formatoMes, clave)
		if err != nil {
			return "", fmt.Errorf("%w: clave mensual %q", domain.ErrConfigPeriodoInvalida, clave)
		}
		return t.AddDate(0, -1, 0).Format(formatoMes), nil
	}
	fecha, turno, _ := strings.Cut(clave, separadorTurno)
	t, err := time.Parse(formatoFecha, fecha)
	if err != nil {
		return "", fmt.Errorf("%w: clave de turno %q", domain.ErrConfigPeriodoInvalida, clave)
	}
	return t.AddDate(0, 0, -1).Format(formatoFecha) + separadorTurno + turno, nil
}

// Resolver calcula la ventana [inicio, fin) de una clave. Para claves de
// turno necesita las definiciones de turno de la sucursal; si ninguna
// definición activa coincide con el nombre devuelve ErrConfigPeriodoInvalida.
func Resolver(clave string, defs []entity.DefinicionTurno) (Rango, error) {
	if EsMensual(clave) {
		return ResolverMensual(clave)
	}
	return ResolverTurno(clave, defs)
}

// ResolverMensual ventana de un mes calendario: [día 1 00:00 UTC, día 1 del mes siguiente).
func ResolverMensual(clave string) (Rango, error) {
	t, err := time.Parse(formatoMes, clave)
	if err != nil {
		return Rango{}, fmt.Errorf("%w: clave mensual %q", domain.ErrConfigPeriodoInvalida, clave)
	}
	inicio := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Rango{Inicio: inicio, Fin: inicio.AddDate(0, 1, 0)}, nil
}

// ResolverTurno ventana de un turno nombrado. Si la hora de fin es menor o
// igual a la de inicio el turno cruza medianoche y el fin rueda al día
// siguiente: "2026-08-15|noche" con 22:00→02:00 produce
// [15 ago 22:00, 16 ago 02:00).
func ResolverTurno(clave string, defs []entity.DefinicionTurno) (Rango, error) {
	fecha, nombre, ok := strings.Cut(clave, separadorTurno)
	if !ok {
		return Rango{}, fmt.Errorf("%w: clave de turno %q", domain.ErrConfigPeriodoInvalida, clave)
	}
	dia, err := time.Parse(formatoFecha, fecha)
	if err != nil {
		return Rango{}, fmt.Errorf("%w: fecha %q", domain.ErrConfigPeriodoInvalida, fecha)
	}

	var def *entity.DefinicionTurno
	for i := range defs {
		if defs[i].Nombre == nombre && defs[i].Activo {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return Rango{}, fmt.Errorf("%w: la sucursal no tiene turno %q", domain.ErrConfigPeriodoInvalida, nombre)
	}

	hIni, mIni, err := parseHora(def.HoraInicio)
	if err != nil {
		return Rango{}, fmt.Errorf("%w: hora de inicio %q", domain.ErrConfigPeriodoInvalida, def.HoraInicio)
	}
	hFin, mFin, err := parseHora(def.HoraFin)
	if err != nil {
		return Rango{}, fmt.Errorf("%w: hora de fin %q", domain.ErrConfigPeriodoInvalida, def.HoraFin)
	}

	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), hIni, mIni, 0, 0, time.UTC)
	fin := time.Date(dia.Year(), dia.Month(), dia.Day(), hFin, mFin, 0, 0, time.UTC)
	if !fin.After(inicio) {
		// El turno cruza medianoche: el fin es del día siguiente.
		fin = fin.AddDate(0, 0, 1)
	}
	return Rango{Inicio: inicio, Fin: fin}, nil
}

// parseHora parsea "HH:MM" de una definición de turno.
func parseHora(s string) (h, m int, err error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("formato esperado HH:MM")
	}
	h, err = strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("hora fuera de rango")
	}
	m, err = strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("minuto fuera de rango")
	}
	return h, m, nil
}
