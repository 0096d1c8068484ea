package entity

import "time"

// Tipos de registro de asistencia.
const (
	AsistenciaEntrada = "entrada"
	AsistenciaSalida  = "salida"
)

// RegistroAsistencia marcación de entrada o salida de un empleado.
// Append-only: las marcaciones duplicadas u olvidadas no se borran; el
// agregador del cierre las reporta como incompletas.
type RegistroAsistencia struct {
	ID         string
	SucursalID string
	EmpleadoID string
	Tipo       string
	Fecha      time.Time
}
