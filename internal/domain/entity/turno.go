package entity

// DefinicionTurno configuración de un turno de una sucursal.
// HoraInicio y HoraFin en formato "HH:MM" (UTC, igual que los timestamps de eventos).
// Si HoraFin <= HoraInicio el turno cruza medianoche (ej. 22:00 → 02:00).
type DefinicionTurno struct {
	ID         string
	SucursalID string
	Nombre     string // "mañana", "tarde", "noche"...
	HoraInicio string
	HoraFin    string
	Activo     bool
}
