package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrConfigPeriodoInvalida la sucursal no tiene definición para el periodo pedido.
	// Fatal para ese intento de cierre; no se reintenta automáticamente.
	ErrConfigPeriodoInvalida = errors.New("configuración de periodo inválida")

	// ErrFuenteNoDisponible falla de lectura en una fuente de eventos (transitoria).
	// El intento de cierre completo se aborta; el scheduler reintenta en el próximo tick.
	ErrFuenteNoDisponible = errors.New("fuente de eventos no disponible")

	// ErrAsientoFallido la cascada de asientos falló después de un cierre exitoso.
	// No revierte el cierre ya persistido; se expone para seguimiento del operador.
	ErrAsientoFallido = errors.New("registro de asiento fallido")
)
