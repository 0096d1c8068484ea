package repository

import (
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
)

// Fuentes de eventos del motor de cierres (DIP). Son lecturas sin efectos
// sobre logs append-only; la ventana es siempre semiabierta [desde, hasta).
// Paginación y límites son responsabilidad del adaptador, no del agregador.

// FuenteOrdenes lectura de órdenes con filtro de estados.
type FuenteOrdenes interface {
	Listar(sucursalID string, desde, hasta time.Time, estados []string) ([]*entity.Orden, error)
}

// FuenteSesionesCaja lectura de sesiones de caja cerradas dentro de la
// ventana. El criterio es el instante de cierre (cerrada_en): cada sesión
// pertenece a exactamente un periodo, aunque se haya abierto antes de él.
type FuenteSesionesCaja interface {
	ListarCerradas(sucursalID string, desde, hasta time.Time) ([]*entity.SesionCaja, error)
}

// FuenteAsistencia lectura de marcaciones, ordenadas por fecha ascendente
// (requisito de la regla de emparejamiento entrada/salida).
type FuenteAsistencia interface {
	Listar(sucursalID string, desde, hasta time.Time) ([]*entity.RegistroAsistencia, error)
}
