package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.FuenteAsistencia = (*AsistenciaSource)(nil)

// AsistenciaSource adaptador de solo lectura sobre las marcaciones de asistencia.
type AsistenciaSource struct {
	q Querier
}

// NewAsistenciaSource construye el adaptador.
func NewAsistenciaSource(q Querier) *AsistenciaSource {
	return &AsistenciaSource{q: q}
}

// Listar marcaciones en [desde, hasta) ordenadas por fecha ascendente
// (la regla de emparejamiento del agregador depende de este orden).
func (s *AsistenciaSource) Listar(sucursalID string, desde, hasta time.Time) ([]*entity.RegistroAsistencia, error) {
	query := `
		SELECT id, sucursal_id, empleado_id, tipo, fecha
		FROM registros_asistencia
		WHERE sucursal_id = $1 AND fecha >= $2 AND fecha < $3
		ORDER BY fecha`
	rows, err := s.q.Query(context.Background(), query, sucursalID, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("listar asistencia: %w", err)
	}
	defer rows.Close()
	var list []*entity.RegistroAsistencia
	for rows.Next() {
		var r entity.RegistroAsistencia
		if err := rows.Scan(&r.ID, &r.SucursalID, &r.EmpleadoID, &r.Tipo, &r.Fecha); err != nil {
			return nil, fmt.Errorf("scan marcación: %w", err)
		}
		list = append(list, &r)
	}
	return list, rows.Err()
}
