package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.FuenteSesionesCaja = (*SesionCajaSource)(nil)

// SesionCajaSource adaptador de solo lectura sobre las sesiones de caja del POS.
type SesionCajaSource struct {
	q Querier
}

// NewSesionCajaSource construye el adaptador.
func NewSesionCajaSource(q Querier) *SesionCajaSource {
	return &SesionCajaSource{q: q}
}

// ListarCerradas sesiones cuyo cierre (cerrada_en) cae en [desde, hasta).
// La sesión se asigna al periodo en que se cerró: una caja abierta minutos
// antes del turno cuenta igual, y cada sesión cae en exactamente un periodo.
func (s *SesionCajaSource) ListarCerradas(sucursalID string, desde, hasta time.Time) ([]*entity.SesionCaja, error) {
	query := `
		SELECT id, sucursal_id, caja_id, usuario_id, monto_inicial, monto_declarado, estado, abierta_en, cerrada_en
		FROM sesiones_caja
		WHERE sucursal_id = $1 AND cerrada_en >= $2 AND cerrada_en < $3 AND estado = $4
		ORDER BY cerrada_en`
	rows, err := s.q.Query(context.Background(), query, sucursalID, desde, hasta, entity.SesionCerrada)
	if err != nil {
		return nil, fmt.Errorf("listar sesiones de caja: %w", err)
	}
	defer rows.Close()
	var list []*entity.SesionCaja
	for rows.Next() {
		var sc entity.SesionCaja
		var declarado *decimal.Decimal
		var cerradaEn *time.Time
		if err := rows.Scan(&sc.ID, &sc.SucursalID, &sc.CajaID, &sc.UsuarioID,
			&sc.MontoInicial, &declarado, &sc.Estado, &sc.AbiertaEn, &cerradaEn); err != nil {
			return nil, fmt.Errorf("scan sesión de caja: %w", err)
		}
		sc.MontoDeclarado = declarado
		sc.CerradaEn = cerradaEn
		list = append(list, &sc)
	}
	return list, rows.Err()
}
