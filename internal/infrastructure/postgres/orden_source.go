package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

var _ repository.FuenteOrdenes = (*OrdenSource)(nil)

// OrdenSource adaptador de solo lectura sobre el log de órdenes del POS.
type OrdenSource struct {
	q Querier
}

// NewOrdenSource construye el adaptador.
func NewOrdenSource(q Querier) *OrdenSource {
	return &OrdenSource{q: q}
}

// Listar órdenes de la ventana [desde, hasta) cuyos estados estén en la lista
// blanca, con sus items, en orden de fecha ascendente.
func (s *OrdenSource) Listar(sucursalID string, desde, hasta time.Time, estados []string) ([]*entity.Orden, error) {
	query := `
		SELECT id, sucursal_id, canal, metodo_pago, estado, total, fecha
		FROM ordenes
		WHERE sucursal_id = $1 AND fecha >= $2 AND fecha < $3 AND estado = ANY($4)
		ORDER BY fecha`
	rows, err := s.q.Query(context.Background(), query, sucursalID, desde, hasta, estados)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Orden
	indice := map[string]*entity.Orden{}
	for rows.Next() {
		var o entity.Orden
		var canal, metodo *string
		if err := rows.Scan(&o.ID, &o.SucursalID, &canal, &metodo, &o.Estado, &o.Total, &o.Fecha); err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		// Canal o método NULL quedan vacíos: el agregador los agrupa como "desconocido".
		if canal != nil {
			o.Canal = *canal
		}
		if metodo != nil {
			o.MetodoPago = *metodo
		}
		list = append(list, &o)
		indice[o.ID] = list[len(list)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	itemsQuery := `
		SELECT id, orden_id, producto, cantidad, subtotal
		FROM orden_items
		WHERE orden_id = ANY($1)
		ORDER BY orden_id, id`
	itemRows, err := s.q.Query(context.Background(), itemsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("listar items de órdenes: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.OrdenItem
		var producto *string
		if err := itemRows.Scan(&it.ID, &it.OrdenID, &producto, &it.Cantidad, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan item de orden: %w", err)
		}
		if producto != nil {
			it.Producto = *producto
		}
		if o, ok := indice[it.OrdenID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return list, itemRows.Err()
}
