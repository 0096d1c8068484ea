package cierre_test

import (
	"time"

	"github.com/jhoicas/Cierres-api/internal/domain/entity"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
)

// Fakes en memoria de los puertos del motor de cierres. Reproducen el
// contrato que garantiza la base: unicidad de (sucursal, sub-entidad,
// periodo) en el repo de cierres, ventanas semiabiertas en las fuentes.

var (
	_ repository.CierreRepository          = (*fakeCierreRepo)(nil)
	_ repository.AsientoRepository         = (*fakeAsientoRepo)(nil)
	_ repository.MovimientoStockRepository = (*fakeMovimientoRepo)(nil)
	_ repository.IngredienteRepository     = (*fakeIngredienteRepo)(nil)
	_ repository.TurnoRepository           = (*fakeTurnoRepo)(nil)
	_ repository.FuenteOrdenes             = (*fakeFuenteOrdenes)(nil)
	_ repository.FuenteSesionesCaja        = (*fakeFuenteSesiones)(nil)
	_ repository.FuenteAsistencia          = (*fakeFuenteAsistencia)(nil)
)

// ── Cierres ───────────────────────────────────────────────────────────────────

type claveCierre struct {
	sucursal   string
	subEntidad string
	periodo    string
}

type fakeCierreRepo struct {
	porClave map[claveCierre]*entity.Cierre
	err      error
}

func newFakeCierreRepo() *fakeCierreRepo {
	return &fakeCierreRepo{porClave: map[claveCierre]*entity.Cierre{}}
}

func (f *fakeCierreRepo) CrearSiNoExiste(c *entity.Cierre) (*entity.Cierre, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	clave := claveCierre{c.SucursalID, c.SubEntidadID, c.PeriodoKey}
	if existente, ok := f.porClave[clave]; ok {
		return existente, false, nil
	}
	f.porClave[clave] = c
	return c, true, nil
}

func (f *fakeCierreRepo) Buscar(sucursalID, subEntidadID, periodoKey string) (*entity.Cierre, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.porClave[claveCierre{sucursalID, subEntidadID, periodoKey}], nil
}

func (f *fakeCierreRepo) GetByID(id string) (*entity.Cierre, error) {
	for _, c := range f.porClave {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCierreRepo) Listar(sucursalID, periodoKey string, limit, offset int) ([]*entity.Cierre, error) {
	var out []*entity.Cierre
	for _, c := range f.porClave {
		if c.SucursalID == sucursalID && (periodoKey == "" || c.PeriodoKey == periodoKey) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── Asientos ──────────────────────────────────────────────────────────────────

type fakeAsientoRepo struct {
	asientos []*entity.Asiento
	err      error
}

func (f *fakeAsientoRepo) Crear(a *entity.Asiento) error {
	if f.err != nil {
		return f.err
	}
	f.asientos = append(f.asientos, a)
	return nil
}

func (f *fakeAsientoRepo) ListarPorCierre(cierreID string) ([]*entity.Asiento, error) {
	var out []*entity.Asiento
	for _, a := range f.asientos {
		if a.CierreOrigenID == cierreID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── Movimientos de stock ──────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	movimientos []*entity.MovimientoStock
	errListar   error
	errCrear    error
}

func (f *fakeMovimientoRepo) Crear(m *entity.MovimientoStock) error {
	if f.errCrear != nil {
		return f.errCrear
	}
	f.movimientos = append(f.movimientos, m)
	return nil
}

func (f *fakeMovimientoRepo) ListarPorIngrediente(sucursalID, ingredienteID string, desde, hasta time.Time) ([]*entity.MovimientoStock, error) {
	if f.errListar != nil {
		return nil, f.errListar
	}
	var out []*entity.MovimientoStock
	for _, m := range f.movimientos {
		if m.SucursalID != sucursalID || m.IngredienteID != ingredienteID {
			continue
		}
		if m.Fecha.Before(desde) || !m.Fecha.Before(hasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ── Configuración ─────────────────────────────────────────────────────────────

type fakeIngredienteRepo struct {
	porID map[string]*entity.Ingrediente
	err   error
}

func (f *fakeIngredienteRepo) GetByID(id string) (*entity.Ingrediente, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.porID[id], nil
}

func (f *fakeIngredienteRepo) PorSucursal(sucursalID string) ([]*entity.Ingrediente, error) {
	var out []*entity.Ingrediente
	for _, ing := range f.porID {
		if ing.SucursalID == sucursalID {
			out = append(out, ing)
		}
	}
	return out, nil
}

type fakeTurnoRepo struct {
	porSucursal map[string][]entity.DefinicionTurno
}

func (f *fakeTurnoRepo) PorSucursal(sucursalID string) ([]entity.DefinicionTurno, error) {
	return f.porSucursal[sucursalID], nil
}

func (f *fakeTurnoRepo) SucursalesConTurnos() ([]string, error) {
	var ids []string
	for id, defs := range f.porSucursal {
		for _, d := range defs {
			if d.Activo {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

// ── Fuentes de eventos ────────────────────────────────────────────────────────

type fakeFuenteOrdenes struct {
	ordenes        []*entity.Orden
	errPorSucursal map[string]error
}

func (f *fakeFuenteOrdenes) Listar(sucursalID string, desde, hasta time.Time, estados []string) ([]*entity.Orden, error) {
	if err := f.errPorSucursal[sucursalID]; err != nil {
		return nil, err
	}
	permitidos := map[string]bool{}
	for _, e := range estados {
		permitidos[e] = true
	}
	var out []*entity.Orden
	for _, o := range f.ordenes {
		if o.SucursalID != sucursalID || !permitidos[o.Estado] {
			continue
		}
		if o.Fecha.Before(desde) || !o.Fecha.Before(hasta) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type fakeFuenteSesiones struct {
	sesiones []*entity.SesionCaja
	err      error
}

func (f *fakeFuenteSesiones) ListarCerradas(sucursalID string, desde, hasta time.Time) ([]*entity.SesionCaja, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.SesionCaja
	for _, s := range f.sesiones {
		if s.SucursalID != sucursalID || s.Estado != entity.SesionCerrada || s.CerradaEn == nil {
			continue
		}
		// Mismo criterio que el adaptador real: el cierre de la sesión
		// dentro de la ventana semiabierta.
		if s.CerradaEn.Before(desde) || !s.CerradaEn.Before(hasta) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeFuenteAsistencia struct {
	registros []*entity.RegistroAsistencia
	err       error
}

func (f *fakeFuenteAsistencia) Listar(sucursalID string, desde, hasta time.Time) ([]*entity.RegistroAsistencia, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.RegistroAsistencia
	for _, r := range f.registros {
		if r.SucursalID != sucursalID {
			continue
		}
		if r.Fecha.Before(desde) || !r.Fecha.Before(hasta) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
