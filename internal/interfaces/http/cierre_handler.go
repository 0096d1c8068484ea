package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/internal/application/dto"
	"github.com/jhoicas/Cierres-api/internal/domain"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
	"github.com/jhoicas/Cierres-api/internal/infrastructure/pdf"
)

// CierreHandler maneja las peticiones HTTP del motor de cierres (protegido).
type CierreHandler struct {
	stockUC *appcierre.CerrarStockUseCase
	turnoUC *appcierre.CerrarTurnoUseCase
	cierres repository.CierreRepository
	actas   *pdf.ActaCierreGenerator
}

// NewCierreHandler construye el handler.
func NewCierreHandler(
	stockUC *appcierre.CerrarStockUseCase,
	turnoUC *appcierre.CerrarTurnoUseCase,
	cierres repository.CierreRepository,
	actas *pdf.ActaCierreGenerator,
) *CierreHandler {
	return &CierreHandler{stockUC: stockUC, turnoUC: turnoUC, cierres: cierres, actas: actas}
}

// CerrarStock godoc
// @Summary      Cierre mensual de stock con conteo físico
// @Tags         cierres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CerrarStockRequest  true  "periodo_key (YYYY-MM) y conteos por ingrediente"
// @Success      201   {array}   dto.CierreResponse
// @Success      200   {array}   dto.CierreResponse  "todos los cierres ya existían (ya_cerrado)"
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/cierres/stock [post]
func (h *CierreHandler) CerrarStock(c *fiber.Ctx) error {
	sucursalID := GetSucursalID(c)
	userID := GetUserID(c)
	if sucursalID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CerrarStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	conteos := make([]appcierre.ConteoFisico, 0, len(in.Conteos))
	for _, cf := range in.Conteos {
		conteos = append(conteos, appcierre.ConteoFisico{
			IngredienteID: cf.IngredienteID,
			CantidadReal:  cf.CantidadReal,
		})
	}
	resultados, err := h.stockUC.CerrarStock(c.Context(), appcierre.CierreStockInput{
		SucursalID: sucursalID,
		PeriodoKey: in.PeriodoKey,
		UserID:     userID,
		Conteos:    conteos,
	})
	if err != nil {
		return errorCierre(c, err)
	}

	respuestas := make([]dto.CierreResponse, 0, len(resultados))
	creadoAlguno := false
	for _, r := range resultados {
		if !r.YaCerrado {
			creadoAlguno = true
		}
		respuestas = append(respuestas, aCierreResponse(r))
	}
	status := fiber.StatusOK
	if creadoAlguno {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(respuestas)
}

// CerrarTurno godoc
// @Summary      Cierre manual de un turno
// @Tags         cierres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CerrarTurnoRequest  true  "periodo_key (YYYY-MM-DD|turno)"
// @Success      201   {object}  dto.CierreResponse
// @Success      200   {object}  dto.CierreResponse  "el turno ya estaba cerrado (ya_cerrado)"
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/cierres/turno [post]
func (h *CierreHandler) CerrarTurno(c *fiber.Ctx) error {
	sucursalID := GetSucursalID(c)
	userID := GetUserID(c)
	if sucursalID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CerrarTurnoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.turnoUC.CerrarTurno(c.Context(), appcierre.CierreTurnoInput{
		SucursalID: sucursalID,
		PeriodoKey: in.PeriodoKey,
		UserID:     userID,
	})
	if err != nil {
		return errorCierre(c, err)
	}
	status := fiber.StatusCreated
	if res.YaCerrado {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(aCierreResponse(*res))
}

// Listar godoc
// @Summary      Listar cierres de la sucursal
// @Tags         cierres
// @Security     Bearer
// @Produce      json
// @Param        periodo_key  query  string  false  "Filtrar por periodo"
// @Param        limit        query  int     false  "Máximo de resultados (def. 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.CierreResponse
// @Router       /api/cierres [get]
func (h *CierreHandler) Listar(c *fiber.Ctx) error {
	sucursalID := GetSucursalID(c)
	if sucursalID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()

	cierres, err := h.cierres.Listar(sucursalID, c.Query("periodo_key"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	respuestas := make([]dto.CierreResponse, 0, len(cierres))
	for _, cr := range cierres {
		respuestas = append(respuestas, aCierreResponse(appcierre.ResultadoCierre{Cierre: cr}))
	}
	return c.JSON(fiber.Map{"total": len(respuestas), "cierres": respuestas})
}

// ActaPDF godoc
// @Summary      Acta de cierre en PDF
// @Tags         cierres
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del cierre"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cierres/{id}/pdf [get]
func (h *CierreHandler) ActaPDF(c *fiber.Ctx) error {
	sucursalID := GetSucursalID(c)
	if sucursalID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cierre, err := h.cierres.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if cierre == nil || cierre.SucursalID != sucursalID {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cierre no encontrado"})
	}
	bytes, err := h.actas.Generar(cierre)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(bytes)
}

// JobCierreTurnos godoc
// @Summary      Job: cerrar los turnos vencidos de todas las sucursales
// @Description  Idempotente: los turnos ya cerrados cuentan como ya_cerrados.
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  dto.ResumenLoteResponse
// @Router       /api/jobs/cierre-turnos [post]
func (h *CierreHandler) JobCierreTurnos(c *fiber.Ctx) error {
	// Único punto HTTP que lee el reloj: es el trigger de nivel superior.
	resumen := h.turnoUC.CerrarTurnosVencidos(c.Context(), time.Now())
	return c.JSON(dto.ResumenLoteResponse{
		Cerrados:   resumen.Cerrados,
		YaCerrados: resumen.YaCerrados,
		Fallidos:   resumen.Fallidos,
	})
}

// errorCierre mapea errores de dominio a códigos HTTP.
func errorCierre(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConfigPeriodoInvalida):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_PERIOD_CONFIG", Message: err.Error()})
	case errors.Is(err, domain.ErrFuenteNoDisponible):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SOURCE_UNAVAILABLE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// aCierreResponse convierte un resultado de cierre a su representación HTTP,
// con los desgloses ya ordenados (descendente por monto).
func aCierreResponse(r appcierre.ResultadoCierre) dto.CierreResponse {
	cr := r.Cierre
	desgloses := make(map[string][]dto.BucketDTO, len(cr.Desgloses))
	for dimension, d := range cr.Desgloses {
		buckets := appcierre.OrdenarDesglose(d)
		lista := make([]dto.BucketDTO, 0, len(buckets))
		for _, b := range buckets {
			lista = append(lista, dto.BucketDTO{Clave: b.Clave, Monto: b.Monto})
		}
		desgloses[dimension] = lista
	}
	resp := dto.CierreResponse{
		ID:            cr.ID,
		SucursalID:    cr.SucursalID,
		SubEntidadID:  cr.SubEntidadID,
		PeriodoKey:    cr.PeriodoKey,
		Tipo:          cr.Tipo,
		SaldoApertura: cr.SaldoApertura,
		Entradas:      cr.Entradas,
		Salidas:       cr.Salidas,
		Esperado:      cr.Esperado,
		Real:          cr.Real,
		Descuadre:     cr.Descuadre,
		Desgloses:     desgloses,
		YaCerrado:     r.YaCerrado,
		CreatedAt:     cr.CreatedAt.Format(timeFormatoISO),
	}
	if r.ErrAsiento != nil {
		resp.ErrorAsiento = r.ErrAsiento.Error()
	}
	return resp
}

const timeFormatoISO = "2006-01-02T15:04:05Z07:00"
