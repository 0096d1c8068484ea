package http

import (
	"github.com/gofiber/fiber/v2"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/internal/domain/repository"
	"github.com/jhoicas/Cierres-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CerrarStockUC *appcierre.CerrarStockUseCase
	CerrarTurnoUC *appcierre.CerrarTurnoUseCase
	CierreRepo    repository.CierreRepository
	ActaGenerator *pdf.ActaCierreGenerator
	JWTSecret     string
	JobToken      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	handler := NewCierreHandler(deps.CerrarStockUC, deps.CerrarTurnoUC, deps.CierreRepo, deps.ActaGenerator)

	// Cierres (protegido, requiere Bearer Token)
	cierres := api.Group("/cierres", AuthMiddleware(deps.JWTSecret))
	cierres.Post("/stock", handler.CerrarStock)
	cierres.Post("/turno", handler.CerrarTurno)
	cierres.Get("/", handler.Listar)
	cierres.Get("/:id/pdf", handler.ActaPDF)

	// Jobs (protegido con token compartido: lo invoca un cron externo,
	// además del scheduler embebido)
	jobs := api.Group("/jobs", JobMiddleware(deps.JobToken))
	jobs.Post("/cierre-turnos", handler.JobCierreTurnos)
}
