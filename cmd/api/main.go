package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	infrapdf "github.com/jhoicas/Cierres-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cierres-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cierres-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Cierres-api/internal/interfaces/http"
	"github.com/jhoicas/Cierres-api/pkg/config"
	"github.com/jhoicas/Cierres-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	cierreRepo := postgres.NewCierreRepository(pool)
	asientoRepo := postgres.NewAsientoRepository(pool)
	movimientoRepo := postgres.NewMovimientoStockRepository(pool)
	ingredienteRepo := postgres.NewIngredienteRepository(pool)
	turnoRepo := postgres.NewTurnoRepository(pool)
	ordenSource := postgres.NewOrdenSource(pool)
	sesionSource := postgres.NewSesionCajaSource(pool)
	asistenciaSource := postgres.NewAsistenciaSource(pool)

	cascada := appcierre.NewCascadaAsientos(movimientoRepo, asientoRepo, cfg.Cierres.CategoriaMermaDefecto)
	cerrarStockUC := appcierre.NewCerrarStockUseCase(cierreRepo, movimientoRepo, ingredienteRepo, cascada, log)
	cerrarTurnoUC := appcierre.NewCerrarTurnoUseCase(cierreRepo, ordenSource, sesionSource, asistenciaSource, turnoRepo, log)

	actaGenerator := infrapdf.NewActaCierreGenerator()

	// Scheduler embebido: cada tick cierra los turnos vencidos. El endpoint
	// /api/jobs/cierre-turnos permite dispararlo también desde un cron externo.
	turnosScheduler := scheduler.NewCierreTurnos(
		cerrarTurnoUC,
		time.Duration(cfg.Cierres.IntervaloChequeoSeg)*time.Second,
		log,
	)
	turnosScheduler.Start(ctx)
	defer turnosScheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cierres API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CerrarStockUC: cerrarStockUC,
		CerrarTurnoUC: cerrarTurnoUC,
		CierreRepo:    cierreRepo,
		ActaGenerator: actaGenerator,
		JWTSecret:     cfg.JWT.Secret,
		JobToken:      cfg.Cierres.JobToken,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
