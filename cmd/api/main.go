package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/bootstrap"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Manufactura-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// @title                       Manufactura QA API
// @version                     1.0
// @description                 Disposición parcial de calidad y redistribución de inventario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()

	hub := notify.NewHub(log)
	go hub.Run(ctx)

	notifier, closeNotifier, err := bootstrap.Notifier(ctx, cfg.Redis, hub, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer closeNotifier()

	m := metrics.New(true)

	dispositionUC := qa.NewDispositionUseCase(store.TxRunner, store.Repos, notifier, m, log, qa.Config{
		FinishedGoodsLocation: cfg.QA.FinishedGoodsLocation,
		ReworkLocation:        cfg.QA.ReworkLocation,
		NotifyTimeout:         cfg.Redis.NotifyTimeout,
	})
	lotUC := inventory.NewLotUseCase(store.Repos.Lots)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		DispositionUC: dispositionUC,
		LotUC:         lotUC,
		Slips:         infrapdf.NewSlipGenerator(),
		Hub:           hub,
		Metrics:       m,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
		SwaggerFile:   "./docs/swagger.json",
	})
	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API no exige autenticación")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
