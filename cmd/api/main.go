package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"golang.org/x/text/language"

	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/application/usecase"
	"github.com/jhoicas/granite-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/granite-api/internal/infrastructure/pdf"
	"github.com/jhoicas/granite-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/granite-api/internal/interfaces/http"
	"github.com/jhoicas/granite-api/pkg/config"
	"github.com/jhoicas/granite-api/pkg/logger"
)

func main() {
	inMemory := flag.Bool("memory", false, "usar almacén en memoria (sin PostgreSQL); los stands se aprovisionan al arrancar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("memory", *inMemory).
		Msg("iniciando aplicación")

	lang, err := language.Parse(cfg.Report.Language)
	if err != nil {
		log.Warn().Str("language", cfg.Report.Language).Msg("idioma de reporte inválido, se usa español")
		lang = language.Spanish
	}
	report := infrapdf.NewMarotoStandReport(cfg.Report.Company, lang)

	ctx := context.Background()
	var deps httpRouter.RouterDeps
	if *inMemory {
		store := memory.NewStore()
		deps = httpRouter.RouterDeps{
			BlockUC:    usecase.NewBlockUseCase(store.Blocks(), log),
			PipelineUC: pipeline.NewPipelineUseCase(store, store.Blocks(), store.Jobs(), log),
			InventoryUC: inventory.NewInventoryUseCase(store, store.Blocks(), store.Stands(),
				store.FinishedGoods(), store.Shipments(), report, log),
		}
		if _, err := deps.InventoryUC.ProvisionStands(ctx, cfg.Stands.Rows, cfg.Stands.Positions, cfg.Stands.DefaultCapacity); err != nil {
			log.Fatal().Err(err).Msg("aprovisionar stands en memoria")
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		blockRepo := postgres.NewBlockRepository(pool)
		jobRepo := postgres.NewJobRepository(pool)
		standRepo := postgres.NewStandRepository(pool)
		fgRepo := postgres.NewFinishedGoodRepository(pool)
		shipmentRepo := postgres.NewShipmentRepository(pool)
		txRunner := postgres.NewTxRunner(pool)

		deps = httpRouter.RouterDeps{
			BlockUC:     usecase.NewBlockUseCase(blockRepo, log),
			PipelineUC:  pipeline.NewPipelineUseCase(txRunner, blockRepo, jobRepo, log),
			InventoryUC: inventory.NewInventoryUseCase(txRunner, blockRepo, standRepo, fgRepo, shipmentRepo, report, log),
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Granite API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, deps)

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
