package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/application/usecase"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BlockUC     *usecase.BlockUseCase
	PipelineUC  *pipeline.PipelineUseCase
	InventoryUC *inventory.InventoryUseCase
}

// NewApp crea la aplicación Fiber con recover, log de peticiones y /health.
// Los errores no tratados por los handlers se responden con el cuerpo de error estándar.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			resp := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
			if code < fiber.StatusInternalServerError {
				resp = dto.ErrorResponse{Code: "HTTP_" + fiberStatusCode(code), Message: err.Error()}
			}
			return c.Status(code).JSON(resp)
		},
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}

func fiberStatusCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "ERROR"
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Bloques
	blocks := api.Group("/blocks")
	blockHandler := NewBlockHandler(deps.BlockUC, deps.PipelineUC)
	blocks.Post("/", blockHandler.Create)
	blocks.Get("/", blockHandler.List)
	blocks.Get("/:id", blockHandler.GetByID)
	blocks.Patch("/:id/status", blockHandler.UpdateStatus)
	blocks.Get("/:id/jobs", blockHandler.Jobs)
	blocks.Get("/:id/eligibility", blockHandler.Eligibility)

	// Motor de etapas
	pipelineHandler := NewPipelineHandler(deps.PipelineUC)
	api.Get("/pipeline/:stage/eligible-blocks", pipelineHandler.EligibleBlocks)

	jobs := api.Group("/jobs")
	jobs.Post("/", pipelineHandler.Start)
	jobs.Post("/plan", pipelineHandler.Plan)
	jobs.Post("/skip-stage", pipelineHandler.SkipStage)
	jobs.Get("/:id", pipelineHandler.GetJob)
	jobs.Post("/:id/begin", pipelineHandler.Begin)
	jobs.Post("/:id/complete", pipelineHandler.Complete)
	jobs.Post("/:id/skip", pipelineHandler.Skip)
	jobs.Post("/:id/fail", pipelineHandler.Fail)
	jobs.Post("/:id/cancel", pipelineHandler.Cancel)
	jobs.Post("/:id/pause", pipelineHandler.Pause)
	jobs.Post("/:id/resume", pipelineHandler.Resume)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	stands := api.Group("/stands")
	stands.Get("/", inventoryHandler.ListStands)
	stands.Get("/summary", inventoryHandler.Summary)
	stands.Get("/report.pdf", inventoryHandler.Report)
	stands.Get("/:id", inventoryHandler.GetStand)
	stands.Get("/:id/stock", inventoryHandler.StandStock)

	goods := api.Group("/finished-goods")
	goods.Post("/", inventoryHandler.AddStock)
	goods.Get("/:id/shipments", inventoryHandler.Shipments)

	shipments := api.Group("/shipments")
	shipments.Post("/", inventoryHandler.Ship)
	shipments.Put("/:id", inventoryHandler.EditShipment)
}
