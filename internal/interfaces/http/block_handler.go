package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/application/usecase"
)

// BlockHandler maneja el registro de bloques y sus consultas de producción.
type BlockHandler struct {
	uc       *usecase.BlockUseCase
	pipeline *pipeline.PipelineUseCase
}

// NewBlockHandler construye el handler.
func NewBlockHandler(uc *usecase.BlockUseCase, pipelineUC *pipeline.PipelineUseCase) *BlockHandler {
	return &BlockHandler{uc: uc, pipeline: pipelineUC}
}

// Create godoc
// @Summary      Registrar bloque recibido
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateBlockRequest  true  "Dimensiones en pulgadas"
// @Success      201   {object}  dto.BlockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/blocks [post]
func (h *BlockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBlockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar bloques
// @Tags         blocks
// @Produce      json
// @Param        status  query     string  false  "received, in_production, finished, archived"
// @Param        type    query     string  false  "Tipo de piedra"
// @Param        limit   query     int     false  "Máximo 100"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.BlockListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/blocks [get]
func (h *BlockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), c.Query("status"), c.Query("type"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener bloque
// @Tags         blocks
// @Produce      json
// @Param        id   path      string  true  "ID del bloque"
// @Success      200  {object}  dto.BlockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blocks/{id} [get]
func (h *BlockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del bloque
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID del bloque"
// @Param        body  body      dto.UpdateBlockStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.BlockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/blocks/{id}/status [patch]
func (h *BlockHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateBlockStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Jobs godoc
// @Summary      Historial de trabajos del bloque
// @Tags         blocks
// @Produce      json
// @Param        id   path      string  true  "ID del bloque"
// @Success      200  {array}   dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/blocks/{id}/jobs [get]
func (h *BlockHandler) Jobs(c *fiber.Ctx) error {
	out, err := h.pipeline.ListBlockJobs(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Eligibility godoc
// @Summary      Diagnóstico de elegibilidad para una etapa
// @Tags         blocks
// @Produce      json
// @Param        id     path      string  true  "ID del bloque"
// @Param        stage  query     string  true  "cutting, grinding, chemical_conversion, epoxy, polishing"
// @Success      200    {object}  dto.EligibilityResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/blocks/{id}/eligibility [get]
func (h *BlockHandler) Eligibility(c *fiber.Ctx) error {
	out, err := h.pipeline.CheckEligibility(c.Context(), c.Params("id"), c.Query("stage"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
