package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
)

// PipelineHandler maneja las operaciones del motor de etapas.
type PipelineHandler struct {
	uc *pipeline.PipelineUseCase
}

// NewPipelineHandler construye el handler.
func NewPipelineHandler(uc *pipeline.PipelineUseCase) *PipelineHandler {
	return &PipelineHandler{uc: uc}
}

// EligibleBlocks godoc
// @Summary      Bloques elegibles para una etapa
// @Tags         pipeline
// @Produce      json
// @Param        stage  path      string  true  "cutting, grinding, chemical_conversion, epoxy, polishing"
// @Success      200    {array}   dto.BlockResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/pipeline/{stage}/eligible-blocks [get]
func (h *PipelineHandler) EligibleBlocks(c *fiber.Ctx) error {
	out, err := h.uc.GetEligibleBlocks(c.Context(), c.Params("stage"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar trabajo de etapa
// @Description  Crea el trabajo en curso. 422 si la etapa previa no está completada u omitida;
//
//	409 si ya hay un trabajo abierto para el bloque en la etapa.
//
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StartJobRequest  true  "block_id, stage, machine_id, start_time"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *PipelineHandler) Start(c *fiber.Ctx) error {
	var in dto.StartJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.StartJob(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Plan godoc
// @Summary      Planificar trabajo (pendiente)
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PlanJobRequest  true  "block_id, stage"
// @Success      201   {object}  dto.JobResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/jobs/plan [post]
func (h *PipelineHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PlanJob(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SkipStage godoc
// @Summary      Omitir etapa
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SkipStageRequest  true  "block_id, stage, comment (obligatorio)"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/jobs/skip-stage [post]
func (h *PipelineHandler) SkipStage(c *fiber.Ctx) error {
	var in dto.SkipStageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SkipStage(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetJob godoc
// @Summary      Obtener trabajo
// @Tags         pipeline
// @Produce      json
// @Param        id   path      string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *PipelineHandler) GetJob(c *fiber.Ctx) error {
	out, err := h.uc.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Begin godoc
// @Summary      Iniciar trabajo pendiente
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID del trabajo"
// @Param        body  body      dto.BeginJobRequest  true  "machine_id, start_time"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/begin [post]
func (h *PipelineHandler) Begin(c *fiber.Ctx) error {
	var in dto.BeginJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BeginJob(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar trabajo
// @Description  end_time es obligatorio y >= start_time. Las mediciones dependen de la etapa del trabajo;
//
//	campos de otra etapa se rechazan.
//
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID del trabajo"
// @Param        body  body      dto.CompleteJobRequest  true  "end_time, measurements, stoppage"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/complete [post]
func (h *PipelineHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CompleteJobFromRequest(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Skip godoc
// @Summary      Omitir trabajo pendiente
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID del trabajo"
// @Param        body  body      dto.SkipJobRequest  true  "comment (obligatorio)"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/skip [post]
func (h *PipelineHandler) Skip(c *fiber.Ctx) error {
	var in dto.SkipJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SkipJob(c.Context(), c.Params("id"), in.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Fail godoc
// @Summary      Marcar trabajo fallido
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID del trabajo"
// @Param        body  body      dto.FailJobRequest  true  "reason, end_time opcional"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/fail [post]
func (h *PipelineHandler) Fail(c *fiber.Ctx) error {
	var in dto.FailJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.FailJob(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar trabajo
// @Tags         pipeline
// @Accept       json
// @Produce      json
// @Param        id    path      string                true   "ID del trabajo"
// @Param        body  body      dto.CancelJobRequest  false  "reason"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/cancel [post]
func (h *PipelineHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelJobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.CancelJob(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pause godoc
// @Summary      Pausar trabajo en curso
// @Tags         pipeline
// @Produce      json
// @Param        id   path      string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/pause [post]
func (h *PipelineHandler) Pause(c *fiber.Ctx) error {
	out, err := h.uc.PauseJob(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resume godoc
// @Summary      Reanudar trabajo pausado
// @Tags         pipeline
// @Produce      json
// @Param        id   path      string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/resume [post]
func (h *PipelineHandler) Resume(c *fiber.Ctx) error {
	out, err := h.uc.ResumeJob(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
