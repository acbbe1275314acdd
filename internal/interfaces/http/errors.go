package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP con el contexto necesario para el mensaje al usuario.
func writeError(c *fiber.Ctx, err error) error {
	var (
		notFound   *domain.NotFoundError
		invalid    *domain.ValidationError
		elig       *domain.EligibilityError
		conflict   *domain.ConflictError
		capacity   *domain.CapacityExceededError
		stock      *domain.InsufficientStockError
		resp       dto.ErrorResponse
		statusCode int
	)
	switch {
	case errors.As(err, &invalid):
		statusCode = fiber.StatusBadRequest
		resp = dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
		if invalid.Field != "" {
			resp.Details = map[string]any{"field": invalid.Field}
		}
	case errors.As(err, &notFound):
		statusCode = fiber.StatusNotFound
		resp = dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error(),
			Details: map[string]any{"resource": notFound.Resource, "id": notFound.ID}}
	case errors.As(err, &elig):
		statusCode = fiber.StatusUnprocessableEntity
		resp = dto.ErrorResponse{Code: "NOT_ELIGIBLE", Message: err.Error(),
			Details: map[string]any{"block_id": elig.BlockID, "stage": elig.Stage, "required": elig.Required}}
	case errors.As(err, &conflict):
		statusCode = fiber.StatusConflict
		resp = dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
		if conflict.BlockID != "" {
			resp.Details = map[string]any{"block_id": conflict.BlockID, "stage": conflict.Stage}
			if conflict.JobID != "" {
				resp.Details["open_job_id"] = conflict.JobID
			}
		}
	case errors.As(err, &capacity):
		statusCode = fiber.StatusConflict
		resp = dto.ErrorResponse{Code: "CAPACITY_EXCEEDED", Message: err.Error(), Details: map[string]any{
			"stand_id":  capacity.StandID,
			"current":   capacity.Current,
			"requested": capacity.Requested,
			"capacity":  capacity.Capacity,
			"available": capacity.Available(),
		}}
	case errors.As(err, &stock):
		statusCode = fiber.StatusConflict
		resp = dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Details: map[string]any{
			"finished_good_id": stock.FinishedGoodID,
			"available":        stock.Available,
			"requested":        stock.Requested,
		}}
	default:
		statusCode = fiber.StatusInternalServerError
		resp = dto.ErrorResponse{Code: "INTERNAL", Message: "error interno de almacenamiento"}
	}
	return c.Status(statusCode).JSON(resp)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
