package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/inventory"
)

// InventoryHandler maneja stands, productos terminados y despachos.
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ListStands godoc
// @Summary      Ocupación por stand
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.StandOccupancyResponse
// @Router       /api/stands [get]
func (h *InventoryHandler) ListStands(c *fiber.Ctx) error {
	out, err := h.uc.ListStands(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de ocupación
// @Description  Capacidad total, losas usadas, cobertura, área y distribución por calidad y por banda.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.StandSummaryResponse
// @Router       /api/stands/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetStandSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de stands
// @Tags         inventory
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stands/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.StandReport(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stands.pdf"`)
	return c.Send(pdf)
}

// GetStand godoc
// @Summary      Detalle de stand con su stock
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "ID del stand"
// @Success      200  {object}  dto.StandDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stands/{id} [get]
func (h *InventoryHandler) GetStand(c *fiber.Ctx) error {
	out, err := h.uc.GetStand(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StandStock godoc
// @Summary      Productos terminados de un stand
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "ID del stand"
// @Success      200  {array}   dto.FinishedGoodResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stands/{id}/stock [get]
func (h *InventoryHandler) StandStock(c *fiber.Ctx) error {
	out, err := h.uc.ListStandStock(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddStock godoc
// @Summary      Ingresar losas a un stand
// @Description  409 CAPACITY_EXCEEDED si las losas no caben; details lleva actual, solicitado y disponible.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddStockRequest  true  "stand_id, block_id, slab_count, quality"
// @Success      201   {object}  dto.StockResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/finished-goods [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddStock(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Shipments godoc
// @Summary      Despachos de un producto terminado
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "ID del producto terminado"
// @Success      200  {array}   dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finished-goods/{id}/shipments [get]
func (h *InventoryHandler) Shipments(c *fiber.Ctx) error {
	out, err := h.uc.ListShipments(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Ship godoc
// @Summary      Despachar losas
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ShipRequest  true  "finished_good_id, slabs_shipped, shipping_company"
// @Success      201   {object}  dto.ShipmentResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *InventoryHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ShipGoods(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditShipment godoc
// @Summary      Corregir despacho
// @Description  Restaura las losas del despacho anterior y aplica el nuevo valor sobre el producto terminado.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID del despacho"
// @Param        body  body      dto.EditShipmentRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ShipmentResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [put]
func (h *InventoryHandler) EditShipment(c *fiber.Ctx) error {
	var in dto.EditShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.EditShipment(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
