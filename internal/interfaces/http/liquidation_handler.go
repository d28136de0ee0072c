package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// LiquidationHandler liquidaciones mensuales a propietarios.
type LiquidationHandler struct {
	uc  *settlement.LiquidationUseCase
	log *logger.Logger
}

// NewLiquidationHandler construye el handler.
func NewLiquidationHandler(uc *settlement.LiquidationUseCase, log *logger.Logger) *LiquidationHandler {
	return &LiquidationHandler{uc: uc, log: log}
}

// Generate godoc
// @Summary      Generar la liquidación mensual de un propietario
// @Description  Reemplaza un borrador sin factura del mismo periodo. Limitado por usuario y hora.
// @Tags         liquidations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateLiquidationRequest  true  "propietario y periodo"
// @Success      201   {object}  dto.LiquidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/liquidations [post]
func (h *LiquidationHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.GenerateLiquidationRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Generate(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/liquidations/:id
func (h *LiquidationHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recalculate POST /api/liquidations/:id/recalculate
func (h *LiquidationHandler) Recalculate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Recalculate(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (DRAFT → SENT | CANCELLED)
// @Description  Una liquidación con factura emitida no admite cambios por esta vía.
// @Tags         liquidations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                              true  "ID"
// @Param        body  body  dto.UpdateLiquidationStatusRequest  true  "nuevo estado"
// @Success      200   {object}  dto.LiquidationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id}/status [put]
func (h *LiquidationHandler) UpdateStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateLiquidationStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.TransitionStatus(c.Context(), userID, c.Params("id"), entity.LiquidationStatus(in.Status))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Send POST /api/liquidations/:id/send
func (h *LiquidationHandler) Send(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Send(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// IssueInvoice godoc
// @Summary      Emitir la factura de gestión de la liquidación
// @Description  Tras emitir, la liquidación queda bloqueada: no se recalcula, edita ni elimina.
// @Tags         liquidations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                              true   "ID"
// @Param        body  body  dto.IssueLiquidationInvoiceRequest  false  "serie y número opcionales"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id}/invoice [post]
func (h *LiquidationHandler) IssueInvoice(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.IssueLiquidationInvoiceRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, h.log, err)
		}
	}
	out, err := h.uc.IssueInvoice(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /api/liquidations/:id
func (h *LiquidationHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
