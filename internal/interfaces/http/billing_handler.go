package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// BillingHandler cálculo de líneas y totales, series y numeración.
type BillingHandler struct {
	calc   *billing.Calculator
	series *billing.SeriesUseCase
	log    *logger.Logger
}

// NewBillingHandler construye el handler.
func NewBillingHandler(calc *billing.Calculator, series *billing.SeriesUseCase, log *logger.Logger) *BillingHandler {
	return &BillingHandler{calc: calc, series: series, log: log}
}

// ComputeLine godoc
// @Summary      Recalcular una línea tras editar un campo
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeLineRequest  true  "línea actual, campo editado y valor"
// @Success      200   {object}  dto.ComputeLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/lines/compute [post]
func (h *BillingHandler) ComputeLine(c *fiber.Ctx) error {
	var in dto.ComputeLineRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.calc.ComputeLine(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ComputeTotals godoc
// @Summary      Totales de factura a partir de las líneas
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeTotalsRequest  true  "líneas"
// @Success      200   {object}  dto.InvoiceTotalsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/totals [post]
func (h *BillingHandler) ComputeTotals(c *fiber.Ctx) error {
	var in dto.ComputeTotalsRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.calc.ComputeTotals(in))
}

// CreateSeries POST /api/invoice-series
func (h *BillingHandler) CreateSeries(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSeriesRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.series.Create(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSeries GET /api/invoice-series
func (h *BillingHandler) ListSeries(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	list, err := h.series.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// NextNumber godoc
// @Summary      Número propuesto para la serie (no reserva el número)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la serie"
// @Success      200  {object}  dto.NextNumberResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoice-series/{id}/next-number [get]
func (h *BillingHandler) NextNumber(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.series.NextNumber(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CheckNumber godoc
// @Summary      Comprobar si un número manual ya existe
// @Description  Espera a que el valor se estabilice; si la consulta falla responde verified=false sin bloquear.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  query  string  true   "número a comprobar"
// @Param        draft   query  string  false  "identificador del borrador (agrupa ediciones sucesivas)"
// @Success      200  {object}  dto.CheckNumberResponse
// @Router       /api/invoices/check-number [get]
func (h *BillingHandler) CheckNumber(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	draft := c.Query("draft", userID)
	out, err := h.series.CheckNumber(c.Context(), userID, draft, c.Query("number"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
