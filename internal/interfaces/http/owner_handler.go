package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// OwnerHandler propietarios y su configuración de facturación.
type OwnerHandler struct {
	uc      *billing.OwnerUseCase
	configs *settlement.ConfigUseCase
	log     *logger.Logger
}

// NewOwnerHandler construye el handler.
func NewOwnerHandler(uc *billing.OwnerUseCase, configs *settlement.ConfigUseCase, log *logger.Logger) *OwnerHandler {
	return &OwnerHandler{uc: uc, configs: configs, log: log}
}

// Create godoc
// @Summary      Crear propietario
// @Tags         owners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOwnerRequest  true  "datos fiscales"
// @Success      201   {object}  dto.OwnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/owners [post]
func (h *OwnerHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOwnerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	owner, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(owner)
}

// List GET /api/owners?limit=20&offset=0
func (h *OwnerHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page, err := bindPage(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	list, err := h.uc.List(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// Update PUT /api/owners/:id
func (h *OwnerHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOwnerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	owner, err := h.uc.Update(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(owner)
}

// GetBillingConfig GET /api/owners/:id/billing-config
func (h *OwnerHandler) GetBillingConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cfg, err := h.configs.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cfg)
}

// PutBillingConfig PUT /api/owners/:id/billing-config
func (h *OwnerHandler) PutBillingConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.BillingConfigDTO
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	cfg, err := h.configs.Put(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cfg)
}
