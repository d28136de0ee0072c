package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// Códigos específicos antes que los de tipo: errors.Is recorre toda la cadena.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrDuplicateNumber, fiber.StatusConflict, "DUPLICATE_NUMBER"},
	{domain.ErrSettlementBusy, fiber.StatusConflict, "SETTLEMENT_BUSY"},
	{domain.ErrAlreadyIssued, fiber.StatusConflict, "ALREADY_ISSUED"},
	{domain.ErrSettlementLocked, fiber.StatusConflict, "SETTLEMENT_LOCKED"},
	{domain.ErrAlreadySent, fiber.StatusConflict, "ALREADY_SENT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrAtLeastOneLineRequired, fiber.StatusBadRequest, "LINES_REQUIRED"},
	{domain.ErrRateNotAllowed, fiber.StatusBadRequest, "RATE_NOT_ALLOWED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrLookupUnavailable, fiber.StatusServiceUnavailable, "LOOKUP_UNAVAILABLE"},
}

// ErrorStatus traduce un error de dominio a status HTTP y código de la API.
func ErrorStatus(err error) (int, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe dto.ErrorResponse. Los 500 se registran y no exponen el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := ErrorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
