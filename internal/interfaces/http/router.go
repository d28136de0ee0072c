package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/pkg/jwt"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Calculator   *billing.Calculator
	Series       *billing.SeriesUseCase
	Invoices     *billing.CreateInvoiceUseCase
	Owners       *billing.OwnerUseCase
	Configs      *settlement.ConfigUseCase
	Liquidations *settlement.LiquidationUseCase
	JWTSecret    string
	// Generaciones de liquidación por usuario y hora; <= 0 desactiva el límite.
	LiquidationRateLimit int
	Log                  *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	billingHandler := NewBillingHandler(deps.Calculator, deps.Series, log)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, log)
	ownerHandler := NewOwnerHandler(deps.Owners, deps.Configs, log)
	liquidationHandler := NewLiquidationHandler(deps.Liquidations, log)

	// Facturas: rutas fijas antes de /:id
	invoices := api.Group("/invoices")
	invoices.Post("/lines/compute", billingHandler.ComputeLine)
	invoices.Post("/totals", billingHandler.ComputeTotals)
	invoices.Get("/check-number", billingHandler.CheckNumber)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", writer, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)

	series := api.Group("/invoice-series")
	series.Get("/", billingHandler.ListSeries)
	series.Post("/", writer, billingHandler.CreateSeries)
	series.Get("/:id/next-number", billingHandler.NextNumber)

	owners := api.Group("/owners")
	owners.Get("/", ownerHandler.List)
	owners.Post("/", writer, ownerHandler.Create)
	owners.Put("/:id", writer, ownerHandler.Update)
	owners.Get("/:id/billing-config", ownerHandler.GetBillingConfig)
	owners.Put("/:id/billing-config", writer, ownerHandler.PutBillingConfig)

	liquidations := api.Group("/liquidations")
	generate := []fiber.Handler{writer}
	if deps.LiquidationRateLimit > 0 {
		generate = append(generate, liquidationLimiter(deps.LiquidationRateLimit))
	}
	liquidations.Post("/", append(generate, liquidationHandler.Generate)...)
	liquidations.Get("/:id", liquidationHandler.Get)
	liquidations.Post("/:id/recalculate", writer, liquidationHandler.Recalculate)
	liquidations.Put("/:id/status", writer, liquidationHandler.UpdateStatus)
	liquidations.Post("/:id/send", writer, liquidationHandler.Send)
	liquidations.Post("/:id/invoice", writer, liquidationHandler.IssueInvoice)
	liquidations.Delete("/:id", writer, liquidationHandler.Delete)
}

// liquidationLimiter limita la generación por usuario en ventanas de una hora.
func liquidationLimiter(maxPerHour int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxPerHour,
		Expiration: time.Hour,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "liquidations:" + GetUserID(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas liquidaciones generadas; inténtelo más tarde",
			})
		},
	})
}
