package dto

import "github.com/shopspring/decimal"

// GenerateLiquidationRequest body para POST /api/liquidations.
type GenerateLiquidationRequest struct {
	OwnerID string `json:"owner_id" validate:"required"`
	Year    int    `json:"year" validate:"required,min=2000,max=2099"`
	Month   int    `json:"month" validate:"required,min=1,max=12"`
}

// UpdateLiquidationStatusRequest body para PUT /api/liquidations/:id/status.
type UpdateLiquidationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT SENT CANCELLED"`
}

// IssueLiquidationInvoiceRequest body opcional para POST /api/liquidations/:id/invoice.
type IssueLiquidationInvoiceRequest struct {
	SeriesID string `json:"series_id,omitempty"`
	Number   string `json:"number,omitempty" validate:"max=30"`
}

// ReservationLineDTO reserva con su desglose.
type ReservationLineDTO struct {
	ID                  string          `json:"id"`
	ConfirmationCode    string          `json:"confirmation_code,omitempty"`
	GuestName           string          `json:"guest_name,omitempty"`
	CheckIn             string          `json:"check_in"`
	CheckOut            string          `json:"check_out"`
	Nights              int             `json:"nights"`
	GrossHostEarnings   decimal.Decimal `json:"gross_host_earnings"`
	NetPrice            decimal.Decimal `json:"net_price"`
	Cleaning            decimal.Decimal `json:"cleaning"`
	CommissionAmount    decimal.Decimal `json:"commission_amount"`
	CommissionVATAmount decimal.Decimal `json:"commission_vat_amount"`
	NetToOwner          decimal.Decimal `json:"net_to_owner"`
}

// ExpenseDTO gasto en respuestas.
type ExpenseDTO struct {
	ID        string          `json:"id"`
	Concept   string          `json:"concept"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	VATAmount decimal.Decimal `json:"vat_amount"`
	Date      string          `json:"date"`
}

// PropertyGroupDTO bloque por alojamiento.
type PropertyGroupDTO struct {
	Property         string               `json:"property"`
	Reservations     []ReservationLineDTO `json:"reservations"`
	Expenses         []ExpenseDTO         `json:"expenses"`
	TotalNights      int                  `json:"total_nights"`
	OccupancyRate    int                  `json:"occupancy_rate"`
	Income           decimal.Decimal      `json:"income"`
	Cleaning         decimal.Decimal      `json:"cleaning"`
	Commission       decimal.Decimal      `json:"commission"`
	CommissionVAT    decimal.Decimal      `json:"commission_vat"`
	NetToOwner       decimal.Decimal      `json:"net_to_owner"`
	ExpensesSubtotal decimal.Decimal      `json:"expenses_subtotal"`
}

// SettlementTotalsDTO totales de la liquidación. TotalRetention es informativo.
type SettlementTotalsDTO struct {
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalCommission    decimal.Decimal `json:"total_commission"`
	TotalCommissionVAT decimal.Decimal `json:"total_commission_vat"`
	TotalCleaning      decimal.Decimal `json:"total_cleaning"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	TotalRetention     decimal.Decimal `json:"total_retention"`
}

// SettlementStatsDTO estadísticas del periodo.
type SettlementStatsDTO struct {
	DaysInMonth       int             `json:"days_in_month"`
	TotalNights       int             `json:"total_nights"`
	OccupancyRate     int             `json:"occupancy_rate"`
	CommissionType    string          `json:"commission_type"`
	CommissionValue   decimal.Decimal `json:"commission_value"`
	CommissionVATRate decimal.Decimal `json:"commission_vat_rate"`
	CleaningType      string          `json:"cleaning_type"`
	CleaningValue     decimal.Decimal `json:"cleaning_value"`
	RetentionRate     decimal.Decimal `json:"retention_rate"`
}

// LiquidationResponse liquidación completa.
type LiquidationResponse struct {
	ID            string              `json:"id"`
	OwnerID       string              `json:"owner_id"`
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Status        string              `json:"status"`
	Locked        bool                `json:"locked"`
	InvoiceID     string              `json:"invoice_id,omitempty"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	SentAt        string              `json:"sent_at,omitempty"`
	Groups        []PropertyGroupDTO  `json:"groups"`
	Totals        SettlementTotalsDTO `json:"totals"`
	Stats         SettlementStatsDTO  `json:"stats"`
}

// BillingConfigDTO configuración de facturación de un propietario (GET/PUT /api/owners/:id/billing-config).
type BillingConfigDTO struct {
	CommissionType    string          `json:"commission_type" validate:"omitempty,oneof=PERCENTAGE FIXED_PER_RESERVATION"`
	CommissionValue   decimal.Decimal `json:"commission_value"`
	CommissionVATRate decimal.Decimal `json:"commission_vat_rate"`
	CleaningType      string          `json:"cleaning_type" validate:"omitempty,oneof=FIXED_PER_RESERVATION PER_NIGHT"`
	CleaningValue     decimal.Decimal `json:"cleaning_value"`
	MonthlyFee        decimal.Decimal `json:"monthly_fee"`
	MonthlyFeeVATRate decimal.Decimal `json:"monthly_fee_vat_rate"`
}
