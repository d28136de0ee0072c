package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiquidationStatus estado de una liquidación mensual.
type LiquidationStatus string

const (
	LiquidationDraft     LiquidationStatus = "DRAFT"
	LiquidationSent      LiquidationStatus = "SENT"
	LiquidationCancelled LiquidationStatus = "CANCELLED"
)

// SettlementTotals totales de la liquidación. TotalAmount es lo que se transfiere al propietario;
// TotalRetention es informativo y no se resta.
type SettlementTotals struct {
	TotalIncome        decimal.Decimal
	TotalCommission    decimal.Decimal
	TotalCommissionVAT decimal.Decimal
	TotalCleaning      decimal.Decimal
	TotalExpenses      decimal.Decimal
	TotalAmount        decimal.Decimal
	TotalRetention     decimal.Decimal
}

// SettlementStats métricas del periodo y configuración aplicada.
type SettlementStats struct {
	DaysInMonth       int
	TotalNights       int
	OccupancyRate     int
	CommissionType    string
	CommissionValue   decimal.Decimal
	CommissionVATRate decimal.Decimal
	CleaningType      string
	CleaningValue     decimal.Decimal
	RetentionRate     decimal.Decimal
}

// ReservationLine desglose calculado de una reserva.
type ReservationLine struct {
	Reservation         Reservation
	NetPrice            decimal.Decimal
	Cleaning            decimal.Decimal
	CommissionAmount    decimal.Decimal
	CommissionVATAmount decimal.Decimal
	NetToOwner          decimal.Decimal
}

// PropertyGroup agrupación por alojamiento (orden de primera aparición).
type PropertyGroup struct {
	Property         string
	Reservations     []ReservationLine
	Expenses         []Expense
	TotalNights      int
	OccupancyRate    int
	Income           decimal.Decimal
	Cleaning         decimal.Decimal
	Commission       decimal.Decimal
	CommissionVAT    decimal.Decimal
	NetToOwner       decimal.Decimal
	ExpensesSubtotal decimal.Decimal
}

// Liquidation liquidación mensual de un propietario.
// Con InvoiceID informado queda bloqueada (ver settlement.Allowed).
type Liquidation struct {
	ID            string
	UserID        string
	OwnerID       string
	Year          int
	Month         int
	Status        LiquidationStatus
	InvoiceID     string
	InvoiceNumber string
	Reservations  []Reservation
	Expenses      []Expense
	Config        BillingConfig
	Groups        []PropertyGroup
	Totals        SettlementTotals
	Stats         SettlementStats
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Locked indica si ya se emitió factura desde la liquidación.
func (l *Liquidation) Locked() bool {
	return l.InvoiceID != ""
}
