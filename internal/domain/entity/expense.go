package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto repercutible al propietario.
const (
	ExpenseMaintenance = "MAINTENANCE"
	ExpenseSupplies    = "SUPPLIES"
	ExpenseRepair      = "REPAIR"
	ExpenseCleaning    = "CLEANING"
	ExpenseFurniture   = "FURNITURE"
	ExpenseTaxes       = "TAXES"
	ExpenseInsurance   = "INSURANCE"
	ExpenseOther       = "OTHER"
)

// Expense gasto de un alojamiento cargado al propietario.
type Expense struct {
	ID            string
	OwnerID       string
	LiquidationID string
	Property      string
	Concept       string
	Category      string
	Amount        decimal.Decimal
	VATAmount     decimal.Decimal
	Date          time.Time
}
