package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceField indica cuál de los dos precios unitarios introdujo el usuario por última vez.
type PriceField string

const (
	PriceFieldBase PriceField = "BASE" // precio sin IVA ni retención
	PriceFieldNet  PriceField = "NET"  // precio con IVA y retención aplicados
)

// InvoiceLine representa una línea de factura.
// Invariante: UnitNet == UnitBase × (1 + VATRate/100 − RetentionRate/100).
type InvoiceLine struct {
	ID            string
	InvoiceID     string
	Position      int
	Concept       string
	Description   string
	Quantity      int
	UnitBase      decimal.Decimal
	UnitNet       decimal.Decimal
	VATRate       decimal.Decimal // porcentaje (21 = 21%)
	RetentionRate decimal.Decimal // porcentaje IRPF
	LastEdited    PriceField
}

// InvoiceTotals totales derivados de las líneas válidas; nunca se editan a mano.
type InvoiceTotals struct {
	Subtotal         decimal.Decimal
	TotalVAT         decimal.Decimal
	TotalRetention   decimal.Decimal
	GrandTotal       decimal.Decimal
	AvgRetentionRate decimal.Decimal
}

// OwnerSnapshot copia de los datos fiscales del propietario en el momento de emitir.
// Editar el propietario después no altera facturas históricas.
type OwnerSnapshot struct {
	Kind        OwnerKind
	TaxID       string
	DisplayName string
	Email       string
	Address     string
}

// Invoice representa la cabecera de una factura emitida a un propietario.
type Invoice struct {
	ID            string
	UserID        string
	OwnerID       string
	SeriesID      string
	LiquidationID string // vacío si no se generó desde una liquidación
	Number        string
	IssueDate     time.Time
	DueDate       *time.Time
	Owner         OwnerSnapshot
	Lines         []InvoiceLine
	Totals        InvoiceTotals
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
