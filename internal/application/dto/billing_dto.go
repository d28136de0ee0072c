package dto

import "github.com/shopspring/decimal"

// InvoiceLineDTO línea de factura en peticiones y respuestas.
type InvoiceLineDTO struct {
	ID            string          `json:"id"`
	Concept       string          `json:"concept" validate:"max=200"`
	Description   string          `json:"description,omitempty" validate:"max=500"`
	Quantity      int             `json:"quantity"`
	UnitBase      decimal.Decimal `json:"unit_base"`
	UnitNet       decimal.Decimal `json:"unit_net"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	RetentionRate decimal.Decimal `json:"retention_rate"`
	LastEdited    string          `json:"last_edited" validate:"omitempty,oneof=BASE NET"`
}

// ComputeLineRequest body para POST /api/invoices/lines/compute.
type ComputeLineRequest struct {
	Line  InvoiceLineDTO `json:"line"`
	Field string         `json:"field" validate:"required,oneof=base net vat_rate retention_rate quantity concept description"`
	Value string         `json:"value"`
}

// ComputeLineResponse línea recalculada con sus importes.
type ComputeLineResponse struct {
	Line          InvoiceLineDTO  `json:"line"`
	LineBase      decimal.Decimal `json:"line_base"`
	LineVAT       decimal.Decimal `json:"line_vat"`
	LineRetention decimal.Decimal `json:"line_retention"`
	LineNet       decimal.Decimal `json:"line_net"`
	Valid         bool            `json:"valid"`
}

// ComputeTotalsRequest body para POST /api/invoices/totals.
type ComputeTotalsRequest struct {
	Lines []InvoiceLineDTO `json:"lines" validate:"dive"`
}

// InvoiceTotalsDTO totales de factura.
type InvoiceTotalsDTO struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalVAT         decimal.Decimal `json:"total_vat"`
	TotalRetention   decimal.Decimal `json:"total_retention"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	AvgRetentionRate decimal.Decimal `json:"avg_retention_rate"`
	HasRetentions    bool            `json:"has_retentions"`
}

// NextNumberResponse respuesta de GET /api/invoice-series/:id/next-number.
type NextNumberResponse struct {
	SeriesID string `json:"series_id"`
	Number   string `json:"number"`
}

// CheckNumberResponse respuesta de GET /api/invoices/check-number.
// Verified=false indica que la consulta falló y Exists se asumió false.
// Superseded: llegó una edición posterior del mismo borrador; el resultado no aplica.
type CheckNumberResponse struct {
	Number     string `json:"number"`
	Exists     bool   `json:"exists"`
	Verified   bool   `json:"verified"`
	Skipped    bool   `json:"skipped,omitempty"`
	Superseded bool   `json:"superseded,omitempty"`
}

// CreateSeriesRequest body para POST /api/invoice-series.
type CreateSeriesRequest struct {
	Prefix        string `json:"prefix" validate:"required,max=10"`
	Year          int    `json:"year" validate:"required,min=2000,max=2099"`
	CurrentNumber int64  `json:"current_number" validate:"min=0"`
	IsDefault     bool   `json:"is_default"`
	Type          string `json:"type" validate:"omitempty,oneof=STANDARD RECTIFYING SIMPLIFIED"`
}

// SeriesResponse serie en respuestas.
type SeriesResponse struct {
	ID            string `json:"id"`
	Prefix        string `json:"prefix"`
	Year          int    `json:"year"`
	CurrentNumber int64  `json:"current_number"`
	IsDefault     bool   `json:"is_default"`
	Type          string `json:"type"`
	NextNumber    string `json:"next_number"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Number vacío => se usa el número propuesto por la serie.
type CreateInvoiceRequest struct {
	OwnerID   string           `json:"owner_id"`
	SeriesID  string           `json:"series_id"`
	Number    string           `json:"number,omitempty" validate:"max=30"`
	IssueDate string           `json:"issue_date,omitempty"`
	DueDate   string           `json:"due_date,omitempty"`
	Notes     string           `json:"notes,omitempty" validate:"max=1000"`
	Lines     []InvoiceLineDTO `json:"lines" validate:"dive"`
}

// OwnerSnapshotDTO datos fiscales del propietario tal como constan en la factura.
type OwnerSnapshotDTO struct {
	Kind        string `json:"kind"`
	TaxID       string `json:"tax_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string           `json:"id"`
	OwnerID       string           `json:"owner_id"`
	SeriesID      string           `json:"series_id"`
	LiquidationID string           `json:"liquidation_id,omitempty"`
	Number        string           `json:"number"`
	IssueDate     string           `json:"issue_date"`
	DueDate       string           `json:"due_date,omitempty"`
	Owner         OwnerSnapshotDTO `json:"owner"`
	Lines         []InvoiceLineDTO `json:"lines"`
	Totals        InvoiceTotalsDTO `json:"totals"`
	Notes         string           `json:"notes,omitempty"`
}

// CreateOwnerRequest body para POST /api/owners y PUT /api/owners/:id.
type CreateOwnerRequest struct {
	Kind          string           `json:"kind" validate:"required,oneof=INDIVIDUAL COMPANY"`
	TaxID         string           `json:"tax_id" validate:"required,max=20"`
	DisplayName   string           `json:"display_name" validate:"required,max=200"`
	Email         string           `json:"email,omitempty" validate:"omitempty,email"`
	Address       string           `json:"address,omitempty"`
	RetentionRate *decimal.Decimal `json:"retention_rate,omitempty"`
}

// OwnerResponse propietario en respuestas.
type OwnerResponse struct {
	ID            string           `json:"id"`
	Kind          string           `json:"kind"`
	TaxID         string           `json:"tax_id"`
	DisplayName   string           `json:"display_name"`
	Email         string           `json:"email,omitempty"`
	Address       string           `json:"address,omitempty"`
	RetentionRate *decimal.Decimal `json:"retention_rate,omitempty"`
}

// InvoiceListResponse página de facturas del usuario (más recientes primero).
type InvoiceListResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
