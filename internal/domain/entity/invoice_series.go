package entity

import "time"

// Tipos de serie.
const (
	SeriesTypeStandard   = "STANDARD"
	SeriesTypeRectifying = "RECTIFYING"
	SeriesTypeSimplified = "SIMPLIFIED"
)

// InvoiceSeries secuencia de numeración (prefijo + año + contador).
// CurrentNumber es el último número asignado; solo lo incrementa la persistencia al crear la factura.
type InvoiceSeries struct {
	ID            string
	UserID        string
	Prefix        string
	Year          int
	CurrentNumber int64
	IsDefault     bool
	Type          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
