package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation reserva importada (Airbnb, Booking, ...) que entra en una liquidación.
// Los campos puntero vacíos toman el valor de la configuración de facturación.
type Reservation struct {
	ID                    string
	OwnerID               string
	LiquidationID         string
	Property              string
	ConfirmationCode      string
	GuestName             string
	CheckIn               time.Time
	CheckOut              time.Time
	Nights                int
	GrossHostEarnings     decimal.Decimal
	CleaningAmount        *decimal.Decimal
	CommissionRate        *decimal.Decimal // modo porcentaje
	CommissionFixedAmount *decimal.Decimal // modo fijo por reserva
	CommissionVATRate     *decimal.Decimal
}
