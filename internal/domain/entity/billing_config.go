package entity

import "github.com/shopspring/decimal"

// Modos de comisión de gestión.
const (
	CommissionPercentage          = "PERCENTAGE"
	CommissionFixedPerReservation = "FIXED_PER_RESERVATION"
)

// Modos de limpieza.
const (
	CleaningFixedPerReservation = "FIXED_PER_RESERVATION"
	CleaningPerNight            = "PER_NIGHT"
)

// BillingConfig configuración de facturación de las propiedades de un propietario.
type BillingConfig struct {
	ID                string
	OwnerID           string
	CommissionType    string
	CommissionValue   decimal.Decimal // porcentaje o importe fijo según CommissionType
	CommissionVATRate decimal.Decimal
	CleaningType      string
	CleaningValue     decimal.Decimal
	MonthlyFee        decimal.Decimal
	MonthlyFeeVATRate decimal.Decimal
}
