package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerKind tipo de propietario.
type OwnerKind string

const (
	OwnerIndividual OwnerKind = "INDIVIDUAL"
	OwnerCompany    OwnerKind = "COMPANY"
)

// Owner propietario de uno o varios alojamientos.
type Owner struct {
	ID            string
	UserID        string
	Kind          OwnerKind
	TaxID         string // NIF / CIF
	DisplayName   string
	Email         string
	Address       string
	RetentionRate *decimal.Decimal // nil = valor por defecto según Kind
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot devuelve la copia fiscal que se guarda con cada factura.
func (o *Owner) Snapshot() OwnerSnapshot {
	return OwnerSnapshot{
		Kind:        o.Kind,
		TaxID:       o.TaxID,
		DisplayName: o.DisplayName,
		Email:       o.Email,
		Address:     o.Address,
	}
}
