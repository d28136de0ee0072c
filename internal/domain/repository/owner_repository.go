package repository

import (
	"context"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// OwnerRepository define el puerto de persistencia para Owner.
type OwnerRepository interface {
	Create(ctx context.Context, owner *entity.Owner) error
	GetByID(ctx context.Context, id string) (*entity.Owner, error)
	GetByUserAndTaxID(ctx context.Context, userID, taxID string) (*entity.Owner, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Owner, error)
	Update(ctx context.Context, owner *entity.Owner) error
}

// BillingConfigRepository configuración de facturación por propietario.
type BillingConfigRepository interface {
	// GetByOwner devuelve nil, nil si el propietario no tiene configuración.
	GetByOwner(ctx context.Context, ownerID string) (*entity.BillingConfig, error)
	Upsert(ctx context.Context, cfg *entity.BillingConfig) error
}
