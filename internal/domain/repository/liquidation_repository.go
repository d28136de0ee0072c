package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// LiquidationRepository define el puerto de persistencia para Liquidation.
// GetByID y GetByPeriod cargan también las reservas y gastos asignados.
type LiquidationRepository interface {
	Create(ctx context.Context, l *entity.Liquidation) error
	Update(ctx context.Context, l *entity.Liquidation) error
	GetByID(ctx context.Context, id string) (*entity.Liquidation, error)
	GetByPeriod(ctx context.Context, ownerID string, year, month int) (*entity.Liquidation, error)
	Delete(ctx context.Context, id string) error
}

// ReservationRepository reservas importadas pendientes de liquidar.
type ReservationRepository interface {
	// ListUnassigned reservas del propietario con entrada en [from, to) sin liquidación.
	ListUnassigned(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Reservation, error)
	Assign(ctx context.Context, liquidationID string, ids []string) error
	Release(ctx context.Context, liquidationID string) error
}

// ExpenseRepository gastos repercutibles al propietario.
type ExpenseRepository interface {
	ListUnassigned(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Expense, error)
	Assign(ctx context.Context, liquidationID string, ids []string) error
	Release(ctx context.Context, liquidationID string) error
}
