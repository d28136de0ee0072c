package repository

import (
	"context"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// InvoiceSeriesRepository define el puerto de persistencia para las series de numeración.
type InvoiceSeriesRepository interface {
	Create(ctx context.Context, series *entity.InvoiceSeries) error
	GetByID(ctx context.Context, id string) (*entity.InvoiceSeries, error)
	// GetForUpdate bloquea la fila de la serie hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InvoiceSeries, error)
	GetDefault(ctx context.Context, userID string) (*entity.InvoiceSeries, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.InvoiceSeries, error)
	// Increment suma 1 al contador y devuelve el nuevo valor.
	Increment(ctx context.Context, id string) (int64, error)
}
