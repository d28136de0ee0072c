package repository

import (
	"context"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create guarda cabecera, líneas y copia del propietario. Número repetido => domain.ErrDuplicateNumber.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// ExistsNumber indica si el número ya fue emitido por el usuario.
	ExistsNumber(ctx context.Context, userID, number string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Invoice, error)
}
