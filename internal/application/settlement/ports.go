package settlement

import (
	"context"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

// Locker serializa las operaciones sobre una misma liquidación.
// Acquire devuelve domain.ErrSettlementBusy si otra operación tiene la clave.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Notifier avisa al propietario de que su liquidación está disponible.
type Notifier interface {
	NotifyOwner(ctx context.Context, liquidationID string) error
}

// InvoiceIssuer emite una factura dentro de la transacción del llamador.
type InvoiceIssuer interface {
	IssueInTx(ctx context.Context, r repository.Repos, d billing.InvoiceDraft) (*entity.Invoice, error)
}
