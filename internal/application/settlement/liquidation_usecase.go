package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	domsettle "github.com/jhoicas/gestion-api/internal/domain/settlement"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// Deps dependencias del caso de uso de liquidaciones.
type Deps struct {
	TxRunner     repository.TxRunner
	Owners       repository.OwnerRepository
	Configs      repository.BillingConfigRepository
	Liquidations repository.LiquidationRepository
	Reservations repository.ReservationRepository
	Expenses     repository.ExpenseRepository
	Issuer       InvoiceIssuer
	Locker       Locker
	Notifier     Notifier
	Log          *logger.Logger
}

// LiquidationUseCase generación y ciclo de vida de las liquidaciones mensuales.
type LiquidationUseCase struct {
	tx           repository.TxRunner
	owners       repository.OwnerRepository
	configs      repository.BillingConfigRepository
	liquidations repository.LiquidationRepository
	reservations repository.ReservationRepository
	expenses     repository.ExpenseRepository
	issuer       InvoiceIssuer
	locker       Locker
	notifier     Notifier
	log          *logger.Logger
	now          func() time.Time
}

// NewLiquidationUseCase construye el caso de uso. Sin Locker se usa uno local.
func NewLiquidationUseCase(d Deps) *LiquidationUseCase {
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &LiquidationUseCase{
		tx:           d.TxRunner,
		owners:       d.Owners,
		configs:      d.Configs,
		liquidations: d.Liquidations,
		reservations: d.Reservations,
		expenses:     d.Expenses,
		issuer:       d.Issuer,
		locker:       d.Locker,
		notifier:     d.Notifier,
		log:          d.Log.Component("liquidations"),
		now:          time.Now,
	}
}

// Generate calcula la liquidación del periodo. Un borrador sin factura del mismo periodo se reemplaza;
// cualquier otra liquidación existente es un conflicto.
func (uc *LiquidationUseCase) Generate(ctx context.Context, userID string, in dto.GenerateLiquidationRequest) (*dto.LiquidationResponse, error) {
	if in.OwnerID == "" {
		return nil, domain.ErrOwnerRequired
	}
	if in.Year <= 0 || in.Month < 1 || in.Month > 12 {
		return nil, domain.ErrPeriodRequired
	}
	owner, err := uc.ownedOwner(ctx, userID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, fmt.Sprintf("liquidation:%s:%04d-%02d", owner.ID, in.Year, in.Month))
	if err != nil {
		return nil, err
	}
	defer release()

	from := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var (
		cfg          *entity.BillingConfig
		reservations []entity.Reservation
		expenses     []entity.Expense
		existing     *entity.Liquidation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = uc.configs.GetByOwner(gctx, owner.ID)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = uc.reservations.ListUnassigned(gctx, owner.ID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = uc.expenses.ListUnassigned(gctx, owner.ID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = uc.liquidations.GetByPeriod(gctx, owner.ID, in.Year, in.Month)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load settlement data: %w", err)
	}

	if existing != nil {
		if err := replaceable(existing); err != nil {
			return nil, err
		}
		// El borrador también se bloquea por id: IssueInvoice, Send o Delete pueden estar en curso.
		releaseDraft, err := uc.locker.Acquire(ctx, "liquidation:"+existing.ID)
		if err != nil {
			return nil, err
		}
		defer releaseDraft()
		reservations = append(existing.Reservations, reservations...)
		expenses = append(existing.Expenses, expenses...)
	}
	config := domsettle.DefaultConfig(owner.ID)
	if cfg != nil {
		config = *cfg
	}

	liq, err := domsettle.Aggregate(domsettle.Input{
		ID:           uuid.New().String(),
		UserID:       userID,
		Owner:        *owner,
		Year:         in.Year,
		Month:        in.Month,
		Reservations: reservations,
		Expenses:     expenses,
		Config:       config,
	})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	liq.CreatedAt, liq.UpdatedAt = now, now

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		cur, err := r.Liquidations.GetByPeriod(ctx, owner.ID, in.Year, in.Month)
		if err != nil {
			return err
		}
		switch {
		case existing == nil && cur == nil:
		case existing == nil || cur == nil || cur.ID != existing.ID:
			return fmt.Errorf("%w: la liquidación de %02d/%d cambió durante la generación", domain.ErrConflict, in.Month, in.Year)
		default:
			if err := replaceable(cur); err != nil {
				return err
			}
			if err := uc.remove(ctx, r, cur.ID); err != nil {
				return err
			}
		}
		if err := r.Liquidations.Create(ctx, &liq); err != nil {
			return err
		}
		if err := r.Reservations.Assign(ctx, liq.ID, reservationIDs(liq.Reservations)); err != nil {
			return err
		}
		return r.Expenses.Assign(ctx, liq.ID, expenseIDs(liq.Expenses))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("liquidation_id", liq.ID).
		Str("owner_id", owner.ID).
		Int("year", liq.Year).
		Int("month", liq.Month).
		Bool("replaced", existing != nil).
		Str("total_amount", liq.Totals.TotalAmount.StringFixed(2)).
		Msg("liquidación generada")
	return ToResponse(&liq), nil
}

// replaceable solo un borrador sin factura puede sustituirse al regenerar el periodo.
func replaceable(l *entity.Liquidation) error {
	if err := domsettle.Check(*l, domsettle.ActionDelete); err != nil {
		return err
	}
	if l.Status != entity.LiquidationDraft {
		return fmt.Errorf("%w: ya existe una liquidación %s para %02d/%d", domain.ErrConflict, l.Status, l.Month, l.Year)
	}
	return nil
}

// Get devuelve la liquidación si pertenece al usuario.
func (uc *LiquidationUseCase) Get(ctx context.Context, userID, id string) (*dto.LiquidationResponse, error) {
	l, err := uc.load(ctx, uc.liquidations, userID, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(l), nil
}

// Recalculate regenera totales y estadísticas. Con factura emitida devuelve ErrSettlementLocked.
func (uc *LiquidationUseCase) Recalculate(ctx context.Context, userID, id string) (*dto.LiquidationResponse, error) {
	var out entity.Liquidation
	err := uc.mutate(ctx, userID, id, func(r repository.Repos, l *entity.Liquidation) error {
		next, err := domsettle.Recalculate(*l)
		if err != nil {
			return err
		}
		next.InvoiceID, next.InvoiceNumber, next.SentAt = l.InvoiceID, l.InvoiceNumber, l.SentAt
		next.UpdatedAt = uc.now()
		out = next
		return r.Liquidations.Update(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(&out), nil
}

// TransitionStatus DRAFT → SENT | CANCELLED. Pasar a SENT notifica al propietario.
func (uc *LiquidationUseCase) TransitionStatus(ctx context.Context, userID, id string, to entity.LiquidationStatus) (*dto.LiquidationResponse, error) {
	var out entity.Liquidation
	err := uc.mutate(ctx, userID, id, func(r repository.Repos, l *entity.Liquidation) error {
		next, err := domsettle.TransitionStatus(*l, to)
		if err != nil {
			return err
		}
		now := uc.now()
		if next.Status == entity.LiquidationSent {
			next.SentAt = &now
		}
		next.UpdatedAt = now
		out = next
		return r.Liquidations.Update(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Liquidation(id).Info().Str("status", string(out.Status)).Msg("estado de liquidación actualizado")
	if out.Status == entity.LiquidationSent {
		uc.notify(ctx, out.ID)
	}
	return ToResponse(&out), nil
}

// Send envía la liquidación al propietario; admite borradores ya facturados.
func (uc *LiquidationUseCase) Send(ctx context.Context, userID, id string) (*dto.LiquidationResponse, error) {
	var out entity.Liquidation
	err := uc.mutate(ctx, userID, id, func(r repository.Repos, l *entity.Liquidation) error {
		next, err := domsettle.MarkSent(*l, uc.now())
		if err != nil {
			return err
		}
		next.UpdatedAt = *next.SentAt
		out = next
		return r.Liquidations.Update(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Liquidation(id).Info().Bool("locked", out.Locked()).Msg("liquidación enviada")
	uc.notify(ctx, out.ID)
	return ToResponse(&out), nil
}

// IssueInvoice emite la factura de gestión de la liquidación y la bloquea.
func (uc *LiquidationUseCase) IssueInvoice(ctx context.Context, userID, id string, in dto.IssueLiquidationInvoiceRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.mutate(ctx, userID, id, func(r repository.Repos, l *entity.Liquidation) error {
		if err := domsettle.Check(*l, domsettle.ActionIssueInvoice); err != nil {
			return err
		}
		owner, err := r.Owners.GetByID(ctx, l.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.ErrOwnerRequired
		}
		now := uc.now()
		inv, err = uc.issuer.IssueInTx(ctx, r, billing.InvoiceDraft{
			UserID:        userID,
			Owner:         owner,
			SeriesID:      in.SeriesID,
			Number:        in.Number,
			LiquidationID: l.ID,
			IssueDate:     now,
			Notes:         fmt.Sprintf("Liquidación %02d/%d", l.Month, l.Year),
			Lines:         domsettle.InvoiceLines(*l),
		})
		if err != nil {
			return err
		}
		next, err := domsettle.Issue(*l, inv.ID, inv.Number)
		if err != nil {
			return err
		}
		next.UpdatedAt = now
		return r.Liquidations.Update(ctx, &next)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Liquidation(id).Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("liquidación facturada")
	return billing.InvoiceToResponse(inv), nil
}

// Delete borra la liquidación y libera sus reservas y gastos.
func (uc *LiquidationUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.mutate(ctx, userID, id, func(r repository.Repos, l *entity.Liquidation) error {
		if err := domsettle.Check(*l, domsettle.ActionDelete); err != nil {
			return err
		}
		return uc.remove(ctx, r, l.ID)
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

// mutate toma el lock de la liquidación y ejecuta fn en una transacción con el estado releído.
func (uc *LiquidationUseCase) mutate(ctx context.Context, userID, id string, fn func(r repository.Repos, l *entity.Liquidation) error) error {
	release, err := uc.locker.Acquire(ctx, "liquidation:"+id)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(r repository.Repos) error {
		l, err := uc.load(ctx, r.Liquidations, userID, id)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func (uc *LiquidationUseCase) load(ctx context.Context, repo repository.LiquidationRepository, userID, id string) (*entity.Liquidation, error) {
	l, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if l.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return l, nil
}

func (uc *LiquidationUseCase) ownedOwner(ctx context.Context, userID, ownerID string) (*entity.Owner, error) {
	o, err := uc.owners.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (uc *LiquidationUseCase) remove(ctx context.Context, r repository.Repos, id string) error {
	if err := r.Reservations.Release(ctx, id); err != nil {
		return err
	}
	if err := r.Expenses.Release(ctx, id); err != nil {
		return err
	}
	return r.Liquidations.Delete(ctx, id)
}

// notify encola el aviso al propietario; un fallo no deshace el envío.
func (uc *LiquidationUseCase) notify(ctx context.Context, id string) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyOwner(ctx, id); err != nil {
		uc.log.Liquidation(id).Warn().Err(err).Msg("no se pudo encolar el aviso al propietario")
	}
}

func reservationIDs(list []entity.Reservation) []string {
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	return ids
}

func expenseIDs(list []entity.Expense) []string {
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	return ids
}
