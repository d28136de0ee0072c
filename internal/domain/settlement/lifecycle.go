package settlement

import (
	"time"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// Action operación sobre una liquidación existente.
type Action string

const (
	ActionRecalculate  Action = "recalculate"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionIssueInvoice Action = "issue_invoice"
	ActionSend         Action = "send"
)

// Check devuelve nil si la acción está permitida para el estado y el bloqueo actuales.
//
//	status     locked  recalc/edit  delete  issue  send
//	DRAFT      no      sí           sí      sí     sí
//	DRAFT      sí      no           no      no     sí
//	SENT       -       no           no      no     no
//	CANCELLED  no      no           sí      no     no
func Check(l entity.Liquidation, a Action) error {
	switch a {
	case ActionRecalculate, ActionEdit:
		if l.Locked() {
			return domain.ErrSettlementLocked
		}
		if l.Status != entity.LiquidationDraft {
			return domain.ErrInvalidTransition
		}
	case ActionDelete:
		if l.Locked() {
			return domain.ErrSettlementLocked
		}
		if l.Status == entity.LiquidationSent {
			return domain.ErrAlreadySent
		}
	case ActionIssueInvoice:
		if l.Locked() {
			return domain.ErrAlreadyIssued
		}
		if l.Status != entity.LiquidationDraft {
			return domain.ErrInvalidTransition
		}
	case ActionSend:
		if l.Status == entity.LiquidationSent {
			return domain.ErrAlreadySent
		}
		if l.Status != entity.LiquidationDraft {
			return domain.ErrInvalidTransition
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Allowed versión booleana de Check.
func Allowed(l entity.Liquidation, a Action) bool {
	return Check(l, a) == nil
}

// TransitionStatus aplica DRAFT → SENT | CANCELLED.
// Una liquidación bloqueada rechaza cualquier cambio de estado; el envío de una bloqueada va por MarkSent.
func TransitionStatus(l entity.Liquidation, to entity.LiquidationStatus) (entity.Liquidation, error) {
	if l.Locked() {
		return l, domain.ErrSettlementLocked
	}
	if l.Status != entity.LiquidationDraft {
		return l, domain.ErrInvalidTransition
	}
	switch to {
	case entity.LiquidationSent, entity.LiquidationCancelled:
		l.Status = to
		return l, nil
	default:
		return l, domain.ErrInvalidTransition
	}
}

// MarkSent envía la liquidación al propietario (DRAFT, con o sin factura).
func MarkSent(l entity.Liquidation, at time.Time) (entity.Liquidation, error) {
	if err := Check(l, ActionSend); err != nil {
		return l, err
	}
	l.Status = entity.LiquidationSent
	l.SentAt = &at
	return l, nil
}

// Recalculate regenera grupos, totales y estadísticas con las reservas y gastos actuales.
func Recalculate(l entity.Liquidation) (entity.Liquidation, error) {
	if err := Check(l, ActionRecalculate); err != nil {
		return l, err
	}
	retention := l.Stats.RetentionRate
	out, err := Aggregate(Input{
		ID:           l.ID,
		UserID:       l.UserID,
		Owner:        entity.Owner{ID: l.OwnerID, RetentionRate: &retention},
		Year:         l.Year,
		Month:        l.Month,
		Reservations: l.Reservations,
		Expenses:     l.Expenses,
		Config:       l.Config,
	})
	if err != nil {
		return l, err
	}
	out.CreatedAt = l.CreatedAt
	out.UpdatedAt = l.UpdatedAt
	return out, nil
}

// Issue marca la liquidación como facturada. A partir de aquí queda bloqueada.
func Issue(l entity.Liquidation, invoiceID, number string) (entity.Liquidation, error) {
	if err := Check(l, ActionIssueInvoice); err != nil {
		return l, err
	}
	if invoiceID == "" {
		return l, domain.ErrInvalidInput
	}
	l.InvoiceID = invoiceID
	l.InvoiceNumber = number
	return l, nil
}
