// Package jobs tareas en segundo plano sobre asynq.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskNotifyOwner aviso al propietario de una liquidación enviada.
	TaskNotifyOwner = "liquidation:notify_owner"
)

// NotifyOwnerPayload datos de la tarea.
type NotifyOwnerPayload struct {
	LiquidationID string `json:"liquidation_id"`
}

// NewNotifyOwnerTask construye la tarea asynq.
func NewNotifyOwnerTask(liquidationID string) (*asynq.Task, error) {
	data, err := json.Marshal(NotifyOwnerPayload{LiquidationID: liquidationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyOwner, data), nil
}

// OwnerSender entrega el aviso (correo, portal del propietario, ...).
type OwnerSender interface {
	SendSettlement(ctx context.Context, owner *entity.Owner, l *entity.Liquidation) error
}

// LogSender OwnerSender que solo deja constancia en el log.
type LogSender struct {
	Log *logger.Logger
}

// SendSettlement registra el aviso.
func (s LogSender) SendSettlement(_ context.Context, owner *entity.Owner, l *entity.Liquidation) error {
	s.Log.Liquidation(l.ID).Info().
		Str("owner_id", owner.ID).
		Str("email", owner.Email).
		Str("total_amount", l.Totals.TotalAmount.StringFixed(2)).
		Msg("aviso de liquidación al propietario")
	return nil
}

// NotifyOwnerHandler procesa TaskNotifyOwner.
type NotifyOwnerHandler struct {
	liquidations repository.LiquidationRepository
	owners       repository.OwnerRepository
	sender       OwnerSender
	log          *logger.Logger
}

// NewNotifyOwnerHandler construye el handler.
func NewNotifyOwnerHandler(liquidations repository.LiquidationRepository, owners repository.OwnerRepository, sender OwnerSender, log *logger.Logger) *NotifyOwnerHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &NotifyOwnerHandler{liquidations: liquidations, owners: owners, sender: sender, log: log.Component("jobs")}
}

// ProcessTask implementa asynq.Handler. Payload inválido o liquidación inexistente no se reintentan.
func (h *NotifyOwnerHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p NotifyOwnerPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.LiquidationID == "" {
		return fmt.Errorf("%w: payload inválido", asynq.SkipRetry)
	}
	l, err := h.liquidations.GetByID(ctx, p.LiquidationID)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("liquidación %s: %w: %w", p.LiquidationID, domain.ErrNotFound, asynq.SkipRetry)
	}
	if l.Status != entity.LiquidationSent {
		h.log.Liquidation(l.ID).Warn().Str("status", string(l.Status)).Msg("liquidación no enviada; se omite el aviso")
		return nil
	}
	owner, err := h.owners.GetByID(ctx, l.OwnerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return fmt.Errorf("propietario %s: %w: %w", l.OwnerID, domain.ErrNotFound, asynq.SkipRetry)
	}
	return h.sender.SendSettlement(ctx, owner, l)
}
