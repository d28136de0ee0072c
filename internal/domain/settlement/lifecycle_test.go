package settlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/settlement"
)

var allStatuses = []entity.LiquidationStatus{
	entity.LiquidationDraft, entity.LiquidationSent, entity.LiquidationCancelled,
}

func draft(t *testing.T) entity.Liquidation {
	t.Helper()
	liq, err := settlement.Aggregate(febInput())
	require.NoError(t, err)
	return liq
}

func TestTransitionStatus_DesdeBorrador(t *testing.T) {
	out, err := settlement.TransitionStatus(draft(t), entity.LiquidationSent)
	require.NoError(t, err)
	assert.Equal(t, entity.LiquidationSent, out.Status)

	out, err = settlement.TransitionStatus(draft(t), entity.LiquidationCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.LiquidationCancelled, out.Status)

	_, err = settlement.TransitionStatus(draft(t), entity.LiquidationDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionStatus_EstadosTerminales(t *testing.T) {
	for _, from := range []entity.LiquidationStatus{entity.LiquidationSent, entity.LiquidationCancelled} {
		for _, to := range allStatuses {
			l := draft(t)
			l.Status = from
			_, err := settlement.TransitionStatus(l, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", from, to)
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
}

// Con factura emitida, recalcular y cambiar de estado fallan siempre.
func TestBloqueo_TodosLosEstados(t *testing.T) {
	for _, status := range allStatuses {
		for _, to := range allStatuses {
			l := draft(t)
			l.Status = status
			l.InvoiceID = "inv-1"

			_, err := settlement.TransitionStatus(l, to)
			assert.ErrorIs(t, err, domain.ErrSettlementLocked, "transición %s → %s", status, to)
		}
		l := draft(t)
		l.Status = status
		l.InvoiceID = "inv-1"
		_, err := settlement.Recalculate(l)
		assert.ErrorIs(t, err, domain.ErrSettlementLocked, "recalcular en %s", status)
	}
}

func TestCheck_Tabla(t *testing.T) {
	cases := []struct {
		status entity.LiquidationStatus
		locked bool
		action settlement.Action
		want   error
	}{
		{entity.LiquidationDraft, false, settlement.ActionRecalculate, nil},
		{entity.LiquidationDraft, false, settlement.ActionEdit, nil},
		{entity.LiquidationDraft, false, settlement.ActionDelete, nil},
		{entity.LiquidationDraft, false, settlement.ActionIssueInvoice, nil},
		{entity.LiquidationDraft, false, settlement.ActionSend, nil},

		{entity.LiquidationDraft, true, settlement.ActionRecalculate, domain.ErrSettlementLocked},
		{entity.LiquidationDraft, true, settlement.ActionEdit, domain.ErrSettlementLocked},
		{entity.LiquidationDraft, true, settlement.ActionDelete, domain.ErrSettlementLocked},
		{entity.LiquidationDraft, true, settlement.ActionIssueInvoice, domain.ErrAlreadyIssued},
		{entity.LiquidationDraft, true, settlement.ActionSend, nil},

		{entity.LiquidationSent, false, settlement.ActionRecalculate, domain.ErrInvalidTransition},
		{entity.LiquidationSent, false, settlement.ActionDelete, domain.ErrAlreadySent},
		{entity.LiquidationSent, false, settlement.ActionIssueInvoice, domain.ErrInvalidTransition},
		{entity.LiquidationSent, false, settlement.ActionSend, domain.ErrAlreadySent},
		{entity.LiquidationSent, true, settlement.ActionSend, domain.ErrAlreadySent},

		{entity.LiquidationCancelled, false, settlement.ActionRecalculate, domain.ErrInvalidTransition},
		{entity.LiquidationCancelled, false, settlement.ActionDelete, nil},
		{entity.LiquidationCancelled, false, settlement.ActionIssueInvoice, domain.ErrInvalidTransition},
		{entity.LiquidationCancelled, false, settlement.ActionSend, domain.ErrInvalidTransition},
	}
	for _, c := range cases {
		l := entity.Liquidation{Status: c.status}
		if c.locked {
			l.InvoiceID = "inv-1"
		}
		err := settlement.Check(l, c.action)
		if c.want == nil {
			assert.NoError(t, err, "%s locked=%v %s", c.status, c.locked, c.action)
			assert.True(t, settlement.Allowed(l, c.action))
			continue
		}
		assert.ErrorIs(t, err, c.want, "%s locked=%v %s", c.status, c.locked, c.action)
	}
}

func TestRecalculate_RegeneraTotales(t *testing.T) {
	l := draft(t)
	l.Reservations = append(l.Reservations, entity.Reservation{ID: "r4", Property: "Ático Sol", Nights: 2, GrossHostEarnings: d("200")})

	out, err := settlement.Recalculate(l)
	require.NoError(t, err)
	assertDec(t, "2100", out.Totals.TotalIncome, "ingresos con la nueva reserva")
	assertDec(t, "15", out.Stats.RetentionRate, "conserva la retención guardada")
	assertDec(t, "400", out.Totals.TotalCommission, "comisión")
	assertDec(t, "60", out.Totals.TotalRetention, "retención")
	assert.Equal(t, l.ID, out.ID)
}

func TestIssueYEnvio(t *testing.T) {
	l, err := settlement.Issue(draft(t), "inv-9", "F260009")
	require.NoError(t, err)
	assert.True(t, l.Locked())
	assert.Equal(t, entity.LiquidationDraft, l.Status, "facturar no cambia el estado")

	_, err = settlement.Issue(l, "inv-10", "F260010")
	assert.ErrorIs(t, err, domain.ErrAlreadyIssued)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	sent, err := settlement.MarkSent(l, now)
	require.NoError(t, err)
	assert.Equal(t, entity.LiquidationSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.True(t, sent.SentAt.Equal(now))

	_, err = settlement.MarkSent(sent, now)
	assert.ErrorIs(t, err, domain.ErrAlreadySent)
}
