package settlement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	"github.com/jhoicas/gestion-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

const userID = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func p(s string) *decimal.Decimal { v := d(s); return &v }

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) NotifyOwner(_ context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, id)
	return nil
}

type fixture struct {
	store    *memory.Store
	uc       *settlement.LiquidationUseCase
	notifier *recordingNotifier
	locker   *settlement.LocalLocker
	deps     settlement.Deps
}

func day(m time.Month, dd int) time.Time { return time.Date(2026, m, dd, 0, 0, 0, 0, time.UTC) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	s.AddOwner(entity.Owner{ID: "own-1", UserID: userID, Kind: entity.OwnerCompany, TaxID: "B1", DisplayName: "Playa SL"})
	s.AddSeries(entity.InvoiceSeries{ID: "ser-1", UserID: userID, Prefix: "F", Year: 2026, IsDefault: true})
	require.NoError(t, s.Configs().Upsert(ctx, &entity.BillingConfig{
		OwnerID:           "own-1",
		CommissionType:    entity.CommissionPercentage,
		CommissionValue:   d("20"),
		CommissionVATRate: d("21"),
		CleaningType:      entity.CleaningFixedPerReservation,
		CleaningValue:     d("50"),
	}))
	s.AddReservation(entity.Reservation{ID: "r1", OwnerID: "own-1", Property: "Casa Mar", CheckIn: day(2, 1), Nights: 10, GrossHostEarnings: d("1000")})
	s.AddReservation(entity.Reservation{ID: "r2", OwnerID: "own-1", Property: "Ático Sol", CheckIn: day(2, 3), Nights: 5, GrossHostEarnings: d("500"), CleaningAmount: p("30")})
	s.AddReservation(entity.Reservation{ID: "r3", OwnerID: "own-1", Property: "Casa Mar", CheckIn: day(2, 20), Nights: 4, GrossHostEarnings: d("400"), CommissionFixedAmount: p("60")})
	s.AddReservation(entity.Reservation{ID: "r9", OwnerID: "own-1", Property: "Casa Mar", CheckIn: day(3, 1), Nights: 2, GrossHostEarnings: d("999")})
	s.AddExpense(entity.Expense{ID: "e1", OwnerID: "own-1", Property: "Casa Mar", Amount: d("100"), VATAmount: d("21"), Date: day(2, 10)})
	s.AddExpense(entity.Expense{ID: "e2", OwnerID: "own-1", Property: "Estudio Centro", Amount: d("10"), VATAmount: d("0"), Date: day(2, 11)})

	repos := s.Repos()
	issuer := billing.NewCreateInvoiceUseCase(s, repos.Owners, repos.Invoices, invoicing.SpanishRates(), logger.Nop())
	n := &recordingNotifier{}
	l := settlement.NewLocalLocker()
	deps := settlement.Deps{
		TxRunner:     s,
		Owners:       repos.Owners,
		Configs:      s.Configs(),
		Liquidations: repos.Liquidations,
		Reservations: repos.Reservations,
		Expenses:     repos.Expenses,
		Issuer:       issuer,
		Locker:       l,
		Notifier:     n,
		Log:          logger.Nop(),
	}
	uc := settlement.NewLiquidationUseCase(deps)
	return &fixture{store: s, uc: uc, notifier: n, locker: l, deps: deps}
}

func feb() dto.GenerateLiquidationRequest {
	return dto.GenerateLiquidationRequest{OwnerID: "own-1", Year: 2026, Month: 2}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", liq.Status)
	assert.Len(t, liq.Groups, 3)
	assert.True(t, liq.Totals.TotalIncome.Equal(d("1900")), "la reserva de marzo no entra")
	assert.True(t, liq.Totals.TotalAmount.Equal(d("1203.4")))
	assert.True(t, liq.Totals.TotalRetention.Equal(d("54")))
	assert.Equal(t, 34, liq.Stats.OccupancyRate)

	left, err := f.store.Repos().Reservations.ListUnassigned(ctx, "own-1", day(2, 1), day(3, 1))
	require.NoError(t, err)
	assert.Empty(t, left, "las reservas quedan asignadas")
}

func TestGenerate_ReemplazaBorrador(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)
	f.store.AddReservation(entity.Reservation{ID: "r4", OwnerID: "own-1", Property: "Ático Sol", CheckIn: day(2, 25), Nights: 2, GrossHostEarnings: d("200")})

	second, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.Totals.TotalIncome.Equal(d("2100")), "incluye las reservas del borrador y la nueva")

	_, err = f.uc.Get(ctx, userID, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// pausedPeriodRepo devuelve la lectura del periodo y espera antes de entregarla.
type pausedPeriodRepo struct {
	repository.LiquidationRepository
	read   chan struct{}
	resume chan struct{}
}

func (r *pausedPeriodRepo) GetByPeriod(ctx context.Context, ownerID string, year, month int) (*entity.Liquidation, error) {
	l, err := r.LiquidationRepository.GetByPeriod(ctx, ownerID, year, month)
	close(r.read)
	<-r.resume
	return l, err
}

func TestGenerate_NoReemplazaBorradorFacturadoEntreTanto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	draft, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	paused := &pausedPeriodRepo{LiquidationRepository: f.deps.Liquidations, read: make(chan struct{}), resume: make(chan struct{})}
	deps := f.deps
	deps.Liquidations = paused
	regen := settlement.NewLiquidationUseCase(deps)

	done := make(chan error, 1)
	go func() {
		_, err := regen.Generate(ctx, userID, feb())
		done <- err
	}()
	<-paused.read

	inv, err := f.uc.IssueInvoice(ctx, userID, draft.ID, dto.IssueLiquidationInvoiceRequest{})
	close(paused.resume)
	require.NoError(t, err)
	err = <-done
	assert.ErrorIs(t, err, domain.ErrSettlementLocked)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.uc.Get(ctx, userID, draft.ID)
	require.NoError(t, err, "la liquidación facturada sigue existiendo")
	assert.True(t, got.Locked)
	assert.Equal(t, inv.Number, got.InvoiceNumber)

	cur, err := f.store.Repos().Liquidations.GetByPeriod(ctx, "own-1", 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, cur.ID, "no se crea un borrador nuevo sobre las mismas reservas")
	left, err := f.store.Repos().Reservations.ListUnassigned(ctx, "own-1", day(2, 1), day(3, 1))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestGenerate_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Generate(ctx, userID, dto.GenerateLiquidationRequest{OwnerID: "own-1", Year: 2026, Month: 0})
	assert.ErrorIs(t, err, domain.ErrPeriodRequired)

	_, err = f.uc.Generate(ctx, userID, dto.GenerateLiquidationRequest{Year: 2026, Month: 2})
	assert.ErrorIs(t, err, domain.ErrOwnerRequired)

	_, err = f.uc.Generate(ctx, "otro", feb())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCicloDeVida_FacturaBloquea(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	inv, err := f.uc.IssueInvoice(ctx, userID, liq.ID, dto.IssueLiquidationInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "F260001", inv.Number, "serie por defecto")
	assert.Equal(t, liq.ID, inv.LiquidationID)
	assert.Len(t, inv.Lines, 3)
	assert.True(t, inv.Totals.TotalRetention.Equal(d("54")))

	got, err := f.uc.Get(ctx, userID, liq.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.Equal(t, "DRAFT", got.Status)
	assert.Equal(t, inv.ID, got.InvoiceID)

	_, err = f.uc.Recalculate(ctx, userID, liq.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementLocked)
	for _, to := range []entity.LiquidationStatus{entity.LiquidationDraft, entity.LiquidationSent, entity.LiquidationCancelled} {
		_, err = f.uc.TransitionStatus(ctx, userID, liq.ID, to)
		assert.ErrorIs(t, err, domain.ErrSettlementLocked, "a %s", to)
	}
	assert.ErrorIs(t, f.uc.Delete(ctx, userID, liq.ID), domain.ErrSettlementLocked)
	_, err = f.uc.IssueInvoice(ctx, userID, liq.ID, dto.IssueLiquidationInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyIssued)
	_, err = f.uc.Generate(ctx, userID, feb())
	assert.ErrorIs(t, err, domain.ErrConflict)

	sent, err := f.uc.Send(ctx, userID, liq.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", sent.Status)
	assert.NotEmpty(t, sent.SentAt)
	assert.Equal(t, []string{liq.ID}, f.notifier.ids)

	_, err = f.uc.Send(ctx, userID, liq.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadySent)
}

func TestCicloDeVida_CancelarYBorrar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	out, err := f.uc.TransitionStatus(ctx, userID, liq.ID, entity.LiquidationCancelled)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	assert.Empty(t, f.notifier.ids, "cancelar no avisa")

	_, err = f.uc.Recalculate(ctx, userID, liq.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, f.uc.Delete(ctx, userID, liq.ID))
	left, err := f.store.Repos().Reservations.ListUnassigned(ctx, "own-1", day(2, 1), day(3, 1))
	require.NoError(t, err)
	assert.Len(t, left, 3, "las reservas vuelven a estar disponibles")
}

func TestRecalculate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	out, err := f.uc.Recalculate(ctx, userID, liq.ID)
	require.NoError(t, err)
	assert.True(t, out.Totals.TotalAmount.Equal(liq.Totals.TotalAmount))
	assert.Equal(t, liq.ID, out.ID)
}

func TestTransitionStatus_EnviarAvisa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	out, err := f.uc.TransitionStatus(ctx, userID, liq.ID, entity.LiquidationSent)
	require.NoError(t, err)
	assert.Equal(t, "SENT", out.Status)
	assert.Equal(t, []string{liq.ID}, f.notifier.ids)
}

func TestLiquidacionOcupada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	release, err := f.locker.Acquire(ctx, "liquidation:"+liq.ID)
	require.NoError(t, err)
	_, err = f.uc.Recalculate(ctx, userID, liq.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementBusy)
	release()

	_, err = f.uc.Recalculate(ctx, userID, liq.ID)
	assert.NoError(t, err)
}

func TestGet_OtroUsuario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	liq, err := f.uc.Generate(ctx, userID, feb())
	require.NoError(t, err)

	_, err = f.uc.Get(ctx, "otro", liq.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
