package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	"github.com/jhoicas/gestion-api/internal/infrastructure/memory"
)

func TestRun_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	s.AddSeries(entity.InvoiceSeries{ID: "s1", UserID: "u1", Prefix: "F", Year: 2026})

	boom := errors.New("boom")
	err := s.Run(ctx, func(r repository.Repos) error {
		_, err := r.Series.Increment(ctx, "s1")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Repos().Series.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentNumber, "el incremento no se publica")

	require.NoError(t, s.Run(ctx, func(r repository.Repos) error {
		_, err := r.Series.Increment(ctx, "s1")
		return err
	}))
	got, _ = s.Repos().Series.GetByID(ctx, "s1")
	assert.Equal(t, int64(1), got.CurrentNumber)
}

func TestInvoiceRepo_NumeroUnicoPorUsuario(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repos().Invoices

	require.NoError(t, r.Create(ctx, &entity.Invoice{ID: "a", UserID: "u1", Number: "F260001"}))
	assert.ErrorIs(t, r.Create(ctx, &entity.Invoice{ID: "b", UserID: "u1", Number: "F260001"}), domain.ErrDuplicateNumber)
	require.NoError(t, r.Create(ctx, &entity.Invoice{ID: "c", UserID: "u2", Number: "F260001"}), "otro usuario puede repetir")

	exists, err := r.ExistsNumber(ctx, "u1", "F260001")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, _ = r.ExistsNumber(ctx, "u1", "F260002")
	assert.False(t, exists)
}

func TestReservations_AsignarYLiberar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	s.AddReservation(entity.Reservation{ID: "r2", OwnerID: "o1", CheckIn: day(3, 20)})
	s.AddReservation(entity.Reservation{ID: "r1", OwnerID: "o1", CheckIn: day(3, 2)})
	s.AddReservation(entity.Reservation{ID: "r3", OwnerID: "o1", CheckIn: day(4, 1)})
	s.AddReservation(entity.Reservation{ID: "r4", OwnerID: "o2", CheckIn: day(3, 5)})

	repos := s.Repos()
	list, err := repos.Reservations.ListUnassigned(ctx, "o1", day(3, 1), day(4, 1))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].ID, "ordenadas por entrada")

	require.NoError(t, repos.Liquidations.Create(ctx, &entity.Liquidation{ID: "l1", OwnerID: "o1", Year: 2026, Month: 3}))
	require.NoError(t, repos.Reservations.Assign(ctx, "l1", []string{"r1", "r2"}))

	liq, err := repos.Liquidations.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, liq.Reservations, 2)

	list, _ = repos.Reservations.ListUnassigned(ctx, "o1", day(3, 1), day(4, 1))
	assert.Empty(t, list)

	require.NoError(t, repos.Reservations.Release(ctx, "l1"))
	list, _ = repos.Reservations.ListUnassigned(ctx, "o1", day(3, 1), day(4, 1))
	assert.Len(t, list, 2)
}

func TestLiquidations_BorrarFacturadaFalla(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repos().Liquidations

	require.NoError(t, r.Create(ctx, &entity.Liquidation{ID: "l1", OwnerID: "o1", Year: 2026, Month: 3, InvoiceID: "inv-1"}))
	assert.ErrorIs(t, r.Delete(ctx, "l1"), domain.ErrSettlementLocked)
	got, err := r.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, r.Create(ctx, &entity.Liquidation{ID: "l2", OwnerID: "o1", Year: 2026, Month: 4}))
	require.NoError(t, r.Delete(ctx, "l2"))
	assert.ErrorIs(t, r.Delete(ctx, "l2"), domain.ErrNotFound)
}
