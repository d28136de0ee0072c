package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository       = (*InvoiceRepo)(nil)
	_ repository.InvoiceSeriesRepository = (*SeriesRepo)(nil)
	_ repository.OwnerRepository         = (*OwnerRepo)(nil)
	_ repository.BillingConfigRepository = (*ConfigRepo)(nil)
	_ repository.LiquidationRepository   = (*LiquidationRepo)(nil)
	_ repository.ReservationRepository   = (*ReservationRepo)(nil)
	_ repository.ExpenseRepository       = (*ExpenseRepo)(nil)
)

// ── facturas ─────────────────────────────────────────────────────────────────

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ v view }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.with(func(d *data) error {
		for _, x := range d.invoices {
			if x.UserID == inv.UserID && x.Number == inv.Number {
				return domain.ErrDuplicateNumber
			}
		}
		cp := *inv
		cp.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
		d.invoices[inv.ID] = cp
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.with(func(d *data) error {
		if inv, ok := d.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) ExistsNumber(_ context.Context, userID, number string) (bool, error) {
	found := false
	err := r.v.with(func(d *data) error {
		for _, x := range d.invoices {
			if x.UserID == userID && x.Number == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *InvoiceRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	err := r.v.with(func(d *data) error {
		for _, x := range d.invoices {
			if x.UserID == userID {
				inv := x
				list = append(list, &inv)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Number > list[j].Number })
	return page(list, limit, offset), err
}

// ── series ───────────────────────────────────────────────────────────────────

// SeriesRepo series de numeración en memoria.
type SeriesRepo struct{ v view }

func (r *SeriesRepo) Create(_ context.Context, s *entity.InvoiceSeries) error {
	return r.v.with(func(d *data) error {
		for _, x := range d.series {
			if x.UserID == s.UserID && x.Prefix == s.Prefix && x.Year == s.Year {
				return domain.ErrDuplicate
			}
		}
		d.series[s.ID] = *s
		return nil
	})
}

func (r *SeriesRepo) GetByID(_ context.Context, id string) (*entity.InvoiceSeries, error) {
	var out *entity.InvoiceSeries
	err := r.v.with(func(d *data) error {
		if s, ok := d.series[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria las transacciones ya están serializadas.
func (r *SeriesRepo) GetForUpdate(ctx context.Context, id string) (*entity.InvoiceSeries, error) {
	return r.GetByID(ctx, id)
}

func (r *SeriesRepo) GetDefault(_ context.Context, userID string) (*entity.InvoiceSeries, error) {
	var out *entity.InvoiceSeries
	err := r.v.with(func(d *data) error {
		for _, s := range d.series {
			if s.UserID == userID && s.IsDefault {
				cp := s
				out = &cp
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *SeriesRepo) ListByUser(_ context.Context, userID string) ([]*entity.InvoiceSeries, error) {
	var list []*entity.InvoiceSeries
	err := r.v.with(func(d *data) error {
		for _, s := range d.series {
			if s.UserID == userID {
				cp := s
				list = append(list, &cp)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Prefix < list[j].Prefix })
	return list, err
}

func (r *SeriesRepo) Increment(_ context.Context, id string) (int64, error) {
	var n int64
	err := r.v.with(func(d *data) error {
		s, ok := d.series[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.CurrentNumber++
		s.UpdatedAt = time.Now()
		d.series[id] = s
		n = s.CurrentNumber
		return nil
	})
	return n, err
}

// ── propietarios y configuración ─────────────────────────────────────────────

// OwnerRepo propietarios en memoria.
type OwnerRepo struct{ v view }

func (r *OwnerRepo) Create(_ context.Context, o *entity.Owner) error {
	return r.v.with(func(d *data) error {
		for _, x := range d.owners {
			if x.UserID == o.UserID && x.TaxID == o.TaxID {
				return domain.ErrDuplicate
			}
		}
		d.owners[o.ID] = *o
		return nil
	})
}

func (r *OwnerRepo) GetByID(_ context.Context, id string) (*entity.Owner, error) {
	var out *entity.Owner
	err := r.v.with(func(d *data) error {
		if o, ok := d.owners[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OwnerRepo) GetByUserAndTaxID(_ context.Context, userID, taxID string) (*entity.Owner, error) {
	var out *entity.Owner
	err := r.v.with(func(d *data) error {
		for _, o := range d.owners {
			if o.UserID == userID && o.TaxID == taxID {
				cp := o
				out = &cp
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *OwnerRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Owner, error) {
	var list []*entity.Owner
	err := r.v.with(func(d *data) error {
		for _, o := range d.owners {
			if o.UserID == userID {
				cp := o
				list = append(list, &cp)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].DisplayName < list[j].DisplayName })
	return page(list, limit, offset), err
}

func (r *OwnerRepo) Update(_ context.Context, o *entity.Owner) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.owners[o.ID]; !ok {
			return domain.ErrNotFound
		}
		d.owners[o.ID] = *o
		return nil
	})
}

// ConfigRepo configuraciones de facturación en memoria.
type ConfigRepo struct{ v view }

func (r *ConfigRepo) GetByOwner(_ context.Context, ownerID string) (*entity.BillingConfig, error) {
	var out *entity.BillingConfig
	err := r.v.with(func(d *data) error {
		if c, ok := d.configs[ownerID]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ConfigRepo) Upsert(_ context.Context, cfg *entity.BillingConfig) error {
	return r.v.with(func(d *data) error {
		d.configs[cfg.OwnerID] = *cfg
		return nil
	})
}

// ── liquidaciones ────────────────────────────────────────────────────────────

// LiquidationRepo liquidaciones en memoria. Las reservas y gastos se leen de sus tablas.
type LiquidationRepo struct{ v view }

func (r *LiquidationRepo) Create(_ context.Context, l *entity.Liquidation) error {
	return r.v.with(func(d *data) error {
		for _, x := range d.liquidations {
			if x.OwnerID == l.OwnerID && x.Year == l.Year && x.Month == l.Month {
				return domain.ErrDuplicate
			}
		}
		d.liquidations[l.ID] = *l
		return nil
	})
}

func (r *LiquidationRepo) Update(_ context.Context, l *entity.Liquidation) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.liquidations[l.ID]; !ok {
			return domain.ErrNotFound
		}
		d.liquidations[l.ID] = *l
		return nil
	})
}

func (r *LiquidationRepo) GetByID(_ context.Context, id string) (*entity.Liquidation, error) {
	var out *entity.Liquidation
	err := r.v.with(func(d *data) error {
		if l, ok := d.liquidations[id]; ok {
			out = hydrate(d, l)
		}
		return nil
	})
	return out, err
}

func (r *LiquidationRepo) GetByPeriod(_ context.Context, ownerID string, year, month int) (*entity.Liquidation, error) {
	var out *entity.Liquidation
	err := r.v.with(func(d *data) error {
		for _, l := range d.liquidations {
			if l.OwnerID == ownerID && l.Year == year && l.Month == month {
				out = hydrate(d, l)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *LiquidationRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(d *data) error {
		l, ok := d.liquidations[id]
		if !ok {
			return domain.ErrNotFound
		}
		if l.Locked() {
			return domain.ErrSettlementLocked
		}
		delete(d.liquidations, id)
		return nil
	})
}

func hydrate(d *data, l entity.Liquidation) *entity.Liquidation {
	l.Reservations = nil
	for _, r := range d.reservations {
		if r.LiquidationID == l.ID {
			l.Reservations = append(l.Reservations, r)
		}
	}
	sortReservations(l.Reservations)
	l.Expenses = nil
	for _, e := range d.expenses {
		if e.LiquidationID == l.ID {
			l.Expenses = append(l.Expenses, e)
		}
	}
	sortExpenses(l.Expenses)
	return &l
}

// ReservationRepo reservas en memoria.
type ReservationRepo struct{ v view }

func (r *ReservationRepo) ListUnassigned(_ context.Context, ownerID string, from, to time.Time) ([]entity.Reservation, error) {
	var list []entity.Reservation
	err := r.v.with(func(d *data) error {
		for _, x := range d.reservations {
			if x.OwnerID == ownerID && x.LiquidationID == "" && !x.CheckIn.Before(from) && x.CheckIn.Before(to) {
				list = append(list, x)
			}
		}
		return nil
	})
	sortReservations(list)
	return list, err
}

func (r *ReservationRepo) Assign(_ context.Context, liquidationID string, ids []string) error {
	return r.v.with(func(d *data) error {
		for _, id := range ids {
			x, ok := d.reservations[id]
			if !ok {
				return domain.ErrNotFound
			}
			x.LiquidationID = liquidationID
			d.reservations[id] = x
		}
		return nil
	})
}

func (r *ReservationRepo) Release(_ context.Context, liquidationID string) error {
	return r.v.with(func(d *data) error {
		for id, x := range d.reservations {
			if x.LiquidationID == liquidationID {
				x.LiquidationID = ""
				d.reservations[id] = x
			}
		}
		return nil
	})
}

// ExpenseRepo gastos en memoria.
type ExpenseRepo struct{ v view }

func (r *ExpenseRepo) ListUnassigned(_ context.Context, ownerID string, from, to time.Time) ([]entity.Expense, error) {
	var list []entity.Expense
	err := r.v.with(func(d *data) error {
		for _, x := range d.expenses {
			if x.OwnerID == ownerID && x.LiquidationID == "" && !x.Date.Before(from) && x.Date.Before(to) {
				list = append(list, x)
			}
		}
		return nil
	})
	sortExpenses(list)
	return list, err
}

func (r *ExpenseRepo) Assign(_ context.Context, liquidationID string, ids []string) error {
	return r.v.with(func(d *data) error {
		for _, id := range ids {
			x, ok := d.expenses[id]
			if !ok {
				return domain.ErrNotFound
			}
			x.LiquidationID = liquidationID
			d.expenses[id] = x
		}
		return nil
	})
}

func (r *ExpenseRepo) Release(_ context.Context, liquidationID string) error {
	return r.v.with(func(d *data) error {
		for id, x := range d.expenses {
			if x.LiquidationID == liquidationID {
				x.LiquidationID = ""
				d.expenses[id] = x
			}
		}
		return nil
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
