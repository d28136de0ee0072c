// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con DB_DRIVER=memory para desarrollo sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type data struct {
	invoices     map[string]entity.Invoice
	series       map[string]entity.InvoiceSeries
	owners       map[string]entity.Owner
	configs      map[string]entity.BillingConfig
	liquidations map[string]entity.Liquidation
	reservations map[string]entity.Reservation
	expenses     map[string]entity.Expense
}

func newData() *data {
	return &data{
		invoices:     map[string]entity.Invoice{},
		series:       map[string]entity.InvoiceSeries{},
		owners:       map[string]entity.Owner{},
		configs:      map[string]entity.BillingConfig{},
		liquidations: map[string]entity.Liquidation{},
		reservations: map[string]entity.Reservation{},
		expenses:     map[string]entity.Expense{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.series {
		c.series[k] = v
	}
	for k, v := range d.owners {
		c.owners[k] = v
	}
	for k, v := range d.configs {
		c.configs[k] = v
	}
	for k, v := range d.liquidations {
		c.liquidations[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.expenses {
		c.expenses[k] = v
	}
	return c
}

// view acceso a un conjunto de datos: el de la tienda (con lock) o el de una transacción.
type view struct {
	with func(fn func(d *data) error) error
}

// Store base de datos en memoria con transacciones serializadas (copia y sustitución).
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	d    *data
}

// NewStore crea una tienda vacía.
func NewStore() *Store {
	return &Store{d: newData()}
}

// view fuera de transacción espera a que termine la transacción en curso.
func (s *Store) view() view {
	return view{with: func(fn func(d *data) error) error {
		s.txMu.Lock()
		defer s.txMu.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.d)
	}}
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.Repos {
	return reposFor(s.view())
}

// Run ejecuta fn sobre una copia de los datos y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	work := s.d.clone()
	s.mu.Unlock()

	tx := view{with: func(f func(d *data) error) error { return f(work) }}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.d = work
	s.mu.Unlock()
	return nil
}

func reposFor(v view) repository.Repos {
	return repository.Repos{
		Invoices:     &InvoiceRepo{v: v},
		Series:       &SeriesRepo{v: v},
		Owners:       &OwnerRepo{v: v},
		Liquidations: &LiquidationRepo{v: v},
		Reservations: &ReservationRepo{v: v},
		Expenses:     &ExpenseRepo{v: v},
	}
}

// Configs repositorio de configuraciones de facturación.
func (s *Store) Configs() *ConfigRepo {
	return &ConfigRepo{v: s.view()}
}

// ── carga de datos (importaciones externas) ──────────────────────────────────

// AddReservation registra una reserva importada.
func (s *Store) AddReservation(r entity.Reservation) {
	_ = s.view().with(func(d *data) error { d.reservations[r.ID] = r; return nil })
}

// AddExpense registra un gasto.
func (s *Store) AddExpense(e entity.Expense) {
	_ = s.view().with(func(d *data) error { d.expenses[e.ID] = e; return nil })
}

// AddSeries registra una serie.
func (s *Store) AddSeries(ser entity.InvoiceSeries) {
	_ = s.view().with(func(d *data) error { d.series[ser.ID] = ser; return nil })
}

// AddOwner registra un propietario.
func (s *Store) AddOwner(o entity.Owner) {
	_ = s.view().with(func(d *data) error { d.owners[o.ID] = o; return nil })
}

func sortReservations(list []entity.Reservation) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CheckIn.Equal(list[j].CheckIn) {
			return list[i].ID < list[j].ID
		}
		return list[i].CheckIn.Before(list[j].CheckIn)
	})
}

func sortExpenses(list []entity.Expense) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date.Equal(list[j].Date) {
			return list[i].ID < list[j].ID
		}
		return list[i].Date.Before(list[j].Date)
	})
}
