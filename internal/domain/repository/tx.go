package repository

import "context"

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Invoices     InvoiceRepository
	Series       InvoiceSeriesRepository
	Owners       OwnerRepository
	Liquidations LiquidationRepository
	Reservations ReservationRepository
	Expenses     ExpenseRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
