package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

var (
	_ repository.LiquidationRepository = (*LiquidationRepo)(nil)
	_ repository.ReservationRepository = (*ReservationRepo)(nil)
	_ repository.ExpenseRepository     = (*ExpenseRepo)(nil)
)

// LiquidationRepo guarda la liquidación con grupos, totales, estadísticas y configuración en JSONB.
// Reservas y gastos viven en sus tablas y se enlazan por liquidation_id.
type LiquidationRepo struct {
	q Querier
}

// NewLiquidationRepository construye el adaptador.
func NewLiquidationRepository(q Querier) *LiquidationRepo {
	return &LiquidationRepo{q: q}
}

const liquidationColumns = `
	id, user_id, owner_id, year, month, status, invoice_id, invoice_number,
	config, groups, totals, stats, sent_at, created_at, updated_at`

type liquidationDocs struct {
	config, groups, totals, stats []byte
}

func marshalDocs(l *entity.Liquidation) (liquidationDocs, error) {
	var d liquidationDocs
	var err error
	if d.config, err = toJSON(l.Config); err != nil {
		return d, err
	}
	if d.groups, err = toJSON(l.Groups); err != nil {
		return d, err
	}
	if d.totals, err = toJSON(l.Totals); err != nil {
		return d, err
	}
	d.stats, err = toJSON(l.Stats)
	return d, err
}

func (r *LiquidationRepo) Create(ctx context.Context, l *entity.Liquidation) error {
	docs, err := marshalDocs(l)
	if err != nil {
		return err
	}
	query := `INSERT INTO liquidations (` + liquidationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		l.ID, l.UserID, l.OwnerID, l.Year, l.Month, string(l.Status),
		nullIfEmpty(l.InvoiceID), nullIfEmpty(l.InvoiceNumber),
		docs.config, docs.groups, docs.totals, docs.stats,
		l.SentAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("liquidación %02d/%d: %w", l.Month, l.Year, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert liquidation: %w", err)
	}
	return nil
}

func (r *LiquidationRepo) Update(ctx context.Context, l *entity.Liquidation) error {
	docs, err := marshalDocs(l)
	if err != nil {
		return err
	}
	const query = `
		UPDATE liquidations
		SET status = $2, invoice_id = $3, invoice_number = $4,
		    config = $5, groups = $6, totals = $7, stats = $8,
		    sent_at = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, string(l.Status), nullIfEmpty(l.InvoiceID), nullIfEmpty(l.InvoiceNumber),
		docs.config, docs.groups, docs.totals, docs.stats,
		l.SentAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update liquidation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LiquidationRepo) GetByID(ctx context.Context, id string) (*entity.Liquidation, error) {
	return r.getOne(ctx, `SELECT `+liquidationColumns+` FROM liquidations WHERE id = $1`, id)
}

func (r *LiquidationRepo) GetByPeriod(ctx context.Context, ownerID string, year, month int) (*entity.Liquidation, error) {
	query := `SELECT ` + liquidationColumns + ` FROM liquidations WHERE owner_id = $1 AND year = $2 AND month = $3`
	return r.getOne(ctx, query, ownerID, year, month)
}

func (r *LiquidationRepo) Delete(ctx context.Context, id string) error {
	// Una liquidación facturada no se borra aunque el llamador venga con una lectura antigua.
	tag, err := r.q.Exec(ctx, `DELETE FROM liquidations WHERE id = $1 AND invoice_id IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete liquidation: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var locked bool
	err = r.q.QueryRow(ctx, `SELECT invoice_id IS NOT NULL FROM liquidations WHERE id = $1`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete liquidation: %w", err)
	}
	return domain.ErrSettlementLocked
}

func (r *LiquidationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Liquidation, error) {
	l, err := scanLiquidation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get liquidation: %w", err)
	}
	if l.Reservations, err = listReservations(ctx, r.q, `WHERE liquidation_id = $1`, l.ID); err != nil {
		return nil, err
	}
	if l.Expenses, err = listExpenses(ctx, r.q, `WHERE liquidation_id = $1`, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

func scanLiquidation(row pgxScanner) (*entity.Liquidation, error) {
	var l entity.Liquidation
	var status string
	var invoiceID, invoiceNumber *string
	var docs liquidationDocs
	err := row.Scan(
		&l.ID, &l.UserID, &l.OwnerID, &l.Year, &l.Month, &status, &invoiceID, &invoiceNumber,
		&docs.config, &docs.groups, &docs.totals, &docs.stats,
		&l.SentAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.LiquidationStatus(status)
	l.InvoiceID = derefStr(invoiceID)
	l.InvoiceNumber = derefStr(invoiceNumber)
	for _, doc := range []struct {
		b []byte
		v any
	}{
		{docs.config, &l.Config},
		{docs.groups, &l.Groups},
		{docs.totals, &l.Totals},
		{docs.stats, &l.Stats},
	} {
		if err := fromJSON(doc.b, doc.v); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

// ── reservas ─────────────────────────────────────────────────────────────────

// ReservationRepo reservas importadas.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador.
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, owner_id, liquidation_id, property, confirmation_code, guest_name, check_in, check_out,
	nights, gross_host_earnings, cleaning_amount, commission_rate, commission_fixed_amount, commission_vat_rate`

// ListUnassigned reservas con entrada en [from, to) sin liquidación.
func (r *ReservationRepo) ListUnassigned(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Reservation, error) {
	return listReservations(ctx, r.q,
		`WHERE owner_id = $1 AND liquidation_id IS NULL AND check_in >= $2 AND check_in < $3`,
		ownerID, from, to)
}

func (r *ReservationRepo) Assign(ctx context.Context, liquidationID string, ids []string) error {
	return assign(ctx, r.q, "reservations", liquidationID, ids)
}

func (r *ReservationRepo) Release(ctx context.Context, liquidationID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE reservations SET liquidation_id = NULL WHERE liquidation_id = $1`, liquidationID); err != nil {
		return fmt.Errorf("release reservations: %w", err)
	}
	return nil
}

func listReservations(ctx context.Context, q Querier, where string, args ...any) ([]entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ` + where + ` ORDER BY check_in, id`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []entity.Reservation
	for rows.Next() {
		var x entity.Reservation
		var liquidationID *string
		if err := rows.Scan(
			&x.ID, &x.OwnerID, &liquidationID, &x.Property, &x.ConfirmationCode, &x.GuestName,
			&x.CheckIn, &x.CheckOut, &x.Nights, &x.GrossHostEarnings,
			&x.CleaningAmount, &x.CommissionRate, &x.CommissionFixedAmount, &x.CommissionVATRate,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		x.LiquidationID = derefStr(liquidationID)
		list = append(list, x)
	}
	return list, rows.Err()
}

// ── gastos ───────────────────────────────────────────────────────────────────

// ExpenseRepo gastos repercutibles.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// ListUnassigned gastos con fecha en [from, to) sin liquidación.
func (r *ExpenseRepo) ListUnassigned(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Expense, error) {
	return listExpenses(ctx, r.q,
		`WHERE owner_id = $1 AND liquidation_id IS NULL AND date >= $2 AND date < $3`,
		ownerID, from, to)
}

func (r *ExpenseRepo) Assign(ctx context.Context, liquidationID string, ids []string) error {
	return assign(ctx, r.q, "expenses", liquidationID, ids)
}

func (r *ExpenseRepo) Release(ctx context.Context, liquidationID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE expenses SET liquidation_id = NULL WHERE liquidation_id = $1`, liquidationID); err != nil {
		return fmt.Errorf("release expenses: %w", err)
	}
	return nil
}

func listExpenses(ctx context.Context, q Querier, where string, args ...any) ([]entity.Expense, error) {
	query := `SELECT id, owner_id, liquidation_id, property, concept, category, amount, vat_amount, date
		FROM expenses ` + where + ` ORDER BY date, id`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []entity.Expense
	for rows.Next() {
		var e entity.Expense
		var liquidationID *string
		if err := rows.Scan(&e.ID, &e.OwnerID, &liquidationID, &e.Property, &e.Concept, &e.Category,
			&e.Amount, &e.VATAmount, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.LiquidationID = derefStr(liquidationID)
		list = append(list, e)
	}
	return list, rows.Err()
}

// assign enlaza filas a la liquidación; falla si alguna ya no está libre.
func assign(ctx context.Context, q Querier, table, liquidationID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE ` + table + ` SET liquidation_id = $1 WHERE id = ANY($2) AND liquidation_id IS NULL`
	tag, err := q.Exec(ctx, query, liquidationID, ids)
	if err != nil {
		return fmt.Errorf("assign %s: %w", table, err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("assign %s: %w", table, domain.ErrConflict)
	}
	return nil
}
