package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

var _ repository.InvoiceSeriesRepository = (*InvoiceSeriesRepo)(nil)

// InvoiceSeriesRepo implementa InvoiceSeriesRepository sobre PostgreSQL.
type InvoiceSeriesRepo struct {
	q Querier
}

// NewInvoiceSeriesRepository construye el repositorio.
func NewInvoiceSeriesRepository(q Querier) *InvoiceSeriesRepo {
	return &InvoiceSeriesRepo{q: q}
}

const seriesColumns = `id, user_id, prefix, year, current_number, is_default, type, created_at, updated_at`

func (r *InvoiceSeriesRepo) Create(ctx context.Context, s *entity.InvoiceSeries) error {
	query := `INSERT INTO invoice_series (` + seriesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Prefix, s.Year, s.CurrentNumber, s.IsDefault, s.Type, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serie %s%d: %w", s.Prefix, s.Year, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice_series: %w", err)
	}
	return nil
}

func (r *InvoiceSeriesRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceSeries, error) {
	return r.getOne(ctx, `SELECT `+seriesColumns+` FROM invoice_series WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción; serializa la numeración.
func (r *InvoiceSeriesRepo) GetForUpdate(ctx context.Context, id string) (*entity.InvoiceSeries, error) {
	return r.getOne(ctx, `SELECT `+seriesColumns+` FROM invoice_series WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceSeriesRepo) GetDefault(ctx context.Context, userID string) (*entity.InvoiceSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM invoice_series
		WHERE user_id = $1 AND is_default = true
		ORDER BY year DESC
		LIMIT 1`
	return r.getOne(ctx, query, userID)
}

func (r *InvoiceSeriesRepo) ListByUser(ctx context.Context, userID string) ([]*entity.InvoiceSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM invoice_series WHERE user_id = $1 ORDER BY prefix, year DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list invoice_series: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceSeries
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice_series: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Increment suma uno al contador y devuelve el nuevo valor.
func (r *InvoiceSeriesRepo) Increment(ctx context.Context, id string) (int64, error) {
	const query = `
		UPDATE invoice_series
		SET current_number = current_number + 1, updated_at = now()
		WHERE id = $1
		RETURNING current_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, id).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment invoice_series: %w", err)
	}
	return n, nil
}

func (r *InvoiceSeriesRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InvoiceSeries, error) {
	s, err := scanSeries(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice_series: %w", err)
	}
	return s, nil
}

func scanSeries(row pgxScanner) (*entity.InvoiceSeries, error) {
	var s entity.InvoiceSeries
	err := row.Scan(&s.ID, &s.UserID, &s.Prefix, &s.Year, &s.CurrentNumber, &s.IsDefault, &s.Type, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
