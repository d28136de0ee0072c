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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, user_id, owner_id, series_id, liquidation_id, number, issue_date, due_date,
	owner_snapshot, subtotal, total_vat, total_retention, grand_total, avg_retention_rate,
	notes, created_at, updated_at`

// Create persiste cabecera y líneas. El índice único (user_id, number) es la última barrera contra duplicados.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	snapshot, err := toJSON(inv.Owner)
	if err != nil {
		return err
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.OwnerID, inv.SeriesID, nullIfEmpty(inv.LiquidationID), inv.Number,
		inv.IssueDate, inv.DueDate, snapshot,
		inv.Totals.Subtotal, inv.Totals.TotalVAT, inv.Totals.TotalRetention, inv.Totals.GrandTotal,
		inv.Totals.AvgRetentionRate, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	const lineQuery = `
		INSERT INTO invoice_lines
			(id, invoice_id, position, concept, description, quantity, unit_base, unit_net, vat_rate, retention_rate, last_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range inv.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, inv.ID, l.Position, l.Concept, l.Description, l.Quantity,
			l.UnitBase, l.UnitNet, l.VATRate, l.RetentionRate, string(l.LastEdited),
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus líneas. nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func (r *InvoiceRepo) ExistsNumber(ctx context.Context, userID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE user_id = $1 AND number = $2)`,
		userID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invoice number: %w", err)
	}
	return exists, nil
}

// ListByUser devuelve cabeceras sin líneas, de la más reciente a la más antigua.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE user_id = $1
		ORDER BY issue_date DESC, number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) lines(ctx context.Context, invoiceID string) ([]entity.InvoiceLine, error) {
	const query = `
		SELECT id, invoice_id, position, concept, description, quantity,
		       unit_base, unit_net, vat_rate, retention_rate, last_edited
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		var lastEdited string
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.Concept, &l.Description, &l.Quantity,
			&l.UnitBase, &l.UnitNet, &l.VATRate, &l.RetentionRate, &lastEdited); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.LastEdited = entity.PriceField(lastEdited)
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var liquidationID *string
	var snapshot []byte
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.OwnerID, &inv.SeriesID, &liquidationID, &inv.Number,
		&inv.IssueDate, &inv.DueDate, &snapshot,
		&inv.Totals.Subtotal, &inv.Totals.TotalVAT, &inv.Totals.TotalRetention, &inv.Totals.GrandTotal,
		&inv.Totals.AvgRetentionRate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.LiquidationID = derefStr(liquidationID)
	if err := fromJSON(snapshot, &inv.Owner); err != nil {
		return nil, err
	}
	return &inv, nil
}
