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

var (
	_ repository.OwnerRepository         = (*OwnerRepo)(nil)
	_ repository.BillingConfigRepository = (*BillingConfigRepo)(nil)
)

// OwnerRepo implementación de OwnerRepository.
type OwnerRepo struct {
	q Querier
}

// NewOwnerRepository construye el adaptador.
func NewOwnerRepository(q Querier) *OwnerRepo {
	return &OwnerRepo{q: q}
}

const ownerColumns = `id, user_id, kind, tax_id, display_name, email, address, retention_rate, created_at, updated_at`

func (r *OwnerRepo) Create(ctx context.Context, o *entity.Owner) error {
	query := `INSERT INTO owners (` + ownerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.UserID, string(o.Kind), o.TaxID, o.DisplayName, o.Email, o.Address, o.RetentionRate,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("propietario %s: %w", o.TaxID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

func (r *OwnerRepo) GetByID(ctx context.Context, id string) (*entity.Owner, error) {
	return r.getOne(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id)
}

func (r *OwnerRepo) GetByUserAndTaxID(ctx context.Context, userID, taxID string) (*entity.Owner, error) {
	return r.getOne(ctx, `SELECT `+ownerColumns+` FROM owners WHERE user_id = $1 AND tax_id = $2`, userID, taxID)
}

func (r *OwnerRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Owner, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE user_id = $1 ORDER BY display_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Owner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OwnerRepo) Update(ctx context.Context, o *entity.Owner) error {
	const query = `
		UPDATE owners
		SET kind = $2, tax_id = $3, display_name = $4, email = $5, address = $6,
		    retention_rate = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, string(o.Kind), o.TaxID, o.DisplayName, o.Email, o.Address, o.RetentionRate, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("propietario %s: %w", o.TaxID, domain.ErrDuplicate)
		}
		return fmt.Errorf("update owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OwnerRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Owner, error) {
	o, err := scanOwner(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return o, nil
}

func scanOwner(row pgxScanner) (*entity.Owner, error) {
	var o entity.Owner
	var kind string
	err := row.Scan(&o.ID, &o.UserID, &kind, &o.TaxID, &o.DisplayName, &o.Email, &o.Address,
		&o.RetentionRate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Kind = entity.OwnerKind(kind)
	return &o, nil
}

// ── configuración de facturación ─────────────────────────────────────────────

// BillingConfigRepo una fila por propietario.
type BillingConfigRepo struct {
	q Querier
}

// NewBillingConfigRepository construye el adaptador.
func NewBillingConfigRepository(q Querier) *BillingConfigRepo {
	return &BillingConfigRepo{q: q}
}

func (r *BillingConfigRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.BillingConfig, error) {
	const query = `
		SELECT id, owner_id, commission_type, commission_value, commission_vat_rate,
		       cleaning_type, cleaning_value, monthly_fee, monthly_fee_vat_rate
		FROM billing_configs WHERE owner_id = $1`
	var c entity.BillingConfig
	err := r.q.QueryRow(ctx, query, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.CommissionType, &c.CommissionValue, &c.CommissionVATRate,
		&c.CleaningType, &c.CleaningValue, &c.MonthlyFee, &c.MonthlyFeeVATRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing_config: %w", err)
	}
	return &c, nil
}

func (r *BillingConfigRepo) Upsert(ctx context.Context, c *entity.BillingConfig) error {
	const query = `
		INSERT INTO billing_configs
			(id, owner_id, commission_type, commission_value, commission_vat_rate,
			 cleaning_type, cleaning_value, monthly_fee, monthly_fee_vat_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id) DO UPDATE
		SET commission_type      = EXCLUDED.commission_type,
		    commission_value     = EXCLUDED.commission_value,
		    commission_vat_rate  = EXCLUDED.commission_vat_rate,
		    cleaning_type        = EXCLUDED.cleaning_type,
		    cleaning_value       = EXCLUDED.cleaning_value,
		    monthly_fee          = EXCLUDED.monthly_fee,
		    monthly_fee_vat_rate = EXCLUDED.monthly_fee_vat_rate`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OwnerID, c.CommissionType, c.CommissionValue, c.CommissionVATRate,
		c.CleaningType, c.CleaningValue, c.MonthlyFee, c.MonthlyFeeVATRate,
	)
	if err != nil {
		return fmt.Errorf("upsert billing_config: %w", err)
	}
	return nil
}
