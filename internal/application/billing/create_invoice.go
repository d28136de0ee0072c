package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// InvoiceDraft datos ya validados para emitir una factura dentro de una transacción.
type InvoiceDraft struct {
	UserID        string
	Owner         *entity.Owner
	SeriesID      string // vacío => serie por defecto del usuario
	Number        string // vacío => número propuesto por la serie
	LiquidationID string
	IssueDate     time.Time
	DueDate       *time.Time
	Notes         string
	Lines         []entity.InvoiceLine
}

// CreateInvoiceUseCase crea facturas numeradas por serie.
// El número se vuelve a validar dentro de la transacción: la vista previa no garantiza unicidad.
type CreateInvoiceUseCase struct {
	txRunner    repository.TxRunner
	ownerRepo   repository.OwnerRepository
	invoiceRepo repository.InvoiceRepository
	rates       invoicing.RateCatalog
	log         *logger.Logger
	now         func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner repository.TxRunner,
	ownerRepo repository.OwnerRepository,
	invoiceRepo repository.InvoiceRepository,
	rates invoicing.RateCatalog,
	log *logger.Logger,
) *CreateInvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		ownerRepo:   ownerRepo,
		invoiceRepo: invoiceRepo,
		rates:       rates,
		log:         log.Component("invoices"),
		now:         time.Now,
	}
}

// CreateInvoice valida la petición y emite la factura en una sola transacción.
// Sin serie se usa la serie por defecto del usuario.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, domain.ErrOwnerRequired
	}
	now := uc.now()
	issue, err := parseDate(in.IssueDate, now)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de emisión", domain.ErrInvalidInput)
	}
	var due *time.Time
	if in.DueDate != "" {
		d, err := parseDate(in.DueDate, now)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha de vencimiento", domain.ErrInvalidInput)
		}
		due = &d
	}

	owner, err := uc.ownerRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}
	if owner.UserID != userID {
		return nil, domain.ErrForbidden
	}

	var inv *entity.Invoice
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		inv, err = uc.IssueInTx(ctx, r, InvoiceDraft{
			UserID:    userID,
			Owner:     owner,
			SeriesID:  strings.TrimSpace(in.SeriesID),
			Number:    in.Number,
			IssueDate: issue,
			DueDate:   due,
			Notes:     in.Notes,
			Lines:     LinesFromDTO(in.Lines),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return InvoiceToResponse(inv), nil
}

// IssueInTx emite la factura con los repositorios de la transacción del llamador:
// bloquea la serie, resuelve el número, comprueba duplicados, guarda e incrementa el contador
// solo si el número salió de la serie.
func (uc *CreateInvoiceUseCase) IssueInTx(ctx context.Context, r repository.Repos, d InvoiceDraft) (*entity.Invoice, error) {
	if d.Owner == nil {
		return nil, domain.ErrOwnerRequired
	}
	lines, totals, err := invoicing.PrepareSubmission(d.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.rates.Validate(lines); err != nil {
		return nil, err
	}

	series, err := uc.lockSeries(ctx, r, d.UserID, d.SeriesID)
	if err != nil {
		return nil, err
	}

	proposed := invoicing.ProposeNumber(*series)
	number := strings.TrimSpace(d.Number)
	if number == "" {
		number = proposed
	}
	fromSeries := number == proposed

	exists, err := r.Invoices.ExistsNumber(ctx, d.UserID, number)
	if err != nil {
		return nil, fmt.Errorf("check invoice number: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateNumber
	}

	now := uc.now()
	invoiceID := uuid.New().String()
	for i := range lines {
		lines[i].InvoiceID = invoiceID
		if lines[i].ID == "" || !isUUID(lines[i].ID) {
			lines[i].ID = uuid.New().String()
		}
	}
	issue := d.IssueDate
	if issue.IsZero() {
		issue = now
	}
	inv := &entity.Invoice{
		ID:            invoiceID,
		UserID:        d.UserID,
		OwnerID:       d.Owner.ID,
		SeriesID:      series.ID,
		LiquidationID: d.LiquidationID,
		Number:        number,
		IssueDate:     issue,
		DueDate:       d.DueDate,
		Owner:         d.Owner.Snapshot(),
		Lines:         lines,
		Totals:        totals,
		Notes:         d.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	if fromSeries {
		if _, err := r.Series.Increment(ctx, series.ID); err != nil {
			return nil, fmt.Errorf("increment series: %w", err)
		}
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Bool("from_series", fromSeries).
		Str("grand_total", totals.GrandTotal.StringFixed(2)).
		Msg("factura emitida")
	return inv, nil
}

// GetByID devuelve la factura si pertenece al usuario.
func (uc *CreateInvoiceUseCase) GetByID(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return InvoiceToResponse(inv), nil
}

// List lista las facturas del usuario sin líneas.
func (uc *CreateInvoiceUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, InvoiceToResponse(inv))
	}
	return out, nil
}

func (uc *CreateInvoiceUseCase) lockSeries(ctx context.Context, r repository.Repos, userID, seriesID string) (*entity.InvoiceSeries, error) {
	if seriesID == "" {
		def, err := r.Series.GetDefault(ctx, userID)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, domain.ErrSeriesRequired
		}
		seriesID = def.ID
	}
	series, err := r.Series.GetForUpdate(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, domain.ErrNotFound
	}
	if series.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return series, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
