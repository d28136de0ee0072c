package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

// SeriesUseCase series de numeración y propuesta de número.
type SeriesUseCase struct {
	repo  repository.InvoiceSeriesRepository
	guard *NumberGuard
}

// NewSeriesUseCase construye el caso de uso.
func NewSeriesUseCase(repo repository.InvoiceSeriesRepository, guard *NumberGuard) *SeriesUseCase {
	return &SeriesUseCase{repo: repo, guard: guard}
}

// Create crea una serie nueva.
func (uc *SeriesUseCase) Create(ctx context.Context, userID string, in dto.CreateSeriesRequest) (*dto.SeriesResponse, error) {
	prefix := strings.ToUpper(strings.TrimSpace(in.Prefix))
	if prefix == "" || in.CurrentNumber < 0 {
		return nil, domain.ErrInvalidInput
	}
	typ := strings.ToUpper(in.Type)
	if typ == "" {
		typ = entity.SeriesTypeStandard
	}
	now := time.Now()
	s := &entity.InvoiceSeries{
		ID:            uuid.New().String(),
		UserID:        userID,
		Prefix:        prefix,
		Year:          in.Year,
		CurrentNumber: in.CurrentNumber,
		IsDefault:     in.IsDefault,
		Type:          typ,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return SeriesToResponse(s), nil
}

// List series del usuario con su próximo número.
func (uc *SeriesUseCase) List(ctx context.Context, userID string) ([]*dto.SeriesResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SeriesResponse, 0, len(list))
	for _, s := range list {
		out = append(out, SeriesToResponse(s))
	}
	return out, nil
}

// NextNumber propone el siguiente número sin reservarlo.
func (uc *SeriesUseCase) NextNumber(ctx context.Context, userID, seriesID string) (*dto.NextNumberResponse, error) {
	s, err := uc.repo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return &dto.NextNumberResponse{SeriesID: s.ID, Number: invoicing.ProposeNumber(*s)}, nil
}

// CheckNumber comprobación de duplicados del número editado a mano.
func (uc *SeriesUseCase) CheckNumber(ctx context.Context, userID, draftKey, number string) (*dto.CheckNumberResponse, error) {
	res, err := uc.guard.Check(ctx, userID, draftKey, number)
	if err != nil {
		return nil, err
	}
	return &dto.CheckNumberResponse{
		Number:     res.Number,
		Exists:     res.Exists,
		Verified:   res.Verified,
		Skipped:    res.Skipped,
		Superseded: res.Superseded,
	}, nil
}
