package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
)

// OwnerUseCase casos de uso para propietarios.
type OwnerUseCase struct {
	repo repository.OwnerRepository
}

// NewOwnerUseCase construye el caso de uso.
func NewOwnerUseCase(repo repository.OwnerRepository) *OwnerUseCase {
	return &OwnerUseCase{repo: repo}
}

// Create crea un nuevo propietario. El NIF/CIF es único por usuario.
func (uc *OwnerUseCase) Create(ctx context.Context, userID string, in dto.CreateOwnerRequest) (*dto.OwnerResponse, error) {
	taxID := strings.ToUpper(strings.TrimSpace(in.TaxID))
	if taxID == "" || strings.TrimSpace(in.DisplayName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.RetentionRate != nil && in.RetentionRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByUserAndTaxID(ctx, userID, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	owner := &entity.Owner{
		ID:            uuid.New().String(),
		UserID:        userID,
		Kind:          entity.OwnerKind(in.Kind),
		TaxID:         taxID,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Email:         in.Email,
		Address:       in.Address,
		RetentionRate: in.RetentionRate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, owner); err != nil {
		return nil, err
	}
	return OwnerToResponse(owner), nil
}

// List lista propietarios del usuario.
func (uc *OwnerUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*dto.OwnerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OwnerResponse, 0, len(list))
	for _, o := range list {
		out = append(out, OwnerToResponse(o))
	}
	return out, nil
}

// Update modifica los datos del propietario. Las facturas ya emitidas conservan su copia.
func (uc *OwnerUseCase) Update(ctx context.Context, userID, id string, in dto.CreateOwnerRequest) (*dto.OwnerResponse, error) {
	owner, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}
	if owner.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if in.RetentionRate != nil && in.RetentionRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	owner.Kind = entity.OwnerKind(in.Kind)
	owner.TaxID = strings.ToUpper(strings.TrimSpace(in.TaxID))
	owner.DisplayName = strings.TrimSpace(in.DisplayName)
	owner.Email = in.Email
	owner.Address = in.Address
	owner.RetentionRate = in.RetentionRate
	owner.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, owner); err != nil {
		return nil, err
	}
	return OwnerToResponse(owner), nil
}
