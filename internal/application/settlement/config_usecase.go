package settlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/repository"
	domsettle "github.com/jhoicas/gestion-api/internal/domain/settlement"
)

// ConfigUseCase lectura y edición de la configuración de facturación por propietario.
type ConfigUseCase struct {
	owners  repository.OwnerRepository
	configs repository.BillingConfigRepository
}

// NewConfigUseCase construye el caso de uso.
func NewConfigUseCase(owners repository.OwnerRepository, configs repository.BillingConfigRepository) *ConfigUseCase {
	return &ConfigUseCase{owners: owners, configs: configs}
}

// Get devuelve la configuración guardada o la de por defecto.
func (uc *ConfigUseCase) Get(ctx context.Context, userID, ownerID string) (*dto.BillingConfigDTO, error) {
	if err := uc.checkOwner(ctx, userID, ownerID); err != nil {
		return nil, err
	}
	cfg, err := uc.configs.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := domsettle.DefaultConfig(ownerID)
		cfg = &def
	}
	return configToDTO(cfg), nil
}

// Put guarda la configuración. Los modos vacíos toman el valor por defecto.
func (uc *ConfigUseCase) Put(ctx context.Context, userID, ownerID string, in dto.BillingConfigDTO) (*dto.BillingConfigDTO, error) {
	if err := uc.checkOwner(ctx, userID, ownerID); err != nil {
		return nil, err
	}
	if in.CommissionValue.IsNegative() || in.CommissionVATRate.IsNegative() || in.CleaningValue.IsNegative() ||
		in.MonthlyFee.IsNegative() || in.MonthlyFeeVATRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.configs.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	if existing != nil {
		id = existing.ID
	}
	cfg := &entity.BillingConfig{
		ID:                id,
		OwnerID:           ownerID,
		CommissionType:    in.CommissionType,
		CommissionValue:   in.CommissionValue,
		CommissionVATRate: in.CommissionVATRate,
		CleaningType:      in.CleaningType,
		CleaningValue:     in.CleaningValue,
		MonthlyFee:        in.MonthlyFee,
		MonthlyFeeVATRate: in.MonthlyFeeVATRate,
	}
	if cfg.CommissionType == "" {
		cfg.CommissionType = entity.CommissionPercentage
	}
	if cfg.CleaningType == "" {
		cfg.CleaningType = entity.CleaningFixedPerReservation
	}
	if err := uc.configs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return configToDTO(cfg), nil
}

func (uc *ConfigUseCase) checkOwner(ctx context.Context, userID, ownerID string) error {
	owner, err := uc.owners.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return domain.ErrNotFound
	}
	if owner.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

func configToDTO(c *entity.BillingConfig) *dto.BillingConfigDTO {
	return &dto.BillingConfigDTO{
		CommissionType:    c.CommissionType,
		CommissionValue:   c.CommissionValue,
		CommissionVATRate: c.CommissionVATRate,
		CleaningType:      c.CleaningType,
		CleaningValue:     c.CleaningValue,
		MonthlyFee:        c.MonthlyFee,
		MonthlyFeeVATRate: c.MonthlyFeeVATRate,
	}
}
