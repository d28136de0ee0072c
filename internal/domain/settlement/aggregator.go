// Package settlement calcula la liquidación mensual de un propietario y gobierna su ciclo de vida.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/tax"
)

var (
	hundred = decimal.NewFromInt(100)

	// Retención por defecto cuando el propietario no tiene una propia.
	DefaultCompanyRetention    = decimal.NewFromInt(15)
	DefaultIndividualRetention = decimal.Zero
)

// Input datos de entrada de una liquidación. Las reservas y gastos ya vienen filtrados por periodo.
type Input struct {
	ID           string
	UserID       string
	Owner        entity.Owner
	Year         int
	Month        int
	Reservations []entity.Reservation
	Expenses     []entity.Expense
	Config       entity.BillingConfig
}

// DefaultConfig configuración aplicada cuando el propietario no tiene ninguna guardada.
func DefaultConfig(ownerID string) entity.BillingConfig {
	return entity.BillingConfig{
		OwnerID:           ownerID,
		CommissionType:    entity.CommissionPercentage,
		CommissionValue:   decimal.Zero,
		CommissionVATRate: decimal.NewFromInt(21),
		CleaningType:      entity.CleaningFixedPerReservation,
		CleaningValue:     decimal.Zero,
		MonthlyFee:        decimal.Zero,
		MonthlyFeeVATRate: decimal.NewFromInt(21),
	}
}

// RetentionRate tipo de retención efectivo del propietario.
func RetentionRate(o entity.Owner) decimal.Decimal {
	if o.RetentionRate != nil {
		return *o.RetentionRate
	}
	if o.Kind == entity.OwnerCompany {
		return DefaultCompanyRetention
	}
	return DefaultIndividualRetention
}

// DaysInMonth número de días del mes (1..12).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Aggregate agrupa por alojamiento y calcula totales y estadísticas.
// TotalAmount no descuenta TotalRetention.
func Aggregate(in Input) (entity.Liquidation, error) {
	if in.Year <= 0 || in.Month < 1 || in.Month > 12 {
		return entity.Liquidation{}, domain.ErrPeriodRequired
	}
	if in.Owner.ID == "" {
		return entity.Liquidation{}, domain.ErrOwnerRequired
	}
	cfg := in.Config
	if cfg.CommissionType == "" {
		cfg.CommissionType = entity.CommissionPercentage
	}
	if cfg.CleaningType == "" {
		cfg.CleaningType = entity.CleaningFixedPerReservation
	}

	days := DaysInMonth(in.Year, in.Month)
	groups := make([]entity.PropertyGroup, 0)
	index := make(map[string]int)
	groupFor := func(property string) *entity.PropertyGroup {
		i, ok := index[property]
		if !ok {
			i = len(groups)
			index[property] = i
			groups = append(groups, entity.PropertyGroup{Property: property})
		}
		return &groups[i]
	}

	for _, r := range in.Reservations {
		rl := computeReservation(r, cfg)
		g := groupFor(r.Property)
		g.Reservations = append(g.Reservations, rl)
		g.TotalNights += r.Nights
		g.Income = g.Income.Add(r.GrossHostEarnings)
		g.Cleaning = g.Cleaning.Add(rl.Cleaning)
		g.Commission = g.Commission.Add(rl.CommissionAmount)
		g.CommissionVAT = g.CommissionVAT.Add(rl.CommissionVATAmount)
		g.NetToOwner = g.NetToOwner.Add(rl.NetToOwner)
	}
	for _, e := range in.Expenses {
		g := groupFor(e.Property)
		g.Expenses = append(g.Expenses, e)
		g.ExpensesSubtotal = g.ExpensesSubtotal.Add(e.Amount).Add(e.VATAmount)
	}

	var t entity.SettlementTotals
	totalNights, rented := 0, 0
	for i := range groups {
		g := &groups[i]
		g.OccupancyRate = Occupancy(g.TotalNights, days)
		totalNights += g.TotalNights
		if len(g.Reservations) > 0 {
			rented++
		}
		t.TotalIncome = t.TotalIncome.Add(g.Income)
		t.TotalCommission = t.TotalCommission.Add(g.Commission)
		t.TotalCommissionVAT = t.TotalCommissionVAT.Add(g.CommissionVAT)
		t.TotalCleaning = t.TotalCleaning.Add(g.Cleaning)
		t.TotalExpenses = t.TotalExpenses.Add(g.ExpensesSubtotal)
	}

	// Cuota mensual de gestión: se suma a la comisión del periodo.
	if cfg.MonthlyFee.IsPositive() {
		t.TotalCommission = t.TotalCommission.Add(cfg.MonthlyFee)
		t.TotalCommissionVAT = t.TotalCommissionVAT.Add(tax.Percent(cfg.MonthlyFee, cfg.MonthlyFeeVATRate))
	}

	t.TotalAmount = PayableAmount(t)
	retention := RetentionRate(in.Owner)
	t.TotalRetention = tax.Percent(t.TotalCommission, retention)

	occupancy := 0
	if rented > 0 {
		occupancy = Occupancy(totalNights, days*rented)
	}

	return entity.Liquidation{
		ID:           in.ID,
		UserID:       in.UserID,
		OwnerID:      in.Owner.ID,
		Year:         in.Year,
		Month:        in.Month,
		Status:       entity.LiquidationDraft,
		Reservations: in.Reservations,
		Expenses:     in.Expenses,
		Config:       cfg,
		Groups:       groups,
		Totals:       t,
		Stats: entity.SettlementStats{
			DaysInMonth:       days,
			TotalNights:       totalNights,
			OccupancyRate:     occupancy,
			CommissionType:    cfg.CommissionType,
			CommissionValue:   cfg.CommissionValue,
			CommissionVATRate: cfg.CommissionVATRate,
			CleaningType:      cfg.CleaningType,
			CleaningValue:     cfg.CleaningValue,
			RetentionRate:     retention,
		},
	}, nil
}

// PayableAmount importe a transferir: ingresos − comisión − IVA comisión − limpieza − gastos.
func PayableAmount(t entity.SettlementTotals) decimal.Decimal {
	return t.TotalIncome.
		Sub(t.TotalCommission).
		Sub(t.TotalCommissionVAT).
		Sub(t.TotalCleaning).
		Sub(t.TotalExpenses)
}

// Occupancy = min(round(nights / days × 100), 100).
func Occupancy(nights, days int) int {
	if days <= 0 || nights <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(nights)).Mul(hundred).Div(decimal.NewFromInt(int64(days))).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}

func computeReservation(r entity.Reservation, cfg entity.BillingConfig) entity.ReservationLine {
	cleaning := CleaningFor(r, cfg)
	commission := CommissionFor(r, cfg)
	vatRate := cfg.CommissionVATRate
	if r.CommissionVATRate != nil {
		vatRate = *r.CommissionVATRate
	}
	commissionVAT := tax.Percent(commission, vatRate)
	return entity.ReservationLine{
		Reservation:         r,
		NetPrice:            r.GrossHostEarnings.Sub(cleaning),
		Cleaning:            cleaning,
		CommissionAmount:    commission,
		CommissionVATAmount: commissionVAT,
		NetToOwner:          r.GrossHostEarnings.Sub(cleaning).Sub(commission).Sub(commissionVAT),
	}
}

// CleaningFor limpieza de la reserva si la trae; si no, la de la configuración.
func CleaningFor(r entity.Reservation, cfg entity.BillingConfig) decimal.Decimal {
	if r.CleaningAmount != nil && r.CleaningAmount.IsPositive() {
		return *r.CleaningAmount
	}
	if cfg.CleaningType == entity.CleaningPerNight {
		return cfg.CleaningValue.Mul(decimal.NewFromInt(int64(r.Nights)))
	}
	return cfg.CleaningValue
}

// CommissionFor comisión de gestión sobre los ingresos brutos, o fija por reserva.
// Los valores de la reserva tienen prioridad sobre la configuración.
func CommissionFor(r entity.Reservation, cfg entity.BillingConfig) decimal.Decimal {
	switch {
	case r.CommissionFixedAmount != nil:
		return *r.CommissionFixedAmount
	case r.CommissionRate != nil:
		return tax.Percent(r.GrossHostEarnings, *r.CommissionRate)
	case cfg.CommissionType == entity.CommissionFixedPerReservation:
		return cfg.CommissionValue
	default:
		return tax.Percent(r.GrossHostEarnings, cfg.CommissionValue)
	}
}
