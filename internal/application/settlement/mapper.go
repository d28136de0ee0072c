package settlement

import (
	"time"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ToResponse convierte la liquidación para la API.
func ToResponse(l *entity.Liquidation) *dto.LiquidationResponse {
	groups := make([]dto.PropertyGroupDTO, 0, len(l.Groups))
	for _, g := range l.Groups {
		groups = append(groups, groupToDTO(g))
	}
	out := &dto.LiquidationResponse{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		Year:          l.Year,
		Month:         l.Month,
		Status:        string(l.Status),
		Locked:        l.Locked(),
		InvoiceID:     l.InvoiceID,
		InvoiceNumber: l.InvoiceNumber,
		Groups:        groups,
		Totals: dto.SettlementTotalsDTO{
			TotalIncome:        l.Totals.TotalIncome,
			TotalCommission:    l.Totals.TotalCommission,
			TotalCommissionVAT: l.Totals.TotalCommissionVAT,
			TotalCleaning:      l.Totals.TotalCleaning,
			TotalExpenses:      l.Totals.TotalExpenses,
			TotalAmount:        l.Totals.TotalAmount,
			TotalRetention:     l.Totals.TotalRetention,
		},
		Stats: dto.SettlementStatsDTO{
			DaysInMonth:       l.Stats.DaysInMonth,
			TotalNights:       l.Stats.TotalNights,
			OccupancyRate:     l.Stats.OccupancyRate,
			CommissionType:    l.Stats.CommissionType,
			CommissionValue:   l.Stats.CommissionValue,
			CommissionVATRate: l.Stats.CommissionVATRate,
			CleaningType:      l.Stats.CleaningType,
			CleaningValue:     l.Stats.CleaningValue,
			RetentionRate:     l.Stats.RetentionRate,
		},
	}
	if l.SentAt != nil {
		out.SentAt = l.SentAt.Format(time.RFC3339)
	}
	return out
}

func groupToDTO(g entity.PropertyGroup) dto.PropertyGroupDTO {
	res := make([]dto.ReservationLineDTO, 0, len(g.Reservations))
	for _, rl := range g.Reservations {
		r := rl.Reservation
		res = append(res, dto.ReservationLineDTO{
			ID:                  r.ID,
			ConfirmationCode:    r.ConfirmationCode,
			GuestName:           r.GuestName,
			CheckIn:             r.CheckIn.Format(dateLayout),
			CheckOut:            r.CheckOut.Format(dateLayout),
			Nights:              r.Nights,
			GrossHostEarnings:   r.GrossHostEarnings,
			NetPrice:            rl.NetPrice,
			Cleaning:            rl.Cleaning,
			CommissionAmount:    rl.CommissionAmount,
			CommissionVATAmount: rl.CommissionVATAmount,
			NetToOwner:          rl.NetToOwner,
		})
	}
	exp := make([]dto.ExpenseDTO, 0, len(g.Expenses))
	for _, e := range g.Expenses {
		exp = append(exp, dto.ExpenseDTO{
			ID:        e.ID,
			Concept:   e.Concept,
			Category:  e.Category,
			Amount:    e.Amount,
			VATAmount: e.VATAmount,
			Date:      e.Date.Format(dateLayout),
		})
	}
	return dto.PropertyGroupDTO{
		Property:         g.Property,
		Reservations:     res,
		Expenses:         exp,
		TotalNights:      g.TotalNights,
		OccupancyRate:    g.OccupancyRate,
		Income:           g.Income,
		Cleaning:         g.Cleaning,
		Commission:       g.Commission,
		CommissionVAT:    g.CommissionVAT,
		NetToOwner:       g.NetToOwner,
		ExpensesSubtotal: g.ExpensesSubtotal,
	}
}
