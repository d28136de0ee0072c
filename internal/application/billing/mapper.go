package billing

import (
	"time"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

const dateLayout = "2006-01-02"

// LineFromDTO convierte y sanea la línea recibida. El precio autoritativo (LastEdited)
// se respeta y el otro se vuelve a derivar, así el invariante base/neto se cumple siempre.
func LineFromDTO(in dto.InvoiceLineDTO) entity.InvoiceLine {
	line := entity.InvoiceLine{
		ID:            in.ID,
		Concept:       in.Concept,
		Description:   in.Description,
		Quantity:      invoicing.ClampQuantity(in.Quantity),
		VATRate:       invoicing.ClampDecimal(in.VATRate),
		RetentionRate: invoicing.ClampDecimal(in.RetentionRate),
	}
	if entity.PriceField(in.LastEdited) == entity.PriceFieldNet {
		return invoicing.SetNet(line, invoicing.ClampDecimal(in.UnitNet))
	}
	return invoicing.SetBase(line, invoicing.ClampDecimal(in.UnitBase))
}

// LinesFromDTO convierte una lista de líneas.
func LinesFromDTO(in []dto.InvoiceLineDTO) []entity.InvoiceLine {
	out := make([]entity.InvoiceLine, 0, len(in))
	for _, l := range in {
		out = append(out, LineFromDTO(l))
	}
	return out
}

// LineToDTO convierte una línea de dominio.
func LineToDTO(l entity.InvoiceLine) dto.InvoiceLineDTO {
	return dto.InvoiceLineDTO{
		ID:            l.ID,
		Concept:       l.Concept,
		Description:   l.Description,
		Quantity:      l.Quantity,
		UnitBase:      l.UnitBase,
		UnitNet:       l.UnitNet,
		VATRate:       l.VATRate,
		RetentionRate: l.RetentionRate,
		LastEdited:    string(l.LastEdited),
	}
}

// TotalsToDTO convierte los totales.
func TotalsToDTO(t entity.InvoiceTotals, hasRetentions bool) dto.InvoiceTotalsDTO {
	return dto.InvoiceTotalsDTO{
		Subtotal:         t.Subtotal,
		TotalVAT:         t.TotalVAT,
		TotalRetention:   t.TotalRetention,
		GrandTotal:       t.GrandTotal,
		AvgRetentionRate: t.AvgRetentionRate,
		HasRetentions:    hasRetentions,
	}
}

// InvoiceToResponse convierte la factura para la API.
func InvoiceToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.InvoiceLineDTO, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, LineToDTO(l))
	}
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		OwnerID:       inv.OwnerID,
		SeriesID:      inv.SeriesID,
		LiquidationID: inv.LiquidationID,
		Number:        inv.Number,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		Owner: dto.OwnerSnapshotDTO{
			Kind:        string(inv.Owner.Kind),
			TaxID:       inv.Owner.TaxID,
			DisplayName: inv.Owner.DisplayName,
			Email:       inv.Owner.Email,
			Address:     inv.Owner.Address,
		},
		Lines:  lines,
		Totals: TotalsToDTO(inv.Totals, invoicing.HasRetentions(inv.Lines)),
		Notes:  inv.Notes,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	return out
}

// OwnerToResponse convierte el propietario.
func OwnerToResponse(o *entity.Owner) *dto.OwnerResponse {
	return &dto.OwnerResponse{
		ID:            o.ID,
		Kind:          string(o.Kind),
		TaxID:         o.TaxID,
		DisplayName:   o.DisplayName,
		Email:         o.Email,
		Address:       o.Address,
		RetentionRate: o.RetentionRate,
	}
}

// SeriesToResponse convierte la serie, con el próximo número propuesto.
func SeriesToResponse(s *entity.InvoiceSeries) *dto.SeriesResponse {
	return &dto.SeriesResponse{
		ID:            s.ID,
		Prefix:        s.Prefix,
		Year:          s.Year,
		CurrentNumber: s.CurrentNumber,
		IsDefault:     s.IsDefault,
		Type:          string(s.Type),
		NextNumber:    invoicing.ProposeNumber(*s),
	}
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(dateLayout, s)
}
