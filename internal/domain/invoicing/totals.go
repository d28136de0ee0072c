package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ValidLines filtra las líneas que cuentan para totales y envío.
func ValidLines(lines []entity.InvoiceLine) []entity.InvoiceLine {
	out := make([]entity.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		if IsValid(l) {
			out = append(out, l)
		}
	}
	return out
}

// ComputeTotals agrega las líneas válidas.
// AvgRetentionRate = TotalRetention / Subtotal × 100 (0 si Subtotal no es positivo).
func ComputeTotals(lines []entity.InvoiceLine) entity.InvoiceTotals {
	var t entity.InvoiceTotals
	for _, l := range ValidLines(lines) {
		t.Subtotal = t.Subtotal.Add(LineBase(l))
		t.TotalVAT = t.TotalVAT.Add(LineVAT(l))
		t.TotalRetention = t.TotalRetention.Add(LineRetention(l))
	}
	t.GrandTotal = t.Subtotal.Add(t.TotalVAT).Sub(t.TotalRetention)
	if t.Subtotal.IsPositive() {
		t.AvgRetentionRate = t.TotalRetention.Div(t.Subtotal).Mul(hundred)
	}
	return t
}

// PrepareSubmission devuelve las líneas válidas y sus totales, o ErrAtLeastOneLineRequired.
func PrepareSubmission(lines []entity.InvoiceLine) ([]entity.InvoiceLine, entity.InvoiceTotals, error) {
	valid := ValidLines(lines)
	if len(valid) == 0 {
		return nil, entity.InvoiceTotals{}, domain.ErrAtLeastOneLineRequired
	}
	for i := range valid {
		valid[i].Position = i
	}
	return valid, ComputeTotals(valid), nil
}

// HasRetentions indica si alguna línea lleva retención (para mostrar la fila en totales).
func HasRetentions(lines []entity.InvoiceLine) bool {
	for _, l := range lines {
		if l.RetentionRate.IsPositive() {
			return true
		}
	}
	return false
}
