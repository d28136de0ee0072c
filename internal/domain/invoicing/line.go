// Package invoicing contiene el motor de líneas de factura, el agregador de totales
// y la propuesta de numeración por serie.
package invoicing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/tax"
)

// ChangeField campo de la línea que el usuario modifica.
type ChangeField string

const (
	FieldBase          ChangeField = "base"
	FieldNet           ChangeField = "net"
	FieldVATRate       ChangeField = "vat_rate"
	FieldRetentionRate ChangeField = "retention_rate"
	FieldQuantity      ChangeField = "quantity"
	FieldConcept       ChangeField = "concept"
	FieldDescription   ChangeField = "description"
)

// Change una edición sobre una línea. Value para campos numéricos, Text para los de texto.
type Change struct {
	Field ChangeField
	Value decimal.Decimal
	Text  string
}

// NewLine crea una línea vacía con los valores por defecto del formulario (IVA 21, sin retención).
func NewLine(id string) entity.InvoiceLine {
	return entity.InvoiceLine{
		ID:            id,
		Quantity:      1,
		VATRate:       decimal.NewFromInt(21),
		RetentionRate: decimal.Zero,
		LastEdited:    entity.PriceFieldBase,
	}
}

// Apply aplica un cambio y devuelve la línea resultante; no modifica la original.
// Se asume entrada ya saneada (ver ClampQuantity, ClampPrice).
func Apply(line entity.InvoiceLine, ch Change) entity.InvoiceLine {
	switch ch.Field {
	case FieldBase:
		return SetBase(line, ch.Value)
	case FieldNet:
		return SetNet(line, ch.Value)
	case FieldVATRate:
		return SetVATRate(line, ch.Value)
	case FieldRetentionRate:
		return SetRetentionRate(line, ch.Value)
	case FieldQuantity:
		line.Quantity = int(ch.Value.IntPart())
	case FieldConcept:
		line.Concept = ch.Text
	case FieldDescription:
		line.Description = ch.Text
	}
	return line
}

// SetBase fija el precio base y recalcula el neto.
func SetBase(line entity.InvoiceLine, base decimal.Decimal) entity.InvoiceLine {
	line.UnitBase = base
	line.UnitNet = tax.NetFromBase(base, line.VATRate, line.RetentionRate)
	line.LastEdited = entity.PriceFieldBase
	return line
}

// SetNet fija el precio neto y recalcula la base.
func SetNet(line entity.InvoiceLine, net decimal.Decimal) entity.InvoiceLine {
	line.UnitNet = net
	line.UnitBase = tax.BaseFromNet(net, line.VATRate, line.RetentionRate)
	line.LastEdited = entity.PriceFieldNet
	return line
}

// SetVATRate cambia el IVA sin mover el precio que el usuario estaba editando.
func SetVATRate(line entity.InvoiceLine, rate decimal.Decimal) entity.InvoiceLine {
	line.VATRate = rate
	return rederive(line)
}

// SetRetentionRate cambia la retención sin mover el precio que el usuario estaba editando.
func SetRetentionRate(line entity.InvoiceLine, rate decimal.Decimal) entity.InvoiceLine {
	line.RetentionRate = rate
	return rederive(line)
}

// rederive recalcula el campo no autoritativo a partir de LastEdited.
func rederive(line entity.InvoiceLine) entity.InvoiceLine {
	if line.LastEdited == entity.PriceFieldNet {
		line.UnitBase = tax.BaseFromNet(line.UnitNet, line.VATRate, line.RetentionRate)
		return line
	}
	line.UnitNet = tax.NetFromBase(line.UnitBase, line.VATRate, line.RetentionRate)
	return line
}

// ── Importes por línea (escalados por cantidad) ──────────────────────────────

// LineBase = UnitBase × Quantity.
func LineBase(line entity.InvoiceLine) decimal.Decimal {
	return line.UnitBase.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// LineVAT = LineBase × IVA/100.
func LineVAT(line entity.InvoiceLine) decimal.Decimal {
	return tax.Percent(LineBase(line), line.VATRate)
}

// LineRetention = LineBase × Retención/100.
func LineRetention(line entity.InvoiceLine) decimal.Decimal {
	return tax.Percent(LineBase(line), line.RetentionRate)
}

// LineNet = UnitNet × Quantity.
func LineNet(line entity.InvoiceLine) decimal.Decimal {
	return line.UnitNet.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ── Saneado de entrada (lado del llamador) ────────────────────────────────────

// ClampQuantity fuerza una cantidad mínima de 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// ClampPrice convierte NaN, infinitos y negativos en 0.
func ClampPrice(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ClampDecimal fuerza un precio decimal no negativo.
func ClampDecimal(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// IsValid indica si la línea cuenta para totales: concepto no vacío y algún precio > 0.
func IsValid(line entity.InvoiceLine) bool {
	if strings.TrimSpace(line.Concept) == "" {
		return false
	}
	return line.UnitBase.IsPositive() || line.UnitNet.IsPositive()
}
