// Package tax contiene la aritmética de IVA y retención (IRPF) sobre precios unitarios.
// Funciones puras y totales; no redondean (el redondeo es cosa de la presentación).
package tax

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Factor devuelve 1 + IVA/100 − retención/100.
func Factor(vatRate, retentionRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).
		Add(vatRate.Div(hundred)).
		Sub(retentionRate.Div(hundred))
}

// NetFromBase: Neto = Base × (1 + IVA/100 − Retención/100).
func NetFromBase(base, vatRate, retentionRate decimal.Decimal) decimal.Decimal {
	return base.Mul(Factor(vatRate, retentionRate))
}

// BaseFromNet: Base = Neto / (1 + IVA/100 − Retención/100).
// Si el divisor es exactamente 0 se devuelve el neto sin cambios.
func BaseFromNet(net, vatRate, retentionRate decimal.Decimal) decimal.Decimal {
	f := Factor(vatRate, retentionRate)
	if f.IsZero() {
		return net
	}
	return net.Div(f)
}

// Percent devuelve amount × rate/100.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}
