package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// RateCatalog tipos de IVA y retención admitidos en la jurisdicción.
// El motor de cálculo no depende de él; solo la validación de envío.
type RateCatalog struct {
	VATRates       []decimal.Decimal
	RetentionRates []decimal.Decimal
}

// SpanishRates IVA {0,4,10,21} e IRPF {0,1,2,7,15,19}.
func SpanishRates() RateCatalog {
	return RateCatalog{
		VATRates:       ints(0, 4, 10, 21),
		RetentionRates: ints(0, 1, 2, 7, 15, 19),
	}
}

// NewRateCatalog construye un catálogo; listas vacías toman los valores españoles.
func NewRateCatalog(vat, retention []float64) RateCatalog {
	c := SpanishRates()
	if len(vat) > 0 {
		c.VATRates = floats(vat)
	}
	if len(retention) > 0 {
		c.RetentionRates = floats(retention)
	}
	return c
}

// Validate comprueba que todas las líneas usen tipos admitidos.
func (c RateCatalog) Validate(lines []entity.InvoiceLine) error {
	for i, l := range lines {
		if !contains(c.VATRates, l.VATRate) {
			return fmt.Errorf("%w: línea %d IVA %s%%", domain.ErrRateNotAllowed, i+1, l.VATRate.String())
		}
		if !contains(c.RetentionRates, l.RetentionRate) {
			return fmt.Errorf("%w: línea %d retención %s%%", domain.ErrRateNotAllowed, i+1, l.RetentionRate.String())
		}
	}
	return nil
}

func contains(list []decimal.Decimal, v decimal.Decimal) bool {
	for _, x := range list {
		if x.Equal(v) {
			return true
		}
	}
	return false
}

func ints(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func floats(vs []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
