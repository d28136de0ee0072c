package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

func line(concept, base, vat, ret string, qty int) entity.InvoiceLine {
	l := invoicing.NewLine(concept)
	l.Concept = concept
	l.Quantity = qty
	l = invoicing.SetVATRate(l, d(vat))
	l = invoicing.SetRetentionRate(l, d(ret))
	return invoicing.SetBase(l, d(base))
}

func TestComputeTotals(t *testing.T) {
	lines := []entity.InvoiceLine{
		line("Comisión", "100", "21", "15", 1),
		line("Limpieza", "50", "21", "0", 2),
		line("", "999", "21", "0", 1), // sin concepto: se ignora
	}
	tot := invoicing.ComputeTotals(lines)

	assertDec(t, "200", tot.Subtotal, "subtotal")
	assertDec(t, "42", tot.TotalVAT, "IVA")
	assertDec(t, "15", tot.TotalRetention, "retención")
	assertDec(t, "227", tot.GrandTotal, "total")
	assertDec(t, "7.5", tot.AvgRetentionRate, "retención media")
}

func TestComputeTotals_SinLineas(t *testing.T) {
	tot := invoicing.ComputeTotals(nil)
	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.AvgRetentionRate.IsZero(), "sin subtotal la media es 0")
}

func TestComputeTotals_GrandTotalNoNegativo(t *testing.T) {
	for _, vat := range []string{"0", "4", "10", "21"} {
		for _, ret := range []string{"0", "1", "2", "7", "15", "19"} {
			tot := invoicing.ComputeTotals([]entity.InvoiceLine{
				line("A", "10", vat, ret, 3),
				line("B", "0.01", vat, ret, 1),
			})
			assert.False(t, tot.GrandTotal.IsNegative(), "iva=%s ret=%s", vat, ret)
		}
	}
}

func TestPrepareSubmission_SinLineasValidas(t *testing.T) {
	_, _, err := invoicing.PrepareSubmission([]entity.InvoiceLine{invoicing.NewLine("1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAtLeastOneLineRequired)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepareSubmission_NumeraPosiciones(t *testing.T) {
	valid, tot, err := invoicing.PrepareSubmission([]entity.InvoiceLine{
		invoicing.NewLine("vacía"),
		line("A", "10", "21", "0", 1),
		line("B", "20", "21", "0", 1),
	})
	require.NoError(t, err)
	require.Len(t, valid, 2)
	assert.Equal(t, 0, valid[0].Position)
	assert.Equal(t, 1, valid[1].Position)
	assertDec(t, "30", tot.Subtotal, "subtotal")
}

func TestHasRetentions(t *testing.T) {
	assert.False(t, invoicing.HasRetentions([]entity.InvoiceLine{line("A", "1", "21", "0", 1)}))
	assert.True(t, invoicing.HasRetentions([]entity.InvoiceLine{line("A", "1", "21", "7", 1)}))
}
