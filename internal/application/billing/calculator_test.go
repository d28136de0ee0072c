package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/application/billing"
	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
)

func TestCalculator_ComputeLine(t *testing.T) {
	c := billing.NewCalculator()
	line := dto.InvoiceLineDTO{Concept: "Comisión", Quantity: 2, UnitBase: d("100"), VATRate: d("21"), RetentionRate: d("15"), LastEdited: "BASE"}

	out, err := c.ComputeLine(dto.ComputeLineRequest{Line: line, Field: "net", Value: "121"})
	require.NoError(t, err)
	assert.Equal(t, "NET", out.Line.LastEdited)
	assert.True(t, out.Line.UnitNet.Equal(d("121")))
	assert.True(t, out.LineNet.Equal(d("242")))
	assert.True(t, out.Valid)

	out, err = c.ComputeLine(dto.ComputeLineRequest{Line: out.Line, Field: "retention_rate", Value: "0"})
	require.NoError(t, err)
	assert.True(t, out.Line.UnitNet.Equal(d("121")), "el neto editado no se mueve")
	assert.True(t, out.Line.UnitBase.Equal(d("100")), "121 / 1.21")
}

func TestCalculator_ComputeLine_Saneado(t *testing.T) {
	c := billing.NewCalculator()
	line := dto.InvoiceLineDTO{Concept: "X", Quantity: 1, VATRate: d("21")}

	out, err := c.ComputeLine(dto.ComputeLineRequest{Line: line, Field: "quantity", Value: "-3"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Line.Quantity)

	out, err = c.ComputeLine(dto.ComputeLineRequest{Line: line, Field: "base", Value: "-10"})
	require.NoError(t, err)
	assert.True(t, out.Line.UnitBase.IsZero())
	assert.False(t, out.Valid)

	_, err = c.ComputeLine(dto.ComputeLineRequest{Line: line, Field: "base", Value: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.ComputeLine(dto.ComputeLineRequest{Line: line, Field: "color", Value: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculator_ComputeTotals(t *testing.T) {
	c := billing.NewCalculator()
	tot := c.ComputeTotals(dto.ComputeTotalsRequest{Lines: []dto.InvoiceLineDTO{
		{Concept: "A", Quantity: 1, UnitBase: d("100"), VATRate: d("21"), RetentionRate: d("15"), LastEdited: "BASE"},
		{Concept: "B", Quantity: 1, UnitBase: d("100"), VATRate: d("21"), LastEdited: "BASE"},
	}})
	assert.True(t, tot.Subtotal.Equal(d("200")))
	assert.True(t, tot.GrandTotal.Equal(d("227")))
	assert.True(t, tot.AvgRetentionRate.Equal(d("7.5")))
	assert.True(t, tot.HasRetentions)
}
