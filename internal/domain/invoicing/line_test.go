package invoicing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Sub(d(want)).Abs().LessThanOrEqual(d("0.000000001")), "%s: esperado %s, obtenido %s", msg, want, got)
}

func TestSetBase_RecalculaNeto(t *testing.T) {
	l := invoicing.NewLine("1")
	l = invoicing.SetRetentionRate(l, d("15"))
	l = invoicing.SetBase(l, d("100"))

	assertDec(t, "106", l.UnitNet, "neto")
	assert.Equal(t, entity.PriceFieldBase, l.LastEdited)
}

func TestSetNet_RecalculaBase(t *testing.T) {
	l := invoicing.NewLine("1")
	l = invoicing.SetRetentionRate(l, d("15"))
	l = invoicing.SetNet(l, d("106.00"))

	assertDec(t, "100", l.UnitBase, "base")
	assert.Equal(t, entity.PriceFieldNet, l.LastEdited)
}

func TestApply_NoModificaOriginal(t *testing.T) {
	orig := invoicing.SetBase(invoicing.NewLine("1"), d("100"))
	_ = invoicing.Apply(orig, invoicing.Change{Field: invoicing.FieldBase, Value: d("200")})
	assertDec(t, "100", orig.UnitBase, "la línea original no cambia")
}

// Con LastEdited=BASE un cambio de tipo solo mueve el neto.
func TestCambioDeTipo_ConservaBase(t *testing.T) {
	rates := []string{"0", "4", "10", "21"}
	for _, r := range rates {
		l := invoicing.SetBase(invoicing.NewLine("1"), d("80"))
		after := invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldVATRate, Value: d(r)})
		assert.True(t, after.UnitBase.Equal(d("80")), "IVA %s no debe mover la base", r)
		assert.Equal(t, entity.PriceFieldBase, after.LastEdited)
		assertDec(t, invoicing.SetBase(after, d("80")).UnitNet.String(), after.UnitNet, "neto re-derivado")
	}
}

// Con LastEdited=NET un cambio de tipo solo mueve la base.
func TestCambioDeTipo_ConservaNeto(t *testing.T) {
	l := invoicing.SetNet(invoicing.NewLine("1"), d("121"))
	assertDec(t, "100", l.UnitBase, "base inicial")

	l = invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldRetentionRate, Value: d("15")})
	assert.True(t, l.UnitNet.Equal(d("121")), "el neto no se mueve")
	assertDec(t, "114.1509433962264151", l.UnitBase.Round(16), "base re-derivada 121/1.06")
	assert.Equal(t, entity.PriceFieldNet, l.LastEdited)

	l = invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldVATRate, Value: d("10")})
	assert.True(t, l.UnitNet.Equal(d("121")))
	assertDec(t, "127.3684210526315789", l.UnitBase.Round(16), "base re-derivada 121/0.95")
}

func TestApply_CamposDeTextoYCantidad(t *testing.T) {
	l := invoicing.NewLine("1")
	l = invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldConcept, Text: "Comisión de gestión"})
	l = invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldDescription, Text: "Enero 2026"})
	l = invoicing.Apply(l, invoicing.Change{Field: invoicing.FieldQuantity, Value: d("3")})

	assert.Equal(t, "Comisión de gestión", l.Concept)
	assert.Equal(t, "Enero 2026", l.Description)
	assert.Equal(t, 3, l.Quantity)
}

func TestImportesDeLinea(t *testing.T) {
	l := invoicing.NewLine("1")
	l = invoicing.SetRetentionRate(l, d("15"))
	l = invoicing.SetBase(l, d("100"))
	l.Quantity = 2

	assertDec(t, "200", invoicing.LineBase(l), "base de línea")
	assertDec(t, "42", invoicing.LineVAT(l), "IVA de línea")
	assertDec(t, "30", invoicing.LineRetention(l), "retención de línea")
	assertDec(t, "212", invoicing.LineNet(l), "neto de línea")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, invoicing.ClampQuantity(0))
	assert.Equal(t, 1, invoicing.ClampQuantity(-4))
	assert.Equal(t, 7, invoicing.ClampQuantity(7))

	nan := 0.0
	nan = nan / nan
	assert.True(t, invoicing.ClampPrice(nan).IsZero())
	assert.True(t, invoicing.ClampPrice(-3).IsZero())
	assert.True(t, invoicing.ClampPrice(12.5).Equal(d("12.5")))
	assert.True(t, invoicing.ClampDecimal(d("-1")).IsZero())
}

func TestIsValid(t *testing.T) {
	l := invoicing.SetBase(invoicing.NewLine("1"), d("10"))
	assert.False(t, invoicing.IsValid(l), "sin concepto no es válida")

	l.Concept = "   "
	assert.False(t, invoicing.IsValid(l))

	l.Concept = "Limpieza"
	assert.True(t, invoicing.IsValid(l))

	empty := invoicing.NewLine("2")
	empty.Concept = "Limpieza"
	assert.False(t, invoicing.IsValid(empty), "sin precio no es válida")
}
