package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

func TestProposeNumber(t *testing.T) {
	s := entity.InvoiceSeries{Prefix: "F", Year: 2026, CurrentNumber: 0}
	assert.Equal(t, "F260001", invoicing.ProposeNumber(s))

	s.CurrentNumber = 12
	assert.Equal(t, "F260013", invoicing.ProposeNumber(s))
	assert.Equal(t, "F260013", invoicing.ProposeNumber(s), "la propuesta no incrementa el contador")
	assert.Equal(t, int64(12), s.CurrentNumber)

	// Tras crear la factura la persistencia deja el contador en 13.
	s.CurrentNumber = 13
	assert.Equal(t, "F260014", invoicing.ProposeNumber(s))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "R090042", invoicing.FormatNumber("R", 2009, 42))
	assert.Equal(t, "F2612345", invoicing.FormatNumber("F", 2026, 12345), "más de 4 dígitos no se trunca")
}

func TestNumberDraft_AutoYManual(t *testing.T) {
	a := entity.InvoiceSeries{ID: "a", Prefix: "F", Year: 2026, CurrentNumber: 4}
	b := entity.InvoiceSeries{ID: "b", Prefix: "R", Year: 2026, CurrentNumber: 0}

	draft := invoicing.NewNumberDraft(a)
	assert.Equal(t, invoicing.NumberAuto, draft.Mode)
	assert.Equal(t, "F260005", draft.Value)
	assert.False(t, draft.NeedsDuplicateCheck(), "en automático no se consulta")

	draft = draft.SelectSeries(b)
	assert.Equal(t, "R260001", draft.Value)

	draft = draft.Edit(" F-ESPECIAL ")
	assert.Equal(t, invoicing.NumberManual, draft.Mode)
	assert.Equal(t, "F-ESPECIAL", draft.Value)
	assert.True(t, draft.NeedsDuplicateCheck())

	draft = draft.SelectSeries(a)
	assert.Equal(t, "F-ESPECIAL", draft.Value, "en manual cambiar la serie no pisa el número")

	draft = draft.RevertToAuto(a)
	assert.Equal(t, "F260005", draft.Value)
	assert.Equal(t, invoicing.NumberAuto, draft.Mode)
}

func TestNumberDraft_Duplicados(t *testing.T) {
	s := entity.InvoiceSeries{Prefix: "F", Year: 2026}
	draft := invoicing.NewNumberDraft(s).Edit("F260001")

	dup := draft.WithCheck(true, true)
	assert.True(t, dup.BlocksSubmission())

	failed := draft.WithCheck(false, false)
	assert.False(t, failed.BlocksSubmission(), "un fallo de consulta no bloquea")
	assert.True(t, failed.Unverified)

	short := invoicing.NewNumberDraft(s).Edit("F1").WithCheck(true, true)
	assert.False(t, short.BlocksSubmission(), "valores cortos no se comprueban")
}
