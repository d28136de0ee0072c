package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

func TestRateCatalog_Espana(t *testing.T) {
	c := invoicing.SpanishRates()
	assert.NoError(t, c.Validate([]entity.InvoiceLine{line("A", "1", "21", "15", 1), line("B", "1", "4", "19", 1)}))

	err := c.Validate([]entity.InvoiceLine{line("A", "1", "16", "0", 1)})
	assert.ErrorIs(t, err, domain.ErrRateNotAllowed)

	err = c.Validate([]entity.InvoiceLine{line("A", "1", "21", "20", 1)})
	assert.ErrorIs(t, err, domain.ErrRateNotAllowed)
}

func TestRateCatalog_OtraJurisdiccion(t *testing.T) {
	c := invoicing.NewRateCatalog([]float64{0, 5, 19}, nil)
	assert.NoError(t, c.Validate([]entity.InvoiceLine{line("A", "1", "19", "15", 1)}))
	assert.ErrorIs(t, c.Validate([]entity.InvoiceLine{line("A", "1", "21", "0", 1)}), domain.ErrRateNotAllowed)
}
