package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/internal/domain/settlement"
)

func TestInvoiceLines(t *testing.T) {
	l := draft(t)
	lines := settlement.InvoiceLines(l)

	require.Len(t, lines, 3, "comisión por alojamiento con importe y limpieza")
	assert.Equal(t, "Comisión de gestión - Casa Mar", lines[0].Concept)
	assertDec(t, "260", lines[0].UnitBase, "base")
	assertDec(t, "21", lines[0].VATRate, "IVA")
	assertDec(t, "15", lines[0].RetentionRate, "retención")
	assert.Equal(t, "02/2026", lines[0].Description)

	assert.Equal(t, "Servicios de limpieza", lines[2].Concept)
	assertDec(t, "0", lines[2].RetentionRate, "la limpieza no retiene")

	tot := invoicing.ComputeTotals(lines)
	assertDec(t, "490", tot.Subtotal, "subtotal")
	assertDec(t, "54", tot.TotalRetention, "coincide con la retención de la liquidación")
}

// El IVA facturado por comisión coincide con el IVA de comisión liquidado, también con IVA propio de la reserva.
func TestInvoiceLines_IVAPorReserva(t *testing.T) {
	in := settlement.Input{
		ID:    "liq-2",
		Owner: entity.Owner{ID: "own-1", Kind: entity.OwnerCompany},
		Year:  2026,
		Month: 2,
		Reservations: []entity.Reservation{
			{ID: "r1", Property: "Casa Mar", Nights: 7, GrossHostEarnings: d("1000"), CommissionVATRate: p("10")},
		},
		Config: entity.BillingConfig{
			CommissionType:    entity.CommissionPercentage,
			CommissionValue:   d("20"),
			CommissionVATRate: d("21"),
			CleaningType:      entity.CleaningFixedPerReservation,
		},
	}
	liq, err := settlement.Aggregate(in)
	require.NoError(t, err)
	lines := settlement.InvoiceLines(liq)
	require.Len(t, lines, 1)
	assert.Equal(t, "Comisión de gestión - Casa Mar", lines[0].Concept)
	assertDec(t, "10", lines[0].VATRate, "IVA de la reserva")
	assertDec(t, "20", invoicing.ComputeTotals(lines).TotalVAT, "IVA factura")
	assertDec(t, "20", liq.Totals.TotalCommissionVAT, "IVA liquidación")

	in.Reservations = append(in.Reservations, entity.Reservation{ID: "r2", Property: "Casa Mar", Nights: 3, GrossHostEarnings: d("500")})
	liq, err = settlement.Aggregate(in)
	require.NoError(t, err)
	lines = settlement.InvoiceLines(liq)
	require.Len(t, lines, 2, "una línea por tipo de IVA")
	assert.Equal(t, "Comisión de gestión - Casa Mar (IVA 10%)", lines[0].Concept)
	assertDec(t, "200", lines[0].UnitBase, "base al 10")
	assert.Equal(t, "Comisión de gestión - Casa Mar (IVA 21%)", lines[1].Concept)
	assertDec(t, "100", lines[1].UnitBase, "base al 21")
	assertDec(t, "41", liq.Totals.TotalCommissionVAT, "IVA liquidación")
	assertDec(t, liq.Totals.TotalCommissionVAT.String(), invoicing.ComputeTotals(lines).TotalVAT, "IVA factura")
}
