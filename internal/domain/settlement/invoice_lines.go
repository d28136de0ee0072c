package settlement

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

type vatSlice struct {
	rate decimal.Decimal
	base decimal.Decimal
}

// commissionByVAT comisión del alojamiento agrupada por el IVA efectivo de cada reserva,
// en orden de aparición. El IVA propio de la reserva prevalece sobre el de la configuración.
func commissionByVAT(g entity.PropertyGroup, def decimal.Decimal) []vatSlice {
	if len(g.Reservations) == 0 {
		return []vatSlice{{rate: def, base: g.Commission}}
	}
	var out []vatSlice
	for _, rl := range g.Reservations {
		rate := def
		if rl.Reservation.CommissionVATRate != nil {
			rate = *rl.Reservation.CommissionVATRate
		}
		i := 0
		for i < len(out) && !out[i].rate.Equal(rate) {
			i++
		}
		if i == len(out) {
			out = append(out, vatSlice{rate: rate})
		}
		out[i].base = out[i].base.Add(rl.CommissionAmount)
	}
	return out
}

// InvoiceLines líneas de la factura de servicios de gestión emitida al propietario:
// comisión por alojamiento y tipo de IVA (retención del propietario), cuota mensual y limpieza.
// Solo salen líneas con importe positivo.
func InvoiceLines(l entity.Liquidation) []entity.InvoiceLine {
	period := fmt.Sprintf("%02d/%d", l.Month, l.Year)
	retention := l.Stats.RetentionRate
	vat := l.Stats.CommissionVATRate

	var lines []entity.InvoiceLine
	add := func(concept, desc string, base, vatRate, retRate decimal.Decimal) {
		if !base.IsPositive() {
			return
		}
		line := invoicing.NewLine(strconv.Itoa(len(lines) + 1))
		line.Concept = concept
		line.Description = desc
		line = invoicing.SetVATRate(line, vatRate)
		line = invoicing.SetRetentionRate(line, retRate)
		lines = append(lines, invoicing.SetBase(line, base))
	}

	for _, g := range l.Groups {
		parts := commissionByVAT(g, vat)
		for _, c := range parts {
			concept := "Comisión de gestión - " + g.Property
			if len(parts) > 1 {
				concept += " (IVA " + c.rate.String() + "%)"
			}
			add(concept, period, c.base, c.rate, retention)
		}
	}
	add("Cuota mensual de gestión", period, l.Config.MonthlyFee, l.Config.MonthlyFeeVATRate, retention)
	add("Servicios de limpieza", period, l.Totals.TotalCleaning, vat, decimal.Zero)
	return lines
}
