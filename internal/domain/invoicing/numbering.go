package invoicing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
)

// ProposeNumber devuelve el siguiente número de la serie: prefijo + YY + contador a 4 dígitos.
// Solo lee la serie; el contador lo incrementa la persistencia al crear la factura.
func ProposeNumber(series entity.InvoiceSeries) string {
	return FormatNumber(series.Prefix, series.Year, series.CurrentNumber+1)
}

// FormatNumber compone el número: FormatNumber("F", 2026, 1) = "F260001".
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%02d%04d", prefix, year%100, seq)
}

// NumberMode modo del campo número en el formulario.
type NumberMode string

const (
	NumberAuto   NumberMode = "AUTO"
	NumberManual NumberMode = "MANUAL"
)

// minCheckLength longitud mínima para consultar duplicados.
const minCheckLength = 3

// NumberDraft estado del número de factura mientras se edita.
// En AUTO se recalcula al cambiar la serie; en MANUAL se congela hasta RevertToAuto.
type NumberDraft struct {
	Mode       NumberMode
	Value      string
	Duplicate  bool // bloquea el envío
	Unverified bool // la consulta de duplicados falló; no bloquea
}

// NewNumberDraft borrador en modo automático para la serie.
func NewNumberDraft(series entity.InvoiceSeries) NumberDraft {
	return NumberDraft{Mode: NumberAuto, Value: ProposeNumber(series)}
}

// SelectSeries recalcula el número si el usuario no lo editó a mano.
func (d NumberDraft) SelectSeries(series entity.InvoiceSeries) NumberDraft {
	if d.Mode == NumberManual {
		return d
	}
	return NumberDraft{Mode: NumberAuto, Value: ProposeNumber(series)}
}

// Edit pasa a modo manual con el valor introducido.
func (d NumberDraft) Edit(value string) NumberDraft {
	return NumberDraft{Mode: NumberManual, Value: strings.TrimSpace(value)}
}

// RevertToAuto vuelve al número propuesto por la serie.
func (d NumberDraft) RevertToAuto(series entity.InvoiceSeries) NumberDraft {
	return NewNumberDraft(series)
}

// NeedsDuplicateCheck solo en modo manual y con un valor mínimamente largo.
func (d NumberDraft) NeedsDuplicateCheck() bool {
	return d.Mode == NumberManual && len(d.Value) >= minCheckLength
}

// WithCheck incorpora el resultado de la consulta de duplicados.
func (d NumberDraft) WithCheck(exists, verified bool) NumberDraft {
	if !d.NeedsDuplicateCheck() {
		d.Duplicate, d.Unverified = false, false
		return d
	}
	d.Duplicate = exists
	d.Unverified = !verified
	return d
}

// BlocksSubmission un duplicado confirmado impide enviar el formulario.
func (d NumberDraft) BlocksSubmission() bool {
	return d.Duplicate
}
