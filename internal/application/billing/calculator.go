package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

// Calculator expone el motor de líneas y el agregador de totales a la API. Sin estado ni I/O.
type Calculator struct{}

// NewCalculator construye el calculador.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeLine aplica un cambio sobre una línea y devuelve la línea con sus importes.
func (c *Calculator) ComputeLine(in dto.ComputeLineRequest) (*dto.ComputeLineResponse, error) {
	line := LineFromDTO(in.Line)
	ch := invoicing.Change{Field: invoicing.ChangeField(in.Field)}

	switch ch.Field {
	case invoicing.FieldConcept, invoicing.FieldDescription:
		ch.Text = in.Value
	case invoicing.FieldBase, invoicing.FieldNet, invoicing.FieldVATRate, invoicing.FieldRetentionRate:
		v, err := decimal.NewFromString(in.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: valor %q no numérico", domain.ErrInvalidInput, in.Value)
		}
		ch.Value = invoicing.ClampDecimal(v)
	case invoicing.FieldQuantity:
		v, err := decimal.NewFromString(in.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: cantidad %q no numérica", domain.ErrInvalidInput, in.Value)
		}
		ch.Value = decimal.NewFromInt(int64(invoicing.ClampQuantity(int(v.IntPart()))))
	default:
		return nil, fmt.Errorf("%w: campo %q", domain.ErrInvalidInput, in.Field)
	}

	out := invoicing.Apply(line, ch)
	return &dto.ComputeLineResponse{
		Line:          LineToDTO(out),
		LineBase:      invoicing.LineBase(out),
		LineVAT:       invoicing.LineVAT(out),
		LineRetention: invoicing.LineRetention(out),
		LineNet:       invoicing.LineNet(out),
		Valid:         invoicing.IsValid(out),
	}, nil
}

// ComputeTotals agrega las líneas válidas de la petición.
func (c *Calculator) ComputeTotals(in dto.ComputeTotalsRequest) dto.InvoiceTotalsDTO {
	lines := LinesFromDTO(in.Lines)
	valid := invoicing.ValidLines(lines)
	return TotalsToDTO(invoicing.ComputeTotals(valid), invoicing.HasRetentions(valid))
}
