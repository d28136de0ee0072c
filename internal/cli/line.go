package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

type lineResult struct {
	Quantity      int    `json:"quantity"`
	VATRate       string `json:"vat_rate"`
	RetentionRate string `json:"retention_rate"`
	LastEdited    string `json:"last_edited"`
	UnitBase      string `json:"unit_base"`
	UnitNet       string `json:"unit_net"`
	Base          string `json:"base"`
	VAT           string `json:"vat"`
	Retention     string `json:"retention"`
	Net           string `json:"net"`
}

func newLineCmd() *cobra.Command {
	var (
		base, net, vat, retention string
		qty                       int
		asJSON                    bool
	)

	cmd := &cobra.Command{
		Use:   "line",
		Short: "Calcula una línea de factura a partir de la base o del neto",
		Example: `  gestionctl line --base 100 --vat 21 --retention 15
  gestionctl line --net 106 --qty 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vatRate, err := parseRate("vat", vat)
			if err != nil {
				return err
			}
			retRate, err := parseRate("retention", retention)
			if err != nil {
				return err
			}

			line := invoicing.NewLine("cli")
			line.Quantity = invoicing.ClampQuantity(qty)
			line = invoicing.SetVATRate(line, vatRate)
			line = invoicing.SetRetentionRate(line, retRate)

			if cmd.Flags().Changed("base") {
				v, err := parseAmount("base", base)
				if err != nil {
					return err
				}
				line = invoicing.SetBase(line, v)
			} else {
				v, err := parseAmount("net", net)
				if err != nil {
					return err
				}
				line = invoicing.SetNet(line, v)
			}

			res := lineResult{
				Quantity:      line.Quantity,
				VATRate:       line.VATRate.String(),
				RetentionRate: line.RetentionRate.String(),
				LastEdited:    string(line.LastEdited),
				UnitBase:      line.UnitBase.StringFixed(2),
				UnitNet:       line.UnitNet.StringFixed(2),
				Base:          invoicing.LineBase(line).StringFixed(2),
				VAT:           invoicing.LineVAT(line).StringFixed(2),
				Retention:     invoicing.LineRetention(line).StringFixed(2),
				Net:           invoicing.LineNet(line).StringFixed(2),
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}

			p := printer()
			p.Fprintf(out, "Cantidad          %d\n", line.Quantity)
			p.Fprintf(out, "Base unitaria     %s\n", money(p, line.UnitBase))
			p.Fprintf(out, "Neto unitario     %s\n", money(p, line.UnitNet))
			p.Fprintf(out, "Base              %s\n", money(p, invoicing.LineBase(line)))
			p.Fprintf(out, "IVA (%s%%)        %s\n", line.VATRate, money(p, invoicing.LineVAT(line)))
			p.Fprintf(out, "Retención (%s%%)  %s\n", line.RetentionRate, money(p, invoicing.LineRetention(line)))
			p.Fprintf(out, "Neto              %s\n", money(p, invoicing.LineNet(line)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&base, "base", "", "precio base unitario")
	f.StringVar(&net, "net", "", "precio neto unitario")
	f.StringVar(&vat, "vat", "21", "tipo de IVA (%)")
	f.StringVar(&retention, "retention", "0", "tipo de retención IRPF (%)")
	f.IntVar(&qty, "qty", 1, "cantidad (mínimo 1)")
	f.BoolVar(&asJSON, "json", false, "salida en JSON")
	cmd.MarkFlagsMutuallyExclusive("base", "net")
	cmd.MarkFlagsOneRequired("base", "net")
	return cmd
}

// parseAmount acepta coma o punto decimal; negativos se fuerzan a 0 como en el formulario.
func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return invoicing.ClampDecimal(d), nil
}

func parseRate(name, s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s: el tipo no puede ser negativo", name)
	}
	return d, nil
}
