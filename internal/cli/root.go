// Package cli comandos de operador: calculadora de líneas, numeración y liquidación
// de un mes a partir de un fichero, sin servidor ni base de datos.
package cli

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewRootCommand construye el árbol de comandos de gestionctl.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gestionctl",
		Short: "Herramientas de operador para facturación y liquidaciones",
		Long: `gestionctl reproduce los cálculos del servicio desde la terminal:
precio base/neto de una línea, número de factura de una serie y la liquidación
mensual de un propietario a partir de un fichero YAML.`,
		SilenceUsage: true,
	}
	root.AddCommand(newLineCmd())
	root.AddCommand(newNumberCmd())
	root.AddCommand(newSettleCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return NewRootCommand().Execute()
}

// printer formatea importes con separadores españoles (1.234,50).
func printer() *message.Printer {
	return message.NewPrinter(language.Spanish)
}

func money(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%.2f €", d.Round(2).InexactFloat64())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
