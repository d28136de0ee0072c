package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
)

func newNumberCmd() *cobra.Command {
	var (
		prefix  string
		year    int
		current int64
		count   int
	)

	cmd := &cobra.Command{
		Use:     "number",
		Short:   "Muestra el siguiente número de factura de una serie",
		Example: "  gestionctl number --prefix F --year 2026 --current 41",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix = strings.TrimSpace(prefix)
			if prefix == "" {
				return fmt.Errorf("--prefix: requerido")
			}
			if current < 0 {
				return fmt.Errorf("--current: no puede ser negativo")
			}
			if count < 1 {
				count = 1
			}
			series := entity.InvoiceSeries{Prefix: prefix, Year: year, CurrentNumber: current}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, invoicing.ProposeNumber(series))
			for i := 2; i <= count; i++ {
				fmt.Fprintln(out, invoicing.FormatNumber(prefix, year, current+int64(i)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&prefix, "prefix", "F", "prefijo de la serie")
	f.IntVar(&year, "year", time.Now().Year(), "año de la serie")
	f.Int64Var(&current, "current", 0, "último número emitido")
	f.IntVar(&count, "count", 1, "cuántos números consecutivos mostrar")
	return cmd
}
