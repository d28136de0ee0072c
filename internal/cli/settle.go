package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	appsettle "github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/internal/domain/entity"
	domsettle "github.com/jhoicas/gestion-api/internal/domain/settlement"
)

const dateLayout = "2006-01-02"

// monthFile fichero YAML de un mes. Importes y tipos como texto ("12,50" o "12.50").
type monthFile struct {
	Year  int `yaml:"year"`
	Month int `yaml:"month"`
	Owner struct {
		ID            string `yaml:"id"`
		Name          string `yaml:"name"`
		Kind          string `yaml:"kind"`
		TaxID         string `yaml:"tax_id"`
		RetentionRate string `yaml:"retention_rate"`
	} `yaml:"owner"`
	Config struct {
		CommissionType    string `yaml:"commission_type"`
		CommissionValue   string `yaml:"commission_value"`
		CommissionVATRate string `yaml:"commission_vat_rate"`
		CleaningType      string `yaml:"cleaning_type"`
		CleaningValue     string `yaml:"cleaning_value"`
		MonthlyFee        string `yaml:"monthly_fee"`
		MonthlyFeeVATRate string `yaml:"monthly_fee_vat_rate"`
	} `yaml:"config"`
	Reservations []struct {
		ID               string `yaml:"id"`
		Property         string `yaml:"property"`
		ConfirmationCode string `yaml:"code"`
		Guest            string `yaml:"guest"`
		CheckIn          string `yaml:"check_in"`
		CheckOut         string `yaml:"check_out"`
		Nights           int    `yaml:"nights"`
		Gross            string `yaml:"gross"`
		Cleaning         string `yaml:"cleaning"`
		CommissionRate   string `yaml:"commission_rate"`
		CommissionFixed  string `yaml:"commission_fixed"`
	} `yaml:"reservations"`
	Expenses []struct {
		ID       string `yaml:"id"`
		Property string `yaml:"property"`
		Concept  string `yaml:"concept"`
		Category string `yaml:"category"`
		Amount   string `yaml:"amount"`
		VAT      string `yaml:"vat"`
		Date     string `yaml:"date"`
	} `yaml:"expenses"`
}

func newSettleCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "settle",
		Short:   "Calcula la liquidación mensual de un propietario desde un fichero YAML",
		Example: "  gestionctl settle --file febrero.yaml --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("leer %s: %w", file, err)
			}
			in, err := parseMonthFile(raw)
			if err != nil {
				return err
			}
			liq, err := domsettle.Aggregate(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, appsettle.ToResponse(&liq))
			}

			p := printer()
			p.Fprintf(out, "Liquidación %02d/%d · %s\n", liq.Month, liq.Year, in.Owner.DisplayName)
			for _, g := range liq.Groups {
				p.Fprintf(out, "  %-24s %3d noches  %3d%%  ingresos %s  neto %s  gastos %s\n",
					g.Property, g.TotalNights, g.OccupancyRate,
					money(p, g.Income), money(p, g.NetToOwner), money(p, g.ExpensesSubtotal))
			}
			t := liq.Totals
			p.Fprintf(out, "Ingresos          %s\n", money(p, t.TotalIncome))
			p.Fprintf(out, "Comisión          %s\n", money(p, t.TotalCommission))
			p.Fprintf(out, "IVA comisión      %s\n", money(p, t.TotalCommissionVAT))
			p.Fprintf(out, "Limpieza          %s\n", money(p, t.TotalCleaning))
			p.Fprintf(out, "Gastos            %s\n", money(p, t.TotalExpenses))
			p.Fprintf(out, "A transferir      %s\n", money(p, t.TotalAmount))
			p.Fprintf(out, "Retención (%s%%)  %s\n", liq.Stats.RetentionRate, money(p, t.TotalRetention))
			p.Fprintf(out, "Ocupación         %d%% (%d noches, %d días)\n",
				liq.Stats.OccupancyRate, liq.Stats.TotalNights, liq.Stats.DaysInMonth)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fichero YAML del mes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseMonthFile convierte el YAML en la entrada del agregador.
// Las reservas sin noches las calculan a partir de las fechas.
func parseMonthFile(raw []byte) (domsettle.Input, error) {
	var mf monthFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return domsettle.Input{}, fmt.Errorf("yaml: %w", err)
	}
	if mf.Owner.ID == "" {
		mf.Owner.ID = "owner"
	}

	var errs []error
	dec := func(field, s string) decimal.Decimal {
		if strings.TrimSpace(s) == "" {
			return decimal.Zero
		}
		d, err := parseDecimal(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return d
	}
	optDec := func(field, s string) *decimal.Decimal {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d := dec(field, s)
		return &d
	}
	date := func(field, s string) time.Time {
		t, err := time.Parse(dateLayout, strings.TrimSpace(s))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: fecha %q no válida (AAAA-MM-DD)", field, s))
		}
		return t
	}

	owner := entity.Owner{
		ID:            mf.Owner.ID,
		Kind:          entity.OwnerKind(strings.ToUpper(mf.Owner.Kind)),
		TaxID:         mf.Owner.TaxID,
		DisplayName:   mf.Owner.Name,
		RetentionRate: optDec("owner.retention_rate", mf.Owner.RetentionRate),
	}
	if owner.Kind == "" {
		owner.Kind = entity.OwnerIndividual
	}

	cfg := domsettle.DefaultConfig(owner.ID)
	if mf.Config.CommissionType != "" {
		cfg.CommissionType = strings.ToUpper(mf.Config.CommissionType)
	}
	if mf.Config.CleaningType != "" {
		cfg.CleaningType = strings.ToUpper(mf.Config.CleaningType)
	}
	cfg.CommissionValue = dec("config.commission_value", mf.Config.CommissionValue)
	cfg.CleaningValue = dec("config.cleaning_value", mf.Config.CleaningValue)
	cfg.MonthlyFee = dec("config.monthly_fee", mf.Config.MonthlyFee)
	if v := optDec("config.commission_vat_rate", mf.Config.CommissionVATRate); v != nil {
		cfg.CommissionVATRate = *v
	}
	if v := optDec("config.monthly_fee_vat_rate", mf.Config.MonthlyFeeVATRate); v != nil {
		cfg.MonthlyFeeVATRate = *v
	}

	reservations := make([]entity.Reservation, 0, len(mf.Reservations))
	for i, r := range mf.Reservations {
		field := fmt.Sprintf("reservations[%d]", i)
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("r%d", i+1)
		}
		res := entity.Reservation{
			ID:                    id,
			OwnerID:               owner.ID,
			Property:              r.Property,
			ConfirmationCode:      r.ConfirmationCode,
			GuestName:             r.Guest,
			CheckIn:               date(field+".check_in", r.CheckIn),
			CheckOut:              date(field+".check_out", r.CheckOut),
			Nights:                r.Nights,
			GrossHostEarnings:     dec(field+".gross", r.Gross),
			CleaningAmount:        optDec(field+".cleaning", r.Cleaning),
			CommissionRate:        optDec(field+".commission_rate", r.CommissionRate),
			CommissionFixedAmount: optDec(field+".commission_fixed", r.CommissionFixed),
		}
		if res.Nights == 0 && res.CheckOut.After(res.CheckIn) {
			res.Nights = int(res.CheckOut.Sub(res.CheckIn).Hours() / 24)
		}
		reservations = append(reservations, res)
	}

	expenses := make([]entity.Expense, 0, len(mf.Expenses))
	for i, e := range mf.Expenses {
		field := fmt.Sprintf("expenses[%d]", i)
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		expenses = append(expenses, entity.Expense{
			ID:        id,
			OwnerID:   owner.ID,
			Property:  e.Property,
			Concept:   e.Concept,
			Category:  e.Category,
			Amount:    dec(field+".amount", e.Amount),
			VATAmount: dec(field+".vat", e.VAT),
			Date:      date(field+".date", e.Date),
		})
	}

	if err := errors.Join(errs...); err != nil {
		return domsettle.Input{}, err
	}
	return domsettle.Input{
		ID:           "cli",
		Owner:        owner,
		Year:         mf.Year,
		Month:        mf.Month,
		Reservations: reservations,
		Expenses:     expenses,
		Config:       cfg,
	}, nil
}

// parseDecimal acepta "1234.5", "1234,5" y "1.234,50".
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe %q no válido", s)
	}
	return d, nil
}
