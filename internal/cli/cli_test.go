package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/application/dto"
	"github.com/jhoicas/gestion-api/internal/cli"
	"github.com/jhoicas/gestion-api/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ── line ─────────────────────────────────────────────────────────────────────

func TestLine_DesdeBase(t *testing.T) {
	out, err := run(t, "line", "--base", "100", "--vat", "21", "--retention", "15", "--qty", "2", "--json")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "106.00", res["unit_net"])
	assert.Equal(t, "200.00", res["base"])
	assert.Equal(t, "42.00", res["vat"])
	assert.Equal(t, "30.00", res["retention"])
	assert.Equal(t, "212.00", res["net"])
	assert.Equal(t, "BASE", res["last_edited"])
}

func TestLine_DesdeNetoConComa(t *testing.T) {
	out, err := run(t, "line", "--net", "121,00", "--json")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "100.00", res["unit_base"])
	assert.Equal(t, "NET", res["last_edited"])
}

func TestLine_CantidadMinimaUno(t *testing.T) {
	out, err := run(t, "line", "--base", "10", "--qty", "0", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"quantity": 1`)
}

func TestLine_BaseYNetoExcluyentes(t *testing.T) {
	_, err := run(t, "line", "--base", "10", "--net", "12")
	require.Error(t, err)

	_, err = run(t, "line")
	require.Error(t, err)
}

func TestLine_ImporteNoValido(t *testing.T) {
	_, err := run(t, "line", "--base", "diez")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--base")
}

func TestLine_SalidaTexto(t *testing.T) {
	out, err := run(t, "line", "--base", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Base unitaria")
	assert.Contains(t, out, "Neto")
}

// ── number ───────────────────────────────────────────────────────────────────

func TestNumber(t *testing.T) {
	out, err := run(t, "number", "--prefix", "F", "--year", "2026", "--current", "41")
	require.NoError(t, err)
	assert.Equal(t, "F260042\n", out)
}

func TestNumber_Consecutivos(t *testing.T) {
	out, err := run(t, "number", "--prefix", "R", "--year", "2027", "--current", "0", "--count", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"R270001", "R270002", "R270003"}, strings.Fields(out))
}

func TestNumber_PrefijoVacio(t *testing.T) {
	_, err := run(t, "number", "--prefix", " ")
	require.Error(t, err)
}

// ── settle ───────────────────────────────────────────────────────────────────

const febrero = `
year: 2026
month: 2
owner:
  id: own-1
  name: Inversiones Costa SL
  kind: company
config:
  commission_type: PERCENTAGE
  commission_value: 20
  cleaning_type: FIXED_PER_RESERVATION
  cleaning_value: 50
reservations:
  - id: r1
    property: Casa Mar
    check_in: 2026-02-01
    check_out: 2026-02-05
    gross: 500
  - id: r2
    property: Ático Sol
    check_in: 2026-02-10
    check_out: 2026-02-17
    gross: "700,00"
    cleaning: 30
expenses:
  - property: Casa Mar
    concept: Fontanero
    amount: 60
    vat: "12.60"
    date: 2026-02-12
`

func writeMonth(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSettle_JSON(t *testing.T) {
	out, err := run(t, "settle", "--file", writeMonth(t, febrero), "--json")
	require.NoError(t, err)

	var res dto.LiquidationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Casa Mar", res.Groups[0].Property)
	assert.Equal(t, 4, res.Groups[0].TotalNights)
	assert.Equal(t, 14, res.Groups[0].OccupancyRate)
	assertDec(t, "329", res.Groups[0].NetToOwner, "neto Casa Mar")
	assertDec(t, "500.6", res.Groups[1].NetToOwner, "neto Ático Sol")

	assertDec(t, "1200", res.Totals.TotalIncome, "ingresos")
	assertDec(t, "240", res.Totals.TotalCommission, "comisión")
	assertDec(t, "50.4", res.Totals.TotalCommissionVAT, "IVA comisión")
	assertDec(t, "80", res.Totals.TotalCleaning, "limpieza")
	assertDec(t, "72.6", res.Totals.TotalExpenses, "gastos")
	assertDec(t, "757", res.Totals.TotalAmount, "a transferir")
	assertDec(t, "36", res.Totals.TotalRetention, "retención")

	assert.Equal(t, 28, res.Stats.DaysInMonth)
	assert.Equal(t, 11, res.Stats.TotalNights)
	assert.Equal(t, 20, res.Stats.OccupancyRate)
	assert.Equal(t, "DRAFT", res.Status)
}

func TestSettle_Texto(t *testing.T) {
	out, err := run(t, "settle", "-f", writeMonth(t, febrero))
	require.NoError(t, err)
	assert.Contains(t, out, "Inversiones Costa SL")
	assert.Contains(t, out, "Casa Mar")
	assert.Contains(t, out, "A transferir")
}

func TestSettle_PeriodoInvalido(t *testing.T) {
	_, err := run(t, "settle", "--file", writeMonth(t, "year: 2026\nmonth: 13\n"))
	require.Error(t, err)
}

func TestSettle_ErroresAcumulados(t *testing.T) {
	content := `
year: 2026
month: 2
reservations:
  - property: Casa Mar
    check_in: 01/02/2026
    check_out: 2026-02-05
    gross: mucho
`
	_, err := run(t, "settle", "--file", writeMonth(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reservations[0].check_in")
	assert.Contains(t, err.Error(), "reservations[0].gross")
}

func TestSettle_FicheroInexistente(t *testing.T) {
	_, err := run(t, "settle", "--file", filepath.Join(t.TempDir(), "no.yaml"))
	require.Error(t, err)
}

// ── token ────────────────────────────────────────────────────────────────────

func TestToken(t *testing.T) {
	out, err := run(t, "token", "--user", "u-1", "--company", "c-1", "--role", "gestor", "--secret", "s3cret", "--minutes", "5")
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, jwt.RoleManager, claims.Role)
}

func TestToken_RolDesconocido(t *testing.T) {
	_, err := run(t, "token", "--user", "u-1", "--role", "root", "--secret", "x", "--minutes", "5")
	require.Error(t, err)
}
