package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonscope/internal/cli"
	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/report"
)

// setupCLITest isolates the global and project config directories and
// registers cleanup for global state.
func setupCLITest(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("CARBONSCOPE_HOME", home)
	t.Setenv("CARBONSCOPE_PROJECT_DIR", project)
	t.Setenv("CARBONSCOPE_LOG_LEVEL", "error")
	t.Setenv("CARBONSCOPE_OUTPUT_FORMAT", "")
	t.Setenv("CARBONSCOPE_LOG_FORMAT", "")
	t.Setenv("CARBONSCOPE_REGION", "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home, project
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeDocument(t *testing.T, out string) report.JSONDocument {
	t.Helper()
	var doc report.JSONDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	require.NotNil(t, doc.Result)
	return doc
}

var scenarioBArgs = []string{
	"estimate", "detail", "--region", "US",
	"--annual-kwh", "500000", "--gasoline", "15000", "--diesel", "5000",
	"--refrigerant-kg", "5", "--gwp", "1430",
	"--scope3", "--water", "2000", "--waste", "50",
}

func TestEstimateQuick_DefaultPrice(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "estimate", "quick", "--region", "tw",
		"--monthly-bill", "5000", "--cars", "5", "--motorcycles", "10", "--output", "json")
	require.NoError(t, err)

	doc := decodeDocument(t, out)
	assert.InDelta(t, 4.4, doc.Input.Quick.PricePerKWh, 1e-12)
	assert.True(t, doc.Input.Quick.UseRuleOfThumb)
	assert.InDelta(t, 6.75, doc.Result.Scope2Electricity, 1e-9)
	assert.InDelta(t, 13.8, doc.Result.Scope1Vehicles, 1e-9)
	assert.InDelta(t, 20.55, doc.Result.TotalS1S2, 1e-9)
}

func TestEstimateQuick_RegionFromConfig(t *testing.T) {
	setupCLITest(t)
	t.Setenv("CARBONSCOPE_REGION", "JP")

	out, _, err := execute(t, "estimate", "quick", "--monthly-bill", "1000", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, "JP", string(decodeDocument(t, out).Result.Region))
}

func TestEstimateDetail_ScenarioB(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, append(scenarioBArgs, "--output", "text", "--precision", "2")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Scope 2 (Electricity): 193.00 tCO2e (77.93%)")
	assert.Contains(t, out, "Scope 1 Total: 54.65 tCO2e")
	assert.Contains(t, out, "Total Emissions (Scope 1+2): 247.65 tCO2e")
	assert.Contains(t, out, "Total Emissions (with Scope 3): 271.30 tCO2e")
}

func TestEstimateDetail_RefrigerantPreset(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "estimate", "detail", "--region", "US",
		"--refrigerant-kg", "5", "--refrigerant", "r-134a", "--output", "json")
	require.NoError(t, err)
	assert.InDelta(t, 7.15, decodeDocument(t, out).Result.Scope1Refrigerant, 1e-9)

	_, _, err = execute(t, "estimate", "detail", "--refrigerant", "R-999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown refrigerant")

	_, _, err = execute(t, "estimate", "detail", "--refrigerant", "R-134a", "--gwp", "100")
	require.Error(t, err)
}

func TestEstimateDetail_Scope3Warning(t *testing.T) {
	setupCLITest(t)

	out, stderr, err := execute(t, "estimate", "detail", "--region", "US",
		"--annual-kwh", "1000", "--water", "10", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ignored without --scope3")
	assert.InDelta(t, 0.0, decodeDocument(t, out).Result.Scope3Minor, 1e-12)
}

func TestEstimate_InvalidInput(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "estimate", "detail", "--region", "US", "--annual-kwh", "-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	assert.Contains(t, err.Error(), "detail.annual_kwh")

	_, _, err = execute(t, "estimate", "quick", "--region", "XX", "--monthly-bill", "10")
	require.Error(t, err)

	_, _, err = execute(t, "estimate", "quick", "--monthly-bill", "10", "--output", "xml")
	require.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, _, err = execute(t, "estimate", "quick", "--monthly-bill", "10", "--precision", "12")
	require.ErrorIs(t, err, config.ErrPrecisionOutOfRange)
}

func TestEstimate_FailAbove(t *testing.T) {
	setupCLITest(t)
	args := []string{"estimate", "quick", "--region", "TW", "--monthly-bill", "5000",
		"--cars", "5", "--motorcycles", "10", "--output", "json"}

	_, _, err := execute(t, append(args, "--fail-above", "100")...)
	require.NoError(t, err)

	out, _, err := execute(t, append(args, "--fail-above", "10")...)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cli.DefaultThresholdExitCode, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "exceed threshold")
	assert.NotEmpty(t, out, "the report is still written")

	_, _, err = execute(t, append(args, "--fail-above", "10", "--exit-code", "7")...)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.ExitCode)
}

func TestEstimate_PDFToFile(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "report.pdf")

	out, stderr, err := execute(t, append(scenarioBArgs, "--output", "pdf", "--out", path)...)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Report written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestEstimate_FactorSetMismatch(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "config", "set", "calculator.factor_set_constraint", "^2025.0.0", "--global")
	require.NoError(t, err)

	_, _, err = execute(t, "estimate", "quick", "--monthly-bill", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factor set check failed")
}

const scenarioFile = `scenarios:
  - name: taipei-office
    region: tw
    mode: quick
    quick: {monthly_bill: 5000, price_per_kwh: 4.4, car_count: 5, motorcycle_count: 10}
  - name: plant
    region: US
    mode: detail
    detail:
      annual_kwh: 500000
      gasoline_liters_year: 15000
      diesel_liters_year: 5000
      refrigerant_leak_kg: 5
      refrigerant_gwp: 1430
  - name: broken
    region: TW
    mode: detail
    detail: {annual_kwh: -1}
`

func writeScenarioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioFile), 0o600))
	return path
}

func TestEstimateBatch(t *testing.T) {
	setupCLITest(t)
	path := writeScenarioFile(t)

	out, _, err := execute(t, "estimate", "batch", "--file", path, "--output", "json", "--concurrency", "2")
	require.NoError(t, err)

	var got report.BatchJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 3)
	assert.Equal(t, "taipei-office", got.Results[0].Name)
	assert.Equal(t, "broken", got.Results[2].Name)
	assert.Contains(t, got.Results[2].Error, "detail.annual_kwh")
	assert.Equal(t, 1, got.Totals.Failed)
	assert.InDelta(t, 268.2, got.Totals.TotalS1S2, 1e-9)

	out, _, err = execute(t, "estimate", "batch", "--file", path, "--output", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "3 scenario(s), 1 failed")
}

func TestEstimateBatch_StrictAndThreshold(t *testing.T) {
	setupCLITest(t)
	path := writeScenarioFile(t)

	_, _, err := execute(t, "estimate", "batch", "--file", path, "--output", "json", "--strict")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "1 of 3 scenario(s) rejected")

	_, _, err = execute(t, "estimate", "batch", "--file", path, "--output", "json", "--fail-above", "200")
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cli.DefaultThresholdExitCode, exitErr.ExitCode)
}

func TestEstimateBatch_Errors(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "estimate", "batch")
	require.Error(t, err, "--file is required")

	_, _, err = execute(t, "estimate", "batch", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading scenarios")
}

func TestRegionsCmd(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "Taiwan")
	assert.Contains(t, out, "0.495")

	out, _, err = execute(t, "regions", "--output", "json")
	require.NoError(t, err)
	var listing report.RegionListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Len(t, listing.Regions, 5)
}

func TestEstimateInteractive_RejectsFlags(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "estimate", "interactive", "--mode", "hourly")
	require.ErrorIs(t, err, emissions.ErrUnknownMode)

	_, _, err = execute(t, "estimate", "interactive", "--region", "XX")
	require.ErrorIs(t, err, emissions.ErrUnknownRegion)
}
