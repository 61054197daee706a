package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"xlsdash/internal/core"
)

const planCSV = `Month,City,City Type,Projected Enrollments
2024-01,Rome,Metro,10
2024-01,Milan,Metro,5
2024-02,Rome,Metro,7
2024-02,Lodi,Town,3
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte(planCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "xlsdash-cli dev\n", out)
}

func TestSheets(t *testing.T) {
	path := writePlan(t)

	out, _, err := run(t, "sheets", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SHEET")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "Month, City, City_Type, Projected_Enrollments")

	out, _, err = run(t, "sheets", path, "-o", "json")
	require.NoError(t, err)
	var infos []struct {
		Name    string   `json:"name"`
		Rows    int      `json:"rows"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "plan", infos[0].Name)
	assert.Equal(t, 4, infos[0].Rows)
}

func TestSheets_Errors(t *testing.T) {
	_, _, err := run(t, "sheets", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	_, _, err = run(t, "sheets", writePlan(t), "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output")

	_, _, err = run(t, "sheets")
	assert.Error(t, err)
}

func TestSummary_ByMonthText(t *testing.T) {
	out, _, err := run(t, "summary", writePlan(t))
	require.NoError(t, err)

	assert.Contains(t, out, "(4 of 4 rows)")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "2024-02")
	assert.Contains(t, out, "Rome (10)")
	assert.Contains(t, out, "Milan (5)")
	assert.Contains(t, out, "12.50")
}

func TestSummary_ByCityJSON(t *testing.T) {
	out, _, err := run(t, "summary", writePlan(t), "--by", "city", "--month", "2024-02", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Mode   string            `json:"mode"`
		Month  string            `json:"month"`
		Totals []core.GroupTotal `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "city", view.Mode)
	assert.Equal(t, "2024-02", view.Month)
	assert.Equal(t, []core.GroupTotal{{Key: "Lodi", Value: 3}, {Key: "Rome", Value: 7}}, view.Totals)
}

func TestSummary_NoDataYAML(t *testing.T) {
	out, _, err := run(t, "summary", writePlan(t), "--city", "Paris", "-o", "yaml")
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, true, view["no_data"])
	assert.Equal(t, 0, view["row_count"])
}

func TestSummary_MonthWithoutRowsKeepsTotals(t *testing.T) {
	out, _, err := run(t, "summary", writePlan(t), "--month", "2024-03")
	require.NoError(t, err)

	assert.Contains(t, out, "PROJECTED ENROLLMENTS")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, `no data for month "2024-03"`)
	assert.NotContains(t, out, "No data for the current selection.")
}

func TestSummary_RejectsUnknownGrouping(t *testing.T) {
	_, _, err := run(t, "summary", writePlan(t), "--by", "week")
	assert.ErrorContains(t, err, "unsupported grouping")
}

func TestExport_CSVToStdout(t *testing.T) {
	out, _, err := run(t, "export", writePlan(t), "--city", "Rome", "--out", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, []string{
		"Month,City,City_Type,Projected_Enrollments",
		`"2024-01","Rome","Metro","10"`,
		`"2024-02","Rome","Metro","7"`,
	}, lines)
}

func TestExport_XLSXToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	_, stderr, err := run(t, "export", writePlan(t), "--format", "xlsx", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 4 rows")

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("plan")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestExport_Errors(t *testing.T) {
	_, _, err := run(t, "export", writePlan(t), "--format", "pdf")
	assert.Error(t, err)

	_, _, err = run(t, "export", writePlan(t), "--city", "Paris", "--out", "-")
	assert.Error(t, err)
}

func TestWatch_RequiresBrokerURL(t *testing.T) {
	t.Setenv("AMQP_URL", "")
	_, _, err := run(t, "watch")
	assert.ErrorContains(t, err, "no broker URL")
}

func TestWatchFlags_Resolve(t *testing.T) {
	t.Setenv("AMQP_URL", "amqp://env")
	t.Setenv("AMQP_EXCHANGE", "")
	t.Setenv("AMQP_ROUTING_KEY", "")

	f := &watchFlags{routingKey: "custom.key"}
	f.resolve()
	assert.Equal(t, "amqp://env", f.url)
	assert.Equal(t, "xlsdash", f.exchange)
	assert.Equal(t, "custom.key", f.routingKey)
}
