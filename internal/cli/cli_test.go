package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
)

const testCSV = `Order ID,Order Date,Category,Sales
O1,2024-01-01,Tech,100
O1,2024-01-01,Tech,50
O2,2024-01-02,Office,30
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Data:   config.DataConfig{File: "sales_data.csv"},
		Report: config.ReportConfig{Title: "Simple Sales Dashboard", Currency: "PKR"},
		Logger: config.LoggerConfig{Level: "error", Format: "text"},
	}
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(Options{Config: cfg, Output: &out, LogOutput: io.Discard})
	c.SetArgs(args)
	err := c.Execute(context.Background())
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := run(t, testConfig(t), "summary", "--file", writeCSV(t))
	require.NoError(t, err)

	for _, want := range []string{
		"Simple Sales Dashboard",
		"(3 records)",
		"Total Sales (PKR): 180",
		"Total Orders: 2",
		"Average Order Value (PKR): 60",
		"=== Daily Sales Trend ===",
		"2024-01-01: 150.00",
		"2024-01-02: 30.00",
		"=== Total Sales per Category ===",
		"Tech: 150.00",
		"Office: 30.00",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSummary_FileFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.File = writeCSV(t)

	out, err := run(t, cfg, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Orders: 2")
}

func TestSummary_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")

	out, err := run(t, testConfig(t), "summary", "-f", path)
	require.Error(t, err)
	assert.Equal(t, "Error: The file '"+path+"' was not found. Please make sure it's in the same folder.", err.Error())
	assert.Empty(t, out)
}

func TestSummary_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Order ID,Order Date,Category,Sales\n"), 0o644))

	out, err := run(t, testConfig(t), "summary", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Sales (PKR): 0")
	assert.Contains(t, out, "(no data)")
}

func TestExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.xlsx")

	out, err := run(t, testConfig(t), "export", "--file", writeCSV(t), "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 records to "+dest)

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "O2", rows[1][0])

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(dest), ".export-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestExport_MissingFileWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "report.xlsx")

	_, err := run(t, testConfig(t), "export", "--file", filepath.Join(dir, "nope.csv"), "--out", dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	report := &models.Report{
		Title:       "Quarterly",
		RecordCount: 1,
		KPICards:    []models.KPICard{{Label: "Total Orders", Value: "1"}},
		SalesOverTime: []models.DateSales{
			{Label: "2024-01-01", Sales: 12.5},
		},
	}

	require.NoError(t, NewReporter(&buf).Handle("q.csv", report))

	out := buf.String()
	assert.Contains(t, out, "Quarterly\nSource: q.csv (1 records)")
	assert.Contains(t, out, "Total Orders: 1")
	assert.Contains(t, out, "2024-01-01: 12.50")
	assert.Contains(t, out, "=== Total Sales per Category ===\n(no data)")
}
