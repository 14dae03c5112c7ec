package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

func TestWriteXLSX(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	report := &models.Report{
		KPICards: []models.KPICard{
			{Label: "Total Sales (PKR)", Value: "180"},
			{Label: "Total Orders", Value: "2"},
		},
		SalesOverTime: []models.DateSales{
			{Label: "2024-01-01", Sales: 150},
			{Label: "2024-01-02", Sales: 30},
		},
		SalesByCategory: []models.CategorySales{
			{Category: "Tech", Sales: 150},
			{Category: "Office", Sales: 30},
		},
		Rows: []models.SalesRecord{
			{OrderID: "O2", OrderDate: day(2), Category: "Office", Sales: decimal.NewFromInt(30)},
			{OrderID: "O1", OrderDate: day(1), Category: "Tech", Sales: decimal.RequireFromString("100.5")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRecords, SheetByDate, SheetByCategory, SheetKPIs}, f.GetSheetList())

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Order ID", "Order Date", "Category", "Sales"}, rows[0])
	assert.Equal(t, []string{"O2", "2024-01-02", "Office", "30"}, rows[1])
	assert.Equal(t, []string{"O1", "2024-01-01", "Tech", "100.5"}, rows[2])

	byCategory, err := f.GetRows(SheetByCategory)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Category", "Sales"}, {"Tech", "150"}, {"Office", "30"}}, byCategory)

	kpis, err := f.GetRows(SheetKPIs)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Sales (PKR)", "180"}, kpis[1])
}

func TestWriteXLSX_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, &models.Report{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX_AllColumns(t *testing.T) {
	report := &models.Report{
		Columns: []string{"Region", "Order ID", "Order Date", "Category", "Sales", "Notes"},
		Rows: []models.SalesRecord{{
			OrderID:   "O1",
			OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Category:  "Furniture",
			Sales:     decimal.RequireFromString("-19.99"),
			Extra:     map[string]string{"Region": "North", "Notes": "refund"},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Region", "Order ID", "Order Date", "Category", "Sales", "Notes"},
		{"North", "O1", "2024-03-15", "Furniture", "-19.99", "refund"},
	}, rows)
}
