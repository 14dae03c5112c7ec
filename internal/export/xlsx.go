package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	SheetRecords    = "Records"
	SheetByDate     = "Sales Over Time"
	SheetByCategory = "Sales by Category"
	SheetKPIs       = "KPIs"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteXLSX writes the report as a workbook with one sheet per view. The
// records sheet carries every column of the source file and is in table
// order, newest first.
func WriteXLSX(w io.Writer, report *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRecords); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetByDate, SheetByCategory, SheetKPIs} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	columns := report.TableColumns()
	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	records := make([][]any, 0, len(report.Rows)+1)
	records = append(records, header)
	for _, row := range report.Rows {
		records = append(records, recordCells(columns, row))
	}

	byDate := make([][]any, 0, len(report.SalesOverTime)+1)
	byDate = append(byDate, []any{models.ColumnOrderDate, models.ColumnSales})
	for _, d := range report.SalesOverTime {
		byDate = append(byDate, []any{d.Label, d.Sales})
	}

	byCategory := make([][]any, 0, len(report.SalesByCategory)+1)
	byCategory = append(byCategory, []any{models.ColumnCategory, models.ColumnSales})
	for _, c := range report.SalesByCategory {
		byCategory = append(byCategory, []any{c.Category, c.Sales})
	}

	kpis := [][]any{{"Metric", "Value"}}
	for _, card := range report.KPICards {
		kpis = append(kpis, []any{card.Label, card.Value})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{SheetRecords, records},
		{SheetByDate, byDate},
		{SheetByCategory, byCategory},
		{SheetKPIs, kpis},
	} {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// recordCells lays a record out in column order. Sales stays numeric so the
// workbook can sum it.
func recordCells(columns []string, row models.SalesRecord) []any {
	cells := make([]any, len(columns))
	for i, name := range columns {
		if name == models.ColumnSales {
			cells[i] = row.Sales.InexactFloat64()
			continue
		}
		cells[i] = row.Value(name)
	}
	return cells
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
