package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// dateLayouts are tried in order. The first layout that parses wins, so
// month-first slash dates are preferred over day-first ones.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

type column struct {
	index int
	name  string
}

// schema maps the columns of a header row to their positions.
type schema struct {
	orderID   int
	orderDate int
	category  int
	sales     int
	extra     []column

	dates func(string) (time.Time, error)
}

func resolveSchema(path string, header []string) (schema, []string, error) {
	columns := uniqueColumns(header)
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}

	var missing []string
	for _, name := range models.RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return schema{}, nil, &MalformedError{
			Path:   path,
			Line:   1,
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	s := schema{
		orderID:   index[models.ColumnOrderID],
		orderDate: index[models.ColumnOrderDate],
		category:  index[models.ColumnCategory],
		sales:     index[models.ColumnSales],
		dates:     parseDate,
	}
	for i, name := range columns {
		switch i {
		case s.orderID, s.orderDate, s.category, s.sales:
			continue
		}
		s.extra = append(s.extra, column{index: i, name: name})
	}

	return s, columns, nil
}

// uniqueColumns trims the header names. A blank name becomes "Unnamed: i"
// and a repeated one gets a ".n" suffix, so the first occurrence keeps the
// plain name.
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		unique := name
		for n := 1; seen[unique]; n++ {
			unique = fmt.Sprintf("%s.%d", name, n)
		}
		seen[unique] = true
		columns[i] = unique
	}
	return columns
}

func (s schema) parse(path string, line int, row []string) (models.SalesRecord, error) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	fail := func(column, value, reason string) error {
		return &MalformedError{Path: path, Line: line, Column: column, Value: value, Reason: reason}
	}

	orderID := cell(s.orderID)
	if orderID == "" {
		return models.SalesRecord{}, fail(models.ColumnOrderID, "", "value is empty")
	}

	rawDate := cell(s.orderDate)
	if rawDate == "" {
		return models.SalesRecord{}, fail(models.ColumnOrderDate, "", "value is empty")
	}
	orderDate, err := s.dates(rawDate)
	if err != nil {
		return models.SalesRecord{}, fail(models.ColumnOrderDate, rawDate, "not a recognised date")
	}

	category := cell(s.category)
	if category == "" {
		return models.SalesRecord{}, fail(models.ColumnCategory, "", "value is empty")
	}

	rawSales := cell(s.sales)
	if rawSales == "" {
		return models.SalesRecord{}, fail(models.ColumnSales, "", "value is empty")
	}
	sales, err := decimal.NewFromString(rawSales)
	if err != nil {
		return models.SalesRecord{}, fail(models.ColumnSales, rawSales, "not a number")
	}

	record := models.SalesRecord{
		OrderID:   orderID,
		OrderDate: orderDate,
		Category:  category,
		Sales:     sales,
	}
	if len(s.extra) > 0 {
		record.Extra = make(map[string]string, len(s.extra))
		for _, col := range s.extra {
			record.Extra[col.name] = cell(col.index)
		}
	}
	return record, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
