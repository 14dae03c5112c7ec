package services

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// categoryPalette is a qualitative palette; colours repeat after ten
// categories.
var categoryPalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

func CategoryColor(i int) string {
	return categoryPalette[i%len(categoryPalette)]
}

func TotalSales(ds *models.Dataset) decimal.Decimal {
	total := decimal.Zero
	if ds == nil {
		return total
	}
	for _, rec := range ds.Records {
		total = total.Add(rec.Sales)
	}
	return total
}

// ComputeKPIs truncates every value toward zero. The average is taken over
// rows, so an order split across several rows counts several times.
func ComputeKPIs(ds *models.Dataset) models.KPIs {
	total := TotalSales(ds)
	rows := ds.Len()

	orders := make(map[string]struct{}, rows)
	if ds != nil {
		for _, rec := range ds.Records {
			orders[rec.OrderID] = struct{}{}
		}
	}

	var average int64
	if rows > 0 {
		q, _ := total.QuoRem(decimal.NewFromInt(int64(rows)), 0)
		average = q.IntPart()
	}

	return models.KPIs{
		TotalSales:        total.IntPart(),
		TotalOrders:       int64(len(orders)),
		AverageOrderValue: average,
	}
}

// GroupByDate sums sales per distinct order date, oldest first.
func GroupByDate(ds *models.Dataset) []models.DateSales {
	if ds == nil {
		return []models.DateSales{}
	}

	type bucket struct {
		date  time.Time
		total decimal.Decimal
	}
	buckets := make(map[time.Time]*bucket)
	for _, rec := range ds.Records {
		key := rec.OrderDate.UTC()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{date: rec.OrderDate, total: decimal.Zero}
			buckets[key] = b
		}
		b.total = b.total.Add(rec.Sales)
	}

	result := make([]models.DateSales, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, models.DateSales{
			Date:  b.date,
			Label: models.DateLabel(b.date),
			Sales: b.total.InexactFloat64(),
		})
	}
	slices.SortFunc(result, func(a, b models.DateSales) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// GroupByCategory sums sales per category in the order categories first
// appear in the file.
func GroupByCategory(ds *models.Dataset) []models.CategorySales {
	if ds == nil {
		return []models.CategorySales{}
	}

	var order []string
	totals := make(map[string]decimal.Decimal)
	for _, rec := range ds.Records {
		current, ok := totals[rec.Category]
		if !ok {
			order = append(order, rec.Category)
			current = decimal.Zero
		}
		totals[rec.Category] = current.Add(rec.Sales)
	}

	result := make([]models.CategorySales, 0, len(order))
	for i, category := range order {
		result = append(result, models.CategorySales{
			Category: category,
			Sales:    totals[category].InexactFloat64(),
			Color:    CategoryColor(i),
		})
	}
	return result
}

// SortForTable returns a copy of the records, newest first. Rows sharing a
// date keep their file order. The dataset itself is left untouched.
func SortForTable(ds *models.Dataset) []models.SalesRecord {
	if ds == nil {
		return []models.SalesRecord{}
	}
	rows := slices.Clone(ds.Records)
	if rows == nil {
		rows = []models.SalesRecord{}
	}
	slices.SortStableFunc(rows, func(a, b models.SalesRecord) int {
		return b.OrderDate.Compare(a.OrderDate)
	})
	return rows
}
