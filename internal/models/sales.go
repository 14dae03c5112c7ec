package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names the input file must carry in its header row.
const (
	ColumnOrderID   = "Order ID"
	ColumnOrderDate = "Order Date"
	ColumnCategory  = "Category"
	ColumnSales     = "Sales"
)

// RequiredColumns lists the header names in display order.
var RequiredColumns = []string{ColumnOrderID, ColumnOrderDate, ColumnCategory, ColumnSales}

// SalesRecord is one line item. Several records may share an OrderID.
// Extra holds the cells of every other column, keyed by header name.
type SalesRecord struct {
	OrderID   string            `json:"order_id"`
	OrderDate time.Time         `json:"order_date"`
	Category  string            `json:"category"`
	Sales     decimal.Decimal   `json:"sales"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Value returns the display text of one column.
func (r SalesRecord) Value(column string) string {
	switch column {
	case ColumnOrderID:
		return r.OrderID
	case ColumnOrderDate:
		return r.DateLabel()
	case ColumnCategory:
		return r.Category
	case ColumnSales:
		return r.Sales.String()
	}
	return r.Extra[column]
}

// DateLabel formats the order date as a calendar day, keeping the time of
// day only when the source carried one.
func (r SalesRecord) DateLabel() string {
	return DateLabel(r.OrderDate)
}

func DateLabel(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

// Dataset is the parsed content of one input file. It is never modified
// after it has been loaded. Columns is the header in file order with blank
// and repeated names made unique.
type Dataset struct {
	Path     string
	Columns  []string
	Records  []SalesRecord
	LoadedAt time.Time
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// KPIs are truncated toward zero for display. AverageOrderValue is the mean
// of Sales per row, not per distinct order.
type KPIs struct {
	TotalSales        int64 `json:"total_sales"`
	TotalOrders       int64 `json:"total_orders"`
	AverageOrderValue int64 `json:"average_order_value"`
}

type KPICard struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type DateSales struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Sales float64   `json:"sales"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
	Color    string  `json:"color"`
}

// Report is everything the rendering layer needs for one pass.
type Report struct {
	Title           string          `json:"title"`
	Currency        string          `json:"currency"`
	KPIs            KPIs            `json:"kpis"`
	KPICards        []KPICard       `json:"kpi_cards"`
	SalesOverTime   []DateSales     `json:"sales_over_time"`
	SalesByCategory []CategorySales `json:"sales_by_category"`
	Columns         []string        `json:"columns"`
	Rows            []SalesRecord   `json:"rows"`
	RecordCount     int             `json:"record_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// TableColumns is the header of the records table.
func (r *Report) TableColumns() []string {
	if len(r.Columns) == 0 {
		return RequiredColumns
	}
	return r.Columns
}
