package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

const (
	DefaultTitle    = "Simple Sales Dashboard"
	DefaultCurrency = "PKR"
)

type Options struct {
	Path     string
	Title    string
	Currency string
	Logger   *slog.Logger
}

// Reports generates a fresh report from the cached dataset on every call.
type Reports struct {
	cache    *dataset.Cache
	path     string
	title    string
	currency string
	printer  *message.Printer
	logger   *slog.Logger
}

func NewReports(cache *dataset.Cache, opts Options) *Reports {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Reports{
		cache:    cache,
		path:     opts.Path,
		title:    opts.Title,
		currency: opts.Currency,
		printer:  message.NewPrinter(language.English),
		logger:   opts.Logger,
	}
}

func (r *Reports) Path() string     { return r.path }
func (r *Reports) Title() string    { return r.title }
func (r *Reports) Currency() string { return r.currency }

func (r *Reports) Dataset(ctx context.Context) (*models.Dataset, error) {
	return r.cache.Get(ctx, r.path)
}

// Generate loads the configured dataset and computes every view from it. A
// load error is returned as is and no partial report is produced.
func (r *Reports) Generate(ctx context.Context) (*models.Report, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return r.Build(ds), nil
}

func (r *Reports) Build(ds *models.Dataset) *models.Report {
	kpis := ComputeKPIs(ds)

	return &models.Report{
		Title:           r.title,
		Currency:        r.currency,
		KPIs:            kpis,
		KPICards:        r.KPICards(kpis),
		SalesOverTime:   GroupByDate(ds),
		SalesByCategory: GroupByCategory(ds),
		Columns:         columns(ds),
		Rows:            SortForTable(ds),
		RecordCount:     ds.Len(),
		GeneratedAt:     time.Now(),
	}
}

func (r *Reports) KPICards(k models.KPIs) []models.KPICard {
	return []models.KPICard{
		{ID: "total-sales", Label: "Total Sales (" + r.currency + ")", Value: r.FormatNumber(k.TotalSales)},
		{ID: "total-orders", Label: "Total Orders", Value: r.FormatNumber(k.TotalOrders)},
		{ID: "average-order-value", Label: "Average Order Value (" + r.currency + ")", Value: r.FormatNumber(k.AverageOrderValue)},
	}
}

// FormatNumber renders n with comma thousands separators.
func (r *Reports) FormatNumber(n int64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Reports) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"path":  r.path,
		"cache": r.cache.Stats(),
	}

	ds, err := r.Dataset(ctx)
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}

	stats["record_count"] = ds.Len()
	stats["loaded_at"] = ds.LoadedAt
	stats["dates"] = len(GroupByDate(ds))
	stats["categories"] = len(GroupByCategory(ds))
	return stats
}

func columns(ds *models.Dataset) []string {
	if ds == nil || len(ds.Columns) == 0 {
		return models.RequiredColumns
	}
	return ds.Columns
}
