package cli

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/internal/models"
)

const summaryTemplate = `{{.Title}}
Source: {{.Path}} ({{.RecordCount}} records)

=== Key Performance Indicators (KPIs) ===
{{range .KPICards}}{{.Label}}: {{.Value}}
{{end}}
=== Daily Sales Trend ===
{{range .SalesOverTime}}{{.Label}}: {{money .Sales}}
{{else}}(no data)
{{end}}
=== Total Sales per Category ===
{{range .SalesByCategory}}{{.Category}}: {{money .Sales}}
{{else}}(no data)
{{end}}`

// Reporter prints a report summary as plain text.
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}

	printer := message.NewPrinter(language.English)
	tmpl := template.Must(template.New("summary").Funcs(template.FuncMap{
		"money": func(v float64) string { return printer.Sprintf("%.2f", v) },
	}).Parse(summaryTemplate))

	return &Reporter{writer: writer, tmpl: tmpl}
}

type summaryData struct {
	*models.Report
	Path string
}

func (r *Reporter) Handle(path string, report *models.Report) error {
	if err := r.tmpl.Execute(r.writer, summaryData{Report: report, Path: path}); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}
