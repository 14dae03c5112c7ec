package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// rowSource yields the rows of one input file. Next returns io.EOF after the
// last row. Line numbers are 1-based and include the header.
type rowSource interface {
	Header() ([]string, error)
	Next() (row []string, line int, err error)
	ParseDate(value string) (time.Time, error)
	Close() error
}

type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads and validates the whole file. Any unparseable row fails the
// load; there is no partial result.
func (l *Loader) Load(ctx context.Context, path string) (*models.Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.path", path))

	ds, err := l.load(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("dataset.records", ds.Len()))
	return ds, nil
}

func (l *Loader) load(ctx context.Context, path string) (*models.Dataset, error) {
	start := time.Now()

	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	header, err := src.Header()
	if err != nil {
		return nil, err
	}

	s, columns, err := resolveSchema(path, header)
	if err != nil {
		return nil, err
	}
	s.dates = src.ParseDate

	records := make([]models.SalesRecord, 0, 1024)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(row) {
			continue
		}

		record, err := s.parse(path, line, row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	l.logger.Info("dataset loaded",
		"path", path,
		"records", len(records),
		"duration", time.Since(start),
	)

	return &models.Dataset{
		Path:     path,
		Columns:  columns,
		Records:  records,
		LoadedAt: time.Now(),
	}, nil
}

func openSource(path string) (rowSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return openXLSX(path)
	}
	return openCSV(path)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type csvSource struct {
	path   string
	file   *os.File
	reader *csv.Reader
}

func openCSV(path string) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return &csvSource{path: path, file: file, reader: reader}, nil
}

func (c *csvSource) Header() ([]string, error) {
	header, err := c.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedError{Path: c.path, Reason: "file is empty, expected a header row"}
	}
	if err != nil {
		return nil, c.classify(err)
	}
	return header, nil
}

func (c *csvSource) Next() ([]string, int, error) {
	row, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, c.classify(err)
	}
	line, _ := c.reader.FieldPos(0)
	return row, line, nil
}

func (c *csvSource) ParseDate(value string) (time.Time, error) {
	return parseDate(value)
}

func (c *csvSource) Close() error {
	return c.file.Close()
}

func (c *csvSource) classify(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedError{Path: c.path, Line: parseErr.Line, Reason: parseErr.Err.Error()}
	}
	return &UnavailableError{Path: c.path, Err: err}
}

// xlsxSource reads the first sheet of a workbook. excelize materialises the
// rows up front, so Next never fails. Cells are read as stored rather than
// as displayed, so dates arrive as serial numbers and amounts without their
// number format.
type xlsxSource struct {
	path     string
	rows     [][]string
	pos      int
	date1904 bool
}

func openXLSX(path string) (*xlsxSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("not a readable workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedError{Path: path, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("read sheet %q: %v", sheets[0], err)}
	}

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	return &xlsxSource{path: path, rows: rows, date1904: date1904}, nil
}

func (x *xlsxSource) Header() ([]string, error) {
	if len(x.rows) == 0 {
		return nil, &MalformedError{Path: x.path, Reason: "sheet is empty, expected a header row"}
	}
	x.pos = 1
	return x.rows[0], nil
}

func (x *xlsxSource) Next() ([]string, int, error) {
	if x.pos >= len(x.rows) {
		return nil, 0, io.EOF
	}
	row := x.rows[x.pos]
	x.pos++
	return row, x.pos, nil
}

// ParseDate accepts a date-typed cell as its serial number and falls back to
// the text layouts for cells stored as strings.
func (x *xlsxSource) ParseDate(value string) (time.Time, error) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return parseDate(value)
	}
	t, err := excelize.ExcelDateToTime(serial, x.date1904)
	if err != nil {
		return time.Time{}, err
	}
	return t.Round(time.Second).UTC(), nil
}

func (x *xlsxSource) Close() error {
	return nil
}
