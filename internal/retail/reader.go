// Package retail reads, cleans and samples retail transaction data ahead of
// basket extraction.
package retail

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported transaction file format (want .csv or .xlsx)")

// Column keys after normalization (lowercase, no spaces or underscores).
const (
	colInvoice     = "invoice"
	colStockCode   = "stockcode"
	colDescription = "description"
	colQuantity    = "quantity"
	colInvoiceDate = "invoicedate"
	colPrice       = "price"
	colCustomerID  = "customerid"
	colCountry     = "country"
)

var requiredColumns = []string{colInvoice, colDescription, colQuantity, colCustomerID}

// columnAliases maps alternative header spellings seen in retail exports.
var columnAliases = map[string]string{
	"invoiceno":   colInvoice,
	"unitprice":   colPrice,
	"customer":    colCustomerID,
	"customerno":  colCustomerID,
	"invoicedt":   colInvoiceDate,
	"productname": colDescription,
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"01-02-06 15:04",
	"2006-01-02",
}

// Open reads transaction lines from a .csv or .xlsx file. For workbooks,
// sheets selects which sheets to read; all sheets are read when empty.
func Open(path string, sheets ...string) ([]TransactionLine, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path, sheets...)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ReadCSV reads transaction lines from CSV with a header row.
func ReadCSV(r io.Reader) ([]TransactionLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	dec, err := newRowDecoder(header)
	if err != nil {
		return nil, err
	}

	var lines []TransactionLine
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}
		line, err := dec.decode(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// ReadXLSX reads transaction lines from the named sheets of a workbook and
// concatenates them in sheet order. Each sheet must start with a header row.
func ReadXLSX(path string, sheets ...string) ([]TransactionLine, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if len(sheets) == 0 {
		sheets = f.GetSheetList()
	}

	var lines []TransactionLine
	for _, sheet := range sheets {
		sheetLines, err := readSheet(f, sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		lines = append(lines, sheetLines...)
	}

	return lines, nil
}

func readSheet(f *excelize.File, sheet string) ([]TransactionLine, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		dec   *rowDecoder
		lines []TransactionLine
		row   int
	)
	for rows.Next() {
		row++
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if dec == nil {
			dec, err = newRowDecoder(cols)
			if err != nil {
				return nil, err
			}
			continue
		}
		if isBlank(cols) {
			continue
		}
		line, err := dec.decode(cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	if dec == nil {
		return nil, fmt.Errorf("missing header row")
	}

	return lines, nil
}

// rowDecoder maps a header row to column positions.
type rowDecoder struct {
	index map[string]int
}

func newRowDecoder(header []string) (*rowDecoder, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return &rowDecoder{index: index}, nil
}

func (d *rowDecoder) field(record []string, col string) string {
	i, ok := d.index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func (d *rowDecoder) decode(record []string) (TransactionLine, error) {
	line := TransactionLine{
		InvoiceID:   strings.TrimSpace(d.field(record, colInvoice)),
		StockCode:   strings.TrimSpace(d.field(record, colStockCode)),
		Description: d.field(record, colDescription),
		Country:     strings.TrimSpace(d.field(record, colCountry)),
	}

	qty, err := parseQuantity(d.field(record, colQuantity))
	if err != nil {
		return line, err
	}
	line.Quantity = qty

	if cust := strings.TrimSpace(d.field(record, colCustomerID)); cust != "" {
		cust = strings.TrimSuffix(cust, ".0")
		line.CustomerID = &cust
	}

	if p := strings.TrimSpace(d.field(record, colPrice)); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			line.Price = v
		}
	}

	if ts := strings.TrimSpace(d.field(record, colInvoiceDate)); ts != "" {
		line.InvoiceDate = parseDate(ts)
	}

	return line, nil
}

func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// Spreadsheet exports may write whole numbers as "3.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(f), nil
}

// parseDate returns the zero time when no known layout matches.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
