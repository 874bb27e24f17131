// Package dataset parses uploaded candidate catalogs and the annotated CSV the
// classifier returns, and summarizes a classified batch.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrEmptyDataset is returned when a CSV has no header or no data rows.
	ErrEmptyDataset = errors.New("CSV file must have at least a header and one data row")

	// ErrUnsupportedFormat is returned for uploads that are not CSV files.
	ErrUnsupportedFormat = errors.New("only CSV files are supported")
)

// Columns added by the classifier to every row.
const (
	ColumnPrediction       = "Overall Prediction"
	ColumnConfidence       = "Prediction Confidence (%)"
	ColumnCandidatePct     = "Candidate Planet (%)"
	ColumnConfirmedPct     = "Confirmed Planet (%)"
	ColumnFalsePositivePct = "False Positive (%)"
)

// Row is one record keyed by column name. Values are float64 for numeric
// cells and string otherwise.
type Row map[string]any

// Number returns the numeric value of column and whether it was numeric.
func (r Row) Number(column string) (float64, bool) {
	v, ok := r[column].(float64)
	return v, ok
}

// String returns the cell as text.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Table is a parsed CSV with its header order preserved.
type Table struct {
	Columns []string `json:"columns" msgpack:"columns"`
	Rows    []Row    `json:"rows" msgpack:"rows"`
}

// CheckFilename rejects uploads that do not carry a .csv extension.
func CheckFilename(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return nil
}

// ParseUpload reads a user supplied CSV for preview. Blank lines and lines
// starting with '#' are skipped and every cell is kept as trimmed text. Short
// rows leave the missing columns empty.
func ParseUpload(r io.Reader) (*Table, error) {
	return parse(r, false)
}

// ParseResults reads the annotated CSV returned by the classifier. Cells that
// hold a number become float64.
func ParseResults(csvText string) (*Table, error) {
	return parse(strings.NewReader(csvText), true)
}

func parse(r io.Reader, numeric bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyDataset
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: header, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			row[col] = cell
			if numeric && cell != "" {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row[col] = v
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV writes rows in the given column order. A nil columns slice writes
// the table's own columns.
func WriteCSV(w io.Writer, t *Table, columns []string) error {
	if columns == nil {
		columns = t.Columns
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	rec := make([]string, len(columns))
	for _, row := range t.Rows {
		for i, col := range columns {
			rec[i] = row.String(col)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
