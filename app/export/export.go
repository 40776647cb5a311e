// Package export serializes annotation tables to tabular files. Columns
// derive from the active annotation variant, and empty tables or unknown
// formats are silent no-ops rather than errors.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"waveline/app/annotation"
)

// DefaultBaseName is used when the operator leaves the filename blank.
const DefaultBaseName = "annotations"

// Result reports what an export produced.
type Result struct {
	Path    string `json:"path"`    // empty when skipped
	Rows    int    `json:"rows"`    // rows written
	Skipped bool   `json:"skipped"` // true for empty input or unknown format
}

// Rows writes the given rows in the requested format under dir. An empty
// row set or an unrecognized format produces no file and no error.
func Rows(rows []annotation.Row, format, dir, baseName string) (*Result, error) {
	if len(rows) == 0 {
		return &Result{Skipped: true}, nil
	}
	baseName = strings.TrimSpace(baseName)
	if baseName == "" {
		baseName = DefaultBaseName
	}

	var path string
	switch format {
	case "csv":
		path = filepath.Join(dir, baseName+".csv")
		if err := WriteCSV(path, rows); err != nil {
			return nil, err
		}
	case "xlsx":
		path = filepath.Join(dir, baseName+".xlsx")
		if err := WriteXLSX(path, rows); err != nil {
			return nil, err
		}
	default:
		return &Result{Skipped: true}, nil
	}
	return &Result{Path: path, Rows: len(rows)}, nil
}

// WriteCSV writes rows with a header of the variant's field names.
func WriteCSV(path string, rows []annotation.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rows[0].Columns()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes rows to a single "Annotations" sheet.
func WriteXLSX(path string, rows []annotation.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Annotations"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	header := rows[0].Columns()
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	for i, row := range rows {
		values := row.Values()
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
