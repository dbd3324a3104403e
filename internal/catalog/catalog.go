// Package catalog loads SKU/MODEL catalogs from spreadsheets. The catalog is
// the ground truth the matcher scores image filenames against.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is a single (SKU, MODEL) pair from the catalog spreadsheet.
// SKU values need not be unique across entries.
type Entry struct {
	SKU   string
	Model string
}

// ErrEmptySheet indicates the first worksheet contains no data at all.
var ErrEmptySheet = errors.New("spreadsheet contains no data")

// MissingColumnsError reports required columns absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("spreadsheet is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Load reads a catalog from an .xlsx/.xlsm or .csv file. The previous catalog,
// if any, is for the caller to replace wholesale; Load never merges.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()
	return LoadReader(f, filepath.Base(path))
}

// LoadReader parses catalog data from r, dispatching on the filename extension.
func LoadReader(r io.Reader, filename string) ([]Entry, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	return entriesFromRows(rows)
}

// readRows returns the raw cell grid of the first sheet (or the whole CSV).
func readRows(r io.Reader, filename string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return readCSV(r, filename)
	}

	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet %s: %w", filename, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s of %s: %w", sheets[0], filename, err)
	}
	return rows, nil
}

func readCSV(r io.Reader, filename string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv %s: %w", filename, err)
	}
	return rows, nil
}

// entriesFromRows locates the SKU and MODEL columns by case-insensitive
// substring match on the header row, then collects rows where both cells
// are non-empty.
func entriesFromRows(rows [][]string) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	header := rows[0]
	skuCol := findColumn(header, "SKU")
	modelCol := findColumn(header, "MODEL")

	var missing []string
	if skuCol < 0 {
		missing = append(missing, "SKU")
	}
	if modelCol < 0 {
		missing = append(missing, "MODEL")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var entries []Entry
	for _, row := range rows[1:] {
		sku := cellAt(row, skuCol)
		model := cellAt(row, modelCol)
		if sku == "" || model == "" {
			continue
		}
		entries = append(entries, Entry{SKU: sku, Model: model})
	}
	return entries, nil
}

// findColumn returns the index of the first header cell containing name,
// case-insensitively, or -1.
func findColumn(header []string, name string) int {
	for i, cell := range header {
		if strings.Contains(strings.ToUpper(cell), name) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// WriteXLSX writes entries to an xlsx stream with SKU and MODEL columns.
// Backs the starter-template download.
func WriteXLSX(w io.Writer, entries []Entry) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if err := wb.SetSheetRow(sheet, "A1", &[]string{"SKU", "MODEL"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(sheet, cell, &[]string{e.SKU, e.Model}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
