package catalog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildXLSX creates an in-memory workbook from a cell grid.
func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := wb.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadReader_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"SKU", "MODEL"},
		{"A1", "shoe-x"},
		{"B2", "boot-y"},
	})

	entries, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SKU != "A1" || entries[0].Model != "shoe-x" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestLoadReader_HeaderSubstringMatch(t *testing.T) {
	// Column discovery is a case-insensitive substring match on the header.
	data := buildXLSX(t, [][]string{
		{"Product sku code", "Modelo / model"},
		{"A1", "shoe-x"},
	})

	entries, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestLoadReader_MissingModelColumn(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"SKU", "DESCRIPTION"},
		{"A1", "something"},
	})

	_, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "MODEL" {
		t.Errorf("expected missing [MODEL], got %v", missing.Columns)
	}
}

func TestLoadReader_MissingBothColumns(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"FOO", "BAR"},
	})

	_, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 2 {
		t.Errorf("expected both columns reported, got %v", missing.Columns)
	}
}

func TestLoadReader_EmptySheet(t *testing.T) {
	data := buildXLSX(t, nil)

	_, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")
	if !errors.Is(err, ErrEmptySheet) {
		t.Errorf("expected ErrEmptySheet, got %v", err)
	}
}

func TestLoadReader_SkipsIncompleteRows(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"SKU", "MODEL"},
		{"A1", "shoe-x"},
		{"", "orphan-model"},
		{"orphan-sku", ""},
		{"B2", "boot-y"},
	})

	entries, err := LoadReader(bytes.NewReader(data), "catalog.xlsx")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected incomplete rows skipped, got %d entries", len(entries))
	}
}

func TestLoadReader_CSV(t *testing.T) {
	csv := "sku,model\nA1,shoe-x\nB2,boot-y\n"

	entries, err := LoadReader(strings.NewReader(csv), "catalog.csv")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].SKU != "B2" || entries[1].Model != "boot-y" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestLoadReader_CorruptFile(t *testing.T) {
	_, err := LoadReader(strings.NewReader("not a workbook"), "catalog.xlsx")
	if err == nil {
		t.Error("expected error for corrupt spreadsheet")
	}
}

func TestLoadReader_TrimsValues(t *testing.T) {
	csv := "SKU,MODEL\n  A1  ,  shoe-x  \n"

	entries, err := LoadReader(strings.NewReader(csv), "catalog.csv")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if entries[0].SKU != "A1" || entries[0].Model != "shoe-x" {
		t.Errorf("expected trimmed values, got %+v", entries[0])
	}
}

func TestParseNameListReader_PlainText(t *testing.T) {
	input := "first\n\n  second  \nthird\n"

	names, err := ParseNameListReader(strings.NewReader(input), "names.txt")
	if err != nil {
		t.Fatalf("ParseNameListReader failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q; want %q", i, names[i], want[i])
		}
	}
}

func TestParseNameListReader_FirstColumnOfSheet(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"name-one", "ignored"},
		{"name-two"},
		{""},
		{"name-three"},
	})

	names, err := ParseNameListReader(bytes.NewReader(data), "names.xlsx")
	if err != nil {
		t.Fatalf("ParseNameListReader failed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d: %v", len(names), names)
	}
}

func TestParseManualNamesReader_KeepsBlankPositions(t *testing.T) {
	input := "primero\n\n  tercero  \n"

	names, err := ParseManualNamesReader(strings.NewReader(input), "names.txt")
	if err != nil {
		t.Fatalf("ParseManualNamesReader failed: %v", err)
	}

	// The blank line stays at index 1 so later names keep their positions.
	want := []string{"primero", "", "tercero"}
	if len(names) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q; want %q", i, names[i], want[i])
		}
	}
}

func TestParseManualNamesReader_SheetKeepsEmptyCells(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"name-one", "ignored"},
		{""},
		{"name-three"},
	})

	names, err := ParseManualNamesReader(bytes.NewReader(data), "names.xlsx")
	if err != nil {
		t.Fatalf("ParseManualNamesReader failed: %v", err)
	}
	want := []string{"name-one", "", "name-three"}
	if len(names) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q; want %q", i, names[i], want[i])
		}
	}
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	in := []Entry{{SKU: "A1", Model: "shoe-x"}, {SKU: "B2", Model: "boot-y"}}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, in); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	out, err := LoadReader(bytes.NewReader(buf.Bytes()), "catalog.xlsx")
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d = %+v; want %+v", i, out[i], in[i])
		}
	}
}
