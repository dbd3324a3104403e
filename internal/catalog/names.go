package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ParseNameList extracts a list of target names from a file: the first column
// of a spreadsheet/CSV, or one name per line for plain text. Empty values are
// dropped, everything is trimmed.
func ParseNameList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name list %s: %w", path, err)
	}
	defer f.Close()
	return ParseNameListReader(f, filepath.Base(path))
}

// ParseNameListReader is ParseNameList over a reader; dispatch is by extension.
func ParseNameListReader(r io.Reader, filename string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		rows, err := readRows(r, filename)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, row := range rows {
			if v := cellAt(row, 0); v != "" {
				names = append(names, v)
			}
		}
		return names, nil
	default:
		return readLines(r)
	}
}

// ParseManualNames reads a per-index name list, keeping blank positions so
// entries stay aligned with the item order: a blank line (or empty first
// cell) means "no name for that index". Used for manual output naming, where
// dropping blanks would shift every later name up one item.
func ParseManualNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name list %s: %w", path, err)
	}
	defer f.Close()
	return ParseManualNamesReader(f, filepath.Base(path))
}

// ParseManualNamesReader is ParseManualNames over a reader.
func ParseManualNamesReader(r io.Reader, filename string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		rows, err := readRows(r, filename)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(rows))
		for i, row := range rows {
			names[i] = cellAt(row, 0)
		}
		return names, nil
	default:
		var names []string
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			names = append(names, strings.TrimSpace(sc.Text()))
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading name list: %w", err)
		}
		return names, nil
	}
}

func readLines(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if v := strings.TrimSpace(sc.Text()); v != "" {
			names = append(names, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading name list: %w", err)
	}
	return names, nil
}
