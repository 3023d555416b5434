// Package importer parses the Excel workbooks staff upload into domain
// records: ledger line items, substitution catalogs, counterparties and UPD
// documents. Headers are matched loosely because the exporting programs vary
// in wording; a missing required column aborts the whole file, a bad cell
// only skips its row.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrNoRecords is returned when a workbook parses but yields nothing usable.
var ErrNoRecords = errors.New("no importable records found")

// MissingColumnsError reports required headers absent from the first row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s", strings.Join(e.Columns, ", "))
}

// sheet is one parsed worksheet: the header row plus data rows.
type sheet struct {
	headers []string
	rows    [][]string
}

// readSheet opens an xlsx stream and returns the first worksheet.
func readSheet(r io.Reader) (*sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, errors.New("workbook must contain a header row and data")
	}

	return &sheet{headers: rows[0], rows: rows[1:]}, nil
}

// columnIndex resolves a header by trying exact matches for every candidate
// name first, then substring matches. Returns -1 when nothing fits.
func (s *sheet) columnIndex(names ...string) int {
	for _, name := range names {
		want := strings.ToLower(strings.TrimSpace(name))
		for i, h := range s.headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return i
			}
		}
	}
	for _, name := range names {
		want := strings.ToLower(name)
		for i, h := range s.headers {
			if strings.Contains(strings.ToLower(h), want) {
				return i
			}
		}
	}
	return -1
}

// requireColumns resolves each label to an index and aborts with a
// MissingColumnsError when any is absent. labels maps a display name to its
// candidate headers.
func (s *sheet) requireColumns(labels map[string][]string) (map[string]int, error) {
	indices := make(map[string]int, len(labels))
	var missing []string
	for label, names := range labels {
		idx := s.columnIndex(names...)
		if idx == -1 {
			missing = append(missing, label)
			continue
		}
		indices[label] = idx
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return indices, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMoney converts a money cell to a float. Accepts both decimal comma
// and point, and tolerates space or non-breaking-space thousands separators
// ("1 234,56"). Exactness during cleanup comes from decimal; the item model
// itself is float-based.
func parseMoney(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		case ',':
			return '.'
		}
		return r
	}, strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, errors.New("empty cell")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", raw, err)
	}
	return d.InexactFloat64(), nil
}

// parseOptionalMoney is parseMoney with empty treated as zero.
func parseOptionalMoney(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return parseMoney(raw)
}
