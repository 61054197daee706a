package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"xlsdash/internal/core"
)

// DefaultSheetName is used when the caller gives no sheet name.
const DefaultSheetName = "Filtered"

// ToXLSX writes rows into a single-sheet workbook with a header row.
// Values are written as text so they round-trip unchanged.
func ToXLSX(rows []core.Row, columns []string, sheet string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = r.Get(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Render encodes rows in format f.
func Render(f Format, rows []core.Row, columns []string, sheet string) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ToDelimitedText(rows, columns)
	case FormatXLSX:
		return ToXLSX(rows, columns, sheet)
	default:
		return nil, ErrUnsupportedFormat
	}
}
