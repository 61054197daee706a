// Package csvfile decodes comma-separated uploads as a single-sheet workbook.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"xlsdash/internal/core"
	ports "xlsdash/internal/sheets"
)

var _ ports.Decoder = (*Decoder)(nil)

// DefaultSheetName is used when no filename is known.
const DefaultSheetName = "Sheet1"

type Decoder struct {
	sheet string
}

// New returns a decoder naming its sheet after filename's stem.
func New(filename string) *Decoder {
	return &Decoder{sheet: SheetName(filename)}
}

// SheetName derives a sheet name from an upload filename.
func SheetName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return DefaultSheetName
	}
	return stem
}

// IsCSV reports whether filename looks like a delimited text upload.
func IsCSV(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]core.RawSheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var cells [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
		}
		cells = append(cells, rec)
	}
	if len(cells) > 0 && len(cells[0]) > 0 {
		cells[0][0] = strings.TrimPrefix(cells[0][0], "\ufeff")
	}
	return []core.RawSheet{{Name: d.sheet, Cells: cells}}, nil
}
