// Package xlsx decodes spreadsheet workbooks with excelize.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"xlsdash/internal/core"
	ports "xlsdash/internal/sheets"
)

var _ ports.Decoder = (*Decoder)(nil)

// Decoder reads every worksheet of an XLSX stream.
type Decoder struct{}

func New() *Decoder { return &Decoder{} }

// Decode returns all sheets in workbook order. Cells are read raw so numeric
// values are not subject to display formats.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]core.RawSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", core.ErrDecode, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	out := make([]core.RawSheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", core.ErrDecode, name, err)
		}
		out = append(out, core.RawSheet{Name: name, Cells: rows})
	}
	return out, nil
}
