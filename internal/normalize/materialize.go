package normalize

import (
	"github.com/google/uuid"

	"xlsdash/internal/core"
)

// Materialize converts raw cells (header row first) into a canonical sheet.
//
// Each cell is stored under its position's key. When two headers share a
// canonical key the later cell overwrites the earlier one; that loss is known
// and kept as is. Cells past the last header use Col<N> keys.
func Materialize(name string, cells [][]string) *core.Sheet {
	if len(cells) == 0 {
		return core.NewSheet(name, nil, nil)
	}
	columns, keys := Columns(cells[0])
	rows := make([]core.Row, 0, len(cells)-1)
	for _, raw := range cells[1:] {
		values := make(map[string]string, len(raw))
		for i, cell := range raw {
			key := Synthetic(i + 1)
			if i < len(keys) {
				key = keys[i]
			}
			values[key] = cell
		}
		rows = append(rows, core.NewRow(values))
	}
	return core.NewSheet(name, columns, rows)
}

// Workbook materializes every raw sheet, keeping source order.
func Workbook(filename string, raw []core.RawSheet) *core.Workbook {
	sheets := make([]*core.Sheet, 0, len(raw))
	for _, rs := range raw {
		sheets = append(sheets, Materialize(rs.Name, rs.Cells))
	}
	return core.NewWorkbook(uuid.NewString(), filename, sheets)
}
