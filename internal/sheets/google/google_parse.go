package google

import (
	"fmt"
	"strconv"
	"strings"

	"xlsdash/internal/core"
)

// quoteSheetName turns a tab title into an A1 range covering the whole sheet.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// toRawSheet converts an API values matrix into positional string cells.
func toRawSheet(name string, values [][]interface{}) core.RawSheet {
	cells := make([][]string, len(values))
	for i, row := range values {
		cells[i] = toStrings(row)
	}
	return core.RawSheet{Name: name, Cells: cells}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders an unformatted cell value. Numbers use the shortest
// representation so 10 stays "10" and 2.5 stays "2.5".
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
