package export

import (
	"bytes"
	"strings"

	"xlsdash/internal/core"
)

// ToDelimitedText renders rows as comma-separated text. The header line is the
// joined column names; every data field is quoted with embedded quotes doubled.
// Each record ends with "\n". It returns ErrNoRows instead of a header-only file.
func ToDelimitedText(rows []core.Row, columns []string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	var buf bytes.Buffer
	buf.WriteString(strings.Join(columns, ","))
	buf.WriteByte('\n')
	for _, r := range rows {
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(r.Get(col), `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
