// Package export serializes filtered rows for download.
package export

import (
	"errors"
	"strings"
)

// Format identifies an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrNoRows            = errors.New("no rows to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// NormalizeFormat coerces user input into a known format alias, defaulting to CSV.
func NormalizeFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatXLSX), "excel", "xls":
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Filename returns the deterministic download name for f.
func (f Format) Filename() string {
	return "filtered." + string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
