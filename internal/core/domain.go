package core

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// Canonical column names recognized by the header normalizer.
const (
	ColMonth       = "Month"
	ColCity        = "City"
	ColCityType    = "City_Type"
	ColEnrollments = "Projected_Enrollments"
)

// UnknownCity is the group key used for rows without a City value.
const UnknownCity = "Unknown"

type (
	// RawSheet is one decoded sheet: positional cells, header row first.
	RawSheet struct {
		Name  string
		Cells [][]string
	}

	// Row maps canonical column names to cell values. It is immutable once built.
	Row struct {
		values map[string]string
	}

	// Sheet holds the canonical columns and rows of one source sheet.
	Sheet struct {
		name    string
		columns []string
		rows    []Row
	}

	// Workbook is the parsed result of one upload. Sheet order follows the source.
	Workbook struct {
		ID       string
		Filename string
		LoadedAt time.Time

		order  []string
		sheets map[string]*Sheet
	}

	// GroupTotal is a group key paired with its summed measure.
	GroupTotal struct {
		Key   string  `json:"key" yaml:"key"`
		Value float64 `json:"value" yaml:"value"`
	}
)

var (
	ErrNoFile        = errors.New("no file provided")
	ErrDecode        = errors.New("decode failed")
	ErrNoData        = errors.New("no data")
	ErrSheetNotFound = errors.New("sheet not found")
)

// NewRow copies values into a new Row.
func NewRow(values map[string]string) Row {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = v
	}
	return Row{values: m}
}

// Get returns the value stored under col, or "" if absent.
func (r Row) Get(col string) string {
	return r.values[col]
}

// Lookup returns the value stored under col and whether it was present.
func (r Row) Lookup(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Keys returns the row's column keys in ascending order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of populated keys.
func (r Row) Len() int {
	return len(r.values)
}

// MarshalJSON renders the row as a plain JSON object.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.values)
}

// NewSheet builds a sheet. The slices are retained; callers must not modify them afterwards.
func NewSheet(name string, columns []string, rows []Row) *Sheet {
	if columns == nil {
		columns = []string{}
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Sheet{name: name, columns: columns, rows: rows}
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Columns returns a copy of the canonical column list in positional order.
func (s *Sheet) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Rows returns the sheet rows in source order.
func (s *Sheet) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the number of data rows.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// NewWorkbook assembles a workbook from sheets in source order.
// A later sheet with a duplicate name replaces the earlier one but keeps its position.
func NewWorkbook(id, filename string, sheets []*Sheet) *Workbook {
	wb := &Workbook{
		ID:       id,
		Filename: filename,
		LoadedAt: time.Now(),
		order:    make([]string, 0, len(sheets)),
		sheets:   make(map[string]*Sheet, len(sheets)),
	}
	for _, s := range sheets {
		if _, seen := wb.sheets[s.name]; !seen {
			wb.order = append(wb.order, s.name)
		}
		wb.sheets[s.name] = s
	}
	return wb
}

// SheetNames returns sheet names in source order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.order...)
}

// Sheet looks up a sheet by name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

// SheetOrFirst returns the named sheet, or the first sheet when name is empty.
func (w *Workbook) SheetOrFirst(name string) (*Sheet, error) {
	if name == "" {
		if len(w.order) == 0 {
			return nil, ErrSheetNotFound
		}
		name = w.order[0]
	}
	s, ok := w.sheets[name]
	if !ok {
		return nil, ErrSheetNotFound
	}
	return s, nil
}
