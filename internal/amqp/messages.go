package amqp

import (
	"encoding/json"
	"time"

	"xlsdash/internal/core"
)

// SheetSummary describes one sheet of a loaded workbook.
type SheetSummary struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// WorkbookLoadedMessage announces that a new workbook became current.
// It carries only shape metadata, never cell values.
type WorkbookLoadedMessage struct {
	WorkbookID string         `json:"workbook_id"`
	Filename   string         `json:"filename"`
	Sheets     []SheetSummary `json:"sheets"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewWorkbookLoadedMessage summarizes wb.
func NewWorkbookLoadedMessage(wb *core.Workbook) *WorkbookLoadedMessage {
	msg := &WorkbookLoadedMessage{
		WorkbookID: wb.ID,
		Filename:   wb.Filename,
		Sheets:     make([]SheetSummary, 0, len(wb.SheetNames())),
		Timestamp:  time.Now(),
	}
	for _, name := range wb.SheetNames() {
		s, _ := wb.Sheet(name)
		msg.Sheets = append(msg.Sheets, SheetSummary{Name: name, Rows: s.Len(), Columns: len(s.Columns())})
	}
	return msg
}

// TotalRows sums rows across sheets.
func (m *WorkbookLoadedMessage) TotalRows() int {
	n := 0
	for _, s := range m.Sheets {
		n += s.Rows
	}
	return n
}

// ToJSON converts the message to JSON bytes
func (m *WorkbookLoadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// WorkbookLoadedMessageFromJSON creates a message from JSON bytes
func WorkbookLoadedMessageFromJSON(data []byte) (*WorkbookLoadedMessage, error) {
	var msg WorkbookLoadedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
