package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"xlsdash/internal/cache"
	"xlsdash/internal/core"
	"xlsdash/internal/export"
	"xlsdash/internal/log"
	"xlsdash/internal/normalize"
	ports "xlsdash/internal/sheets"
)

// DefaultPreviewLimit caps the rows returned with a view.
const DefaultPreviewLimit = 200

var ErrImportDisabled = errors.New("remote import is not configured")

type (
	// Query selects a sheet and the dashboard interaction state.
	Query struct {
		Sheet    string
		City     string
		CityType string
		Month    string
		Mode     core.Mode
	}

	// SheetInfo describes one sheet of the current workbook.
	SheetInfo struct {
		Name    string   `json:"name" yaml:"name"`
		Columns []string `json:"columns" yaml:"columns"`
		Rows    int      `json:"rows" yaml:"rows"`
	}

	// View is everything the dashboard renders for one interaction.
	View struct {
		WorkbookID string            `json:"workbook_id" yaml:"workbook_id"`
		Filename   string            `json:"filename" yaml:"filename"`
		Sheets     []string          `json:"sheets" yaml:"sheets"`
		Sheet      string            `json:"sheet" yaml:"sheet"`
		Columns    []string          `json:"columns" yaml:"columns"`
		Options    core.Options      `json:"options" yaml:"options"`
		Criteria   core.Criteria     `json:"criteria" yaml:"criteria"`
		Mode       core.Mode         `json:"mode" yaml:"mode"`
		Month      string            `json:"month" yaml:"month"`
		Totals     []core.GroupTotal `json:"totals" yaml:"totals"`
		Stats      core.Stats        `json:"stats" yaml:"stats"`
		Extremes   *core.Extremes    `json:"extremes,omitempty" yaml:"extremes,omitempty"`
		NoData     bool              `json:"no_data" yaml:"no_data"`
		RowCount   int               `json:"row_count" yaml:"row_count"`
		SheetRows  int               `json:"sheet_rows" yaml:"sheet_rows"`
		Preview    []core.Row        `json:"preview" yaml:"-"`
		Truncated  bool              `json:"truncated" yaml:"truncated"`
	}

	// ExportResult is a rendered download.
	ExportResult struct {
		Data        []byte
		Filename    string
		ContentType string
		Rows        int
	}

	// DashboardDeps wires a DashboardService. Remote, Publisher and Memo are optional.
	DashboardDeps struct {
		Store        ports.WorkbookStore
		DecoderFor   func(filename string) ports.Decoder
		Remote       ports.RemoteSource
		Publisher    ports.EventPublisher
		Memo         *cache.LRUCache[[]core.GroupTotal]
		PreviewLimit int
		Logger       *log.Logger
	}
)

// Criteria returns the row constraints carried by q.
func (q Query) Criteria() core.Criteria {
	return core.Criteria{City: q.City, CityType: q.CityType}
}

// DashboardService loads workbooks and answers dashboard queries against the current one.
type DashboardService struct {
	store        ports.WorkbookStore
	decoderFor   func(filename string) ports.Decoder
	remote       ports.RemoteSource
	publisher    ports.EventPublisher
	memo         *cache.LRUCache[[]core.GroupTotal]
	group        singleflight.Group
	previewLimit int
	logger       *log.Logger
	events       *log.StructuredLogger

	pending sync.WaitGroup
}

func NewDashboardService(deps DashboardDeps) *DashboardService {
	limit := deps.PreviewLimit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentDashboard)
	return &DashboardService{
		store:        deps.Store,
		decoderFor:   deps.DecoderFor,
		remote:       deps.Remote,
		publisher:    deps.Publisher,
		memo:         deps.Memo,
		previewLimit: limit,
		logger:       logger,
		events:       log.NewStructuredLogger(logger),
	}
}

// Upload decodes r with the decoder registered for filename and makes the result current.
func (s *DashboardService) Upload(ctx context.Context, filename string, r io.Reader) (*core.Workbook, error) {
	if r == nil {
		return nil, core.ErrNoFile
	}
	if s.decoderFor == nil {
		return nil, fmt.Errorf("%w: no decoder configured", core.ErrDecode)
	}
	raw, err := s.decoderFor(filename).Decode(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, filename, raw)
}

// Import fetches a hosted spreadsheet and makes it current.
func (s *DashboardService) Import(ctx context.Context, spreadsheetID string) (*core.Workbook, error) {
	if s.remote == nil {
		return nil, ErrImportDisabled
	}
	title, raw, err := s.remote.FetchWorkbook(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", spreadsheetID, err)
	}
	return s.Load(ctx, title, raw)
}

// Load normalizes raw sheets into a workbook and swaps it in. Nothing is
// replaced when the input has no sheets.
func (s *DashboardService) Load(ctx context.Context, filename string, raw []core.RawSheet) (*core.Workbook, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrDecode)
	}
	wb := normalize.Workbook(filename, raw)

	var previous string
	if cur, err := s.store.Current(); err == nil {
		previous = cur.ID
	}
	s.store.Replace(wb)
	if s.memo != nil && previous != "" {
		s.memo.DeletePrefix(previous + "|")
	}

	rows := 0
	for _, name := range wb.SheetNames() {
		sh, _ := wb.Sheet(name)
		rows += sh.Len()
	}
	s.events.LogWorkbookLoaded(ctx, wb.ID, wb.Filename, len(wb.SheetNames()), rows)

	s.publish(ctx, wb)
	return wb, nil
}

// publish announces wb in the background so uploads never wait on the broker.
func (s *DashboardService) publish(ctx context.Context, wb *core.Workbook) {
	if s.publisher == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.publisher.PublishWorkbookLoaded(ctx, wb); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish workbook event",
				log.FieldWorkbookID, wb.ID, log.FieldError, err)
		}
	}()
}

// Wait blocks until background event publishing has finished.
func (s *DashboardService) Wait() {
	s.pending.Wait()
}

// Loaded reports whether a workbook is available.
func (s *DashboardService) Loaded() bool {
	_, err := s.store.Current()
	return err == nil
}

// Current returns the loaded workbook.
func (s *DashboardService) Current() (*core.Workbook, error) {
	return s.store.Current()
}

// Sheets lists the current workbook's sheets in source order.
func (s *DashboardService) Sheets(ctx context.Context) ([]SheetInfo, error) {
	wb, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	names := wb.SheetNames()
	out := make([]SheetInfo, 0, len(names))
	for _, name := range names {
		sh, _ := wb.Sheet(name)
		out = append(out, SheetInfo{Name: name, Columns: sh.Columns(), Rows: sh.Len()})
	}
	return out, nil
}

// View filters the selected sheet and computes totals, extremes and statistics.
// An empty selection yields NoData instead of an error.
func (s *DashboardService) View(ctx context.Context, q Query) (*View, error) {
	wb, sheet, err := s.selectSheet(q.Sheet)
	if err != nil {
		return nil, err
	}

	crit := q.Criteria()
	mode := core.ParseMode(string(q.Mode))
	all := sheet.Rows()
	rows := core.Filter(all, crit)
	byMonth := s.byMonth(wb.ID, sheet.Name(), crit, rows)

	v := &View{
		WorkbookID: wb.ID,
		Filename:   wb.Filename,
		Sheets:     wb.SheetNames(),
		Sheet:      sheet.Name(),
		Columns:    sheet.Columns(),
		Options:    core.DistinctOptions(all),
		Criteria:   crit,
		Mode:       mode,
		Totals:     byMonth,
		RowCount:   len(rows),
		SheetRows:  len(all),
	}

	month, ok := core.ResolveMonth(q.Month, byMonth)
	v.Month = month
	if ok {
		ext, err := core.MonthExtremes(rows, month)
		switch {
		case err == nil:
			v.Extremes = &ext
		case errors.Is(err, core.ErrNoData):
			v.NoData = true
		default:
			return nil, err
		}
	} else {
		v.NoData = true
	}

	if mode == core.ByCity {
		v.Totals = []core.GroupTotal{}
		if ok {
			v.Totals = core.SumByCity(rows, month)
		}
	}
	v.Stats = core.Describe(v.Totals)

	v.Preview = rows
	if len(rows) > s.previewLimit {
		v.Preview = rows[:s.previewLimit]
		v.Truncated = true
	}

	s.logger.DebugContext(ctx, "View computed",
		append(log.NewFields().
			WithOperation(log.OpView).
			WithQuery(v.Sheet, crit.City, crit.CityType, v.Month, string(mode)).
			ToSlice(), log.FieldRowCount, len(rows))...)
	return v, nil
}

// Export renders the rows of the selected sheet that match q's criteria.
func (s *DashboardService) Export(ctx context.Context, q Query, format export.Format) (*ExportResult, error) {
	_, sheet, err := s.selectSheet(q.Sheet)
	if err != nil {
		return nil, err
	}
	rows := core.Filter(sheet.Rows(), q.Criteria())
	data, err := export.Render(format, rows, sheet.Columns(), sheet.Name())
	if err != nil {
		return nil, err
	}
	s.events.LogExport(ctx, string(format), len(rows), len(data))
	return &ExportResult{
		Data:        data,
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Rows:        len(rows),
	}, nil
}

func (s *DashboardService) selectSheet(name string) (*core.Workbook, *core.Sheet, error) {
	wb, err := s.store.Current()
	if err != nil {
		return nil, nil, err
	}
	sheet, err := wb.SheetOrFirst(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", err, name)
	}
	return wb, sheet, nil
}

// byMonth memoizes the unfiltered by-month grouping per workbook and sheet.
// Filtered groupings depend on the criteria and are always recomputed.
func (s *DashboardService) byMonth(workbookID, sheet string, crit core.Criteria, rows []core.Row) []core.GroupTotal {
	if s.memo == nil || !crit.IsZero() {
		return core.SumByMonth(rows)
	}
	key := workbookID + "|" + sheet
	if groups, ok := s.memo.Get(key); ok {
		return clone(groups)
	}
	v, _, _ := s.group.Do(key, func() (any, error) {
		groups := core.SumByMonth(rows)
		s.memo.Set(key, groups)
		return groups, nil
	})
	return clone(v.([]core.GroupTotal))
}

func clone(groups []core.GroupTotal) []core.GroupTotal {
	return append(make([]core.GroupTotal, 0, len(groups)), groups...)
}
