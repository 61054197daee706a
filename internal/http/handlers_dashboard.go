package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync/atomic"

	"xlsdash/internal/chart"
	"xlsdash/internal/core"
	"xlsdash/internal/export"
	"xlsdash/internal/log"
	"xlsdash/internal/services"
	"xlsdash/internal/sheets/memory"
)

const maxImportBodyBytes = 64 << 10

// uploadSummary is returned to non-htmx clients after a workbook is loaded.
type uploadSummary struct {
	ID       string               `json:"id"`
	Filename string               `json:"filename"`
	Sheets   []services.SheetInfo `json:"sheets"`
}

// bar is one row of the HTML bar list next to the chart.
type bar struct {
	Label string
	Value float64
	Width int
}

type dashboardData struct {
	Empty   bool
	View    *services.View
	Query   services.Query
	Bars    []bar
	Months  []string
	ByCity  bool
	Preview []core.Row
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	file, header, err := r.FormFile("excel")
	if err != nil {
		atomic.AddInt64(&s.appMetrics.uploadFailures, 1)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file too large (limit %d MB)", s.opts.MaxUploadBytes>>20))
			return
		}
		s.requestLogger(r).InfoContext(r.Context(), "Upload without file",
			log.FieldError, err, log.FieldComponent, log.ComponentUpload)
		s.writeError(w, r, http.StatusBadRequest, core.ErrNoFile.Error())
		return
	}
	defer file.Close()

	wb, err := s.dashboard.Upload(r.Context(), header.Filename, file)
	if err != nil {
		atomic.AddInt64(&s.appMetrics.uploadFailures, 1)
		s.loadError(w, r, err, header.Filename)
		return
	}

	atomic.AddInt64(&s.appMetrics.uploads, 1)
	s.workbookLoaded(w, r, wb)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	id := p.Get("spreadsheet_id")
	if id == "" {
		s.writeError(w, r, http.StatusBadRequest, "spreadsheet_id is required")
		return
	}

	wb, err := s.dashboard.Import(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrImportDisabled) {
			s.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		s.loadError(w, r, err, id)
		return
	}

	atomic.AddInt64(&s.appMetrics.imports, 1)
	s.workbookLoaded(w, r, wb)
}

// loadError maps an upload or import failure to a status code.
func (s *Server) loadError(w http.ResponseWriter, r *http.Request, err error, source string) {
	logger := s.requestLogger(r)
	switch {
	case errors.Is(err, core.ErrNoFile):
		s.writeError(w, r, http.StatusBadRequest, core.ErrNoFile.Error())
	case errors.Is(err, core.ErrDecode):
		logger.WarnContext(r.Context(), "Workbook decode failed",
			log.FieldFilename, source,
			log.FieldError, err,
			"error_type", log.ErrorTypeDecode)
		s.writeError(w, r, http.StatusUnprocessableEntity, "decode failed: the file is not a readable workbook")
	default:
		logger.ErrorContext(r.Context(), "Workbook load failed",
			log.FieldFilename, source,
			log.FieldError, err)
		s.writeError(w, r, http.StatusBadGateway, "could not load workbook")
	}
}

func (s *Server) workbookLoaded(w http.ResponseWriter, r *http.Request, wb *core.Workbook) {
	infos, err := s.dashboard.Sheets(r.Context())
	if err != nil {
		s.viewError(w, r, err)
		return
	}

	resp := NewHTMXResponse().
		TriggerWorkbookLoaded(wb.ID, wb.Filename, len(infos)).
		TriggerFormReset()

	if isHTMX(r) {
		resp.TriggerSuccessNotification("Workbook loaded").
			BodyHTML(`<div class="success">Loaded ` + template.HTMLEscapeString(wb.Filename) +
				` (` + strconv.Itoa(len(infos)) + ` sheets)</div>`).
			Write(w)
		return
	}
	resp.BodyJSON(uploadSummary{ID: wb.ID, Filename: wb.Filename, Sheets: infos}).Write(w)
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.dashboard.Sheets(r.Context())
	if err != nil {
		s.viewError(w, r, err)
		return
	}
	NewHTMXResponse().BodyJSON(map[string]interface{}{"sheets": infos}).Write(w)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := s.dashboard.View(r.Context(), ParseViewQuery(r.URL.Query()))
	if err != nil {
		s.viewError(w, r, err)
		return
	}
	NewHTMXResponse().BodyJSON(v).Write(w)
}

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := dashboardData{}
	v, err := s.dashboard.View(r.Context(), ParseViewQuery(r.URL.Query()))
	switch {
	case errors.Is(err, memory.ErrNoWorkbook):
		data.Empty = true
	case err != nil:
		s.viewError(w, r, err)
		return
	default:
		data = newDashboardData(v)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard template execution failed",
			log.FieldError, err, "template", "dashboard.html")
	}
}

func newDashboardData(v *services.View) dashboardData {
	d := dashboardData{
		View:    v,
		ByCity:  v.Mode == core.ByCity,
		Preview: v.Preview,
		Query: services.Query{
			Sheet:    v.Sheet,
			City:     v.Criteria.City,
			CityType: v.Criteria.CityType,
			Month:    v.Month,
			Mode:     v.Mode,
		},
	}

	var hi float64
	for _, g := range v.Totals {
		if g.Value > hi {
			hi = g.Value
		}
	}
	for _, g := range v.Totals {
		d.Bars = append(d.Bars, bar{Label: g.Key, Value: g.Value, Width: barWidth(g.Value, hi)})
	}
	d.Months = v.Options.Months
	return d
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, err := s.dashboard.View(r.Context(), ParseViewQuery(r.URL.Query()))
	if err != nil {
		s.viewError(w, r, err)
		return
	}

	title := "Projected enrollments by month"
	if v.Mode == core.ByCity {
		title = "Projected enrollments by city, " + v.Month
	}

	var buf bytes.Buffer
	if err := chart.RenderBar(&buf, title, v.Totals); err != nil {
		if errors.Is(err, core.ErrNoData) {
			http.Error(w, "no data", http.StatusNotFound)
			return
		}
		s.requestLogger(r).ErrorContext(r.Context(), "Chart render failed",
			log.FieldError, err, log.FieldComponent, log.ComponentChart)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}

	atomic.AddInt64(&s.appMetrics.charts, 1)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := export.NormalizeFormat(query.Get("format"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	res, err := s.dashboard.Export(r.Context(), ParseViewQuery(query), format)
	if err != nil {
		if errors.Is(err, export.ErrNoRows) {
			NotFoundError("No rows to download").Write(w)
			return
		}
		s.viewError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.exports, 1)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// viewError maps query failures: nothing loaded or an unknown sheet is a 404.
func (s *Server) viewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, memory.ErrNoWorkbook):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrSheetNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	default:
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard query failed", log.FieldError, err)
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// writeError answers htmx requests with an HTML fragment plus an error
// notification and everything else with JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if isHTMX(r) {
		htmxError(status, message).TriggerErrorNotification(message).Write(w)
		return
	}
	JSONError(status, message).Write(w)
}

func htmxError(status int, message string) *HTMXResponseBuilder {
	switch status {
	case http.StatusBadRequest:
		return BadRequestError(message)
	case http.StatusNotFound:
		return NotFoundError(message)
	case http.StatusUnprocessableEntity:
		return UnprocessableEntityError(message)
	case http.StatusInternalServerError:
		return InternalServerError(message)
	default:
		return ErrorResponse(status, message)
	}
}
