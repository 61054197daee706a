package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"xlsdash/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}
	NewHTMXResponse().BodyJSON(health).Write(w)
}

// handleReady reports ready once templates are parsed and a workbook is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if wb, err := s.dashboard.Current(); err != nil {
		checks["workbook"] = "not_loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["workbook"] = map[string]interface{}{
			"id":       wb.ID,
			"filename": wb.Filename,
			"sheets":   len(wb.SheetNames()),
		}
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}
	NewHTMXResponse().Status(httpStatus).BodyJSON(response).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	loaded := 0
	if s.dashboard.Loaded() {
		loaded = 1
	}

	w.WriteHeader(http.StatusOK)

	// Prometheus-like text format
	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n\n", name, help, name, name, v)
	}
	gauge := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n\n", name, help, name, name, v)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	gauge("http_request_duration_avg_microseconds", "Average response time", traceMetrics.AverageResponseTime)
	counter("uploads_total", "Workbooks loaded from uploads", atomic.LoadInt64(&s.appMetrics.uploads))
	counter("upload_failures_total", "Rejected uploads", atomic.LoadInt64(&s.appMetrics.uploadFailures))
	counter("imports_total", "Workbooks loaded from remote import", atomic.LoadInt64(&s.appMetrics.imports))
	counter("exports_total", "Filtered downloads served", atomic.LoadInt64(&s.appMetrics.exports))
	counter("charts_total", "Charts rendered", atomic.LoadInt64(&s.appMetrics.charts))
	gauge("workbook_loaded", "Whether a workbook is loaded", int64(loaded))

	if s.opts.MemoStats != nil {
		st := s.opts.MemoStats()
		counter("cache_hits_total", "Total by-month memo hits", int64(st.Hits))
		counter("cache_misses_total", "Total by-month memo misses", int64(st.Misses))
		gauge("cache_entries", "Current by-month memo entries", int64(st.Size))
	}

	counter("rate_limit_hits_total", "Total rate limit hits", rateLimitMetrics.TotalHits)
	gauge("active_rate_limit_clients", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	counter("suspicious_requests_total", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n# TYPE uptime_seconds gauge\nuptime_seconds %.0f\n",
		time.Since(s.appMetrics.uptime).Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate,
			"error_type", log.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Loaded        bool
		Filename      string
		ImportEnabled bool
		MaxUploadMB   int64
	}{
		ImportEnabled: s.opts.ImportEnabled,
		MaxUploadMB:   s.opts.MaxUploadBytes >> 20,
	}
	if wb, err := s.dashboard.Current(); err == nil {
		data.Loaded = true
		data.Filename = wb.Filename
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// requestLogger returns the logger injected by the middleware chain.
func (s *Server) requestLogger(r *http.Request) *log.Logger {
	if l, ok := r.Context().Value(log.LoggerContextKey).(*log.Logger); ok {
		return l
	}
	return s.logger
}
