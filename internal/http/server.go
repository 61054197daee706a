package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"xlsdash/internal/cache"
	"xlsdash/internal/log"
	"xlsdash/internal/middleware/ratelimit"
	"xlsdash/internal/middleware/security"
	"xlsdash/internal/middleware/trace"
	"xlsdash/internal/services"
	appweb "xlsdash/web"
)

// DefaultMaxUploadBytes bounds an upload request body.
const DefaultMaxUploadBytes = 20 << 20

// Options configures a Server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	UploadRate     int
	// ImportEnabled shows the remote import form.
	ImportEnabled bool
	// MemoStats reports the by-month memo for /metrics. Optional.
	MemoStats func() cache.Stats
	Logger    *log.Logger
}

type appMetrics struct {
	uploads        int64
	uploadFailures int64
	imports        int64
	exports        int64
	charts         int64
	uptime         time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard *services.DashboardService
	logger    *log.Logger
	opts      Options

	traceMiddleware  *trace.Middleware
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and middleware, returning a ready-to-run server.
func NewServer(opts Options, dashboard *services.DashboardService) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	limiterConfig := ratelimit.DefaultConfig()
	if opts.UploadRate > 0 {
		limiterConfig.RequestsPerMinute = opts.UploadRate
	}

	mux := http.NewServeMux()
	s := &Server{
		dashboard:        dashboard,
		logger:           logger,
		opts:             opts,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		rateLimiter:      ratelimit.NewLimiter(limiterConfig),
		securityDetector: detector,
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/import/google", s.handleImport)

	mux.HandleFunc("GET /api/sheets", s.handleSheets)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboardPartial)
	mux.HandleFunc("GET /chart.png", s.handleChart)
	mux.HandleFunc("GET /export", s.handleExport)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// middleware wraps h outermost first: tracing, logger injection, security, rate limiting.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(h)
	h = s.securityDetector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(s.logger)(h)
	return s.traceMiddleware.Middleware(h)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path,
		log.FieldComponent, log.ComponentRateLimit)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
}
