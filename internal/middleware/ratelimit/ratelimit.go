package ratelimit

import (
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter enforces a fixed per-client request budget per window.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	metrics      *MetricsCollector
	now          func() time.Time

	// Configuration
	requestsPerWindow int
	window            time.Duration
	cleanupInterval   time.Duration
	methods           []string
}

type clientInfo struct {
	windowStart time.Time
	lastRequest time.Time
	requests    int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// Methods restricts limiting to these HTTP methods. Empty means all.
	Methods []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		CleanupInterval:   5 * time.Minute,
		Methods:           []string{http.MethodPost},
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:           make(map[string]*clientInfo),
		stopCleanup:       make(chan struct{}),
		metrics:           NewMetricsCollector(),
		now:               time.Now,
		requestsPerWindow: config.RequestsPerMinute,
		window:            time.Minute,
		cleanupInterval:   config.CleanupInterval,
		methods:           config.Methods,
	}
	go rl.startCleanup()
	return rl
}

// Allow checks if a request from the given IP should be allowed
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{windowStart: now, lastRequest: now, requests: 1}
		rl.metrics.UpdateClientCount(int64(len(rl.clients)))
		return true
	}

	client.lastRequest = now
	if now.Sub(client.windowStart) >= rl.window {
		client.windowStart = now
		client.requests = 1
		return true
	}

	if client.requests >= rl.requestsPerWindow {
		rl.metrics.RecordHit()
		return false
	}
	client.requests++
	return true
}

// retryAfter returns the seconds until clientIP's window resets.
func (rl *Limiter) retryAfter(clientIP string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	client, ok := rl.clients[clientIP]
	if !ok {
		return 0
	}
	left := rl.window - rl.now().Sub(client.windowStart)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries idle for ten windows
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * rl.window)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
	rl.metrics.UpdateClientCount(int64(len(rl.clients)))
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	return rl.metrics.GetMetrics()
}

// Metrics for monitoring rate limit performance
type Metrics struct {
	TotalHits   int64
	ClientCount int64
}

// MetricsCollector tracks rate limiting metrics
type MetricsCollector struct {
	totalHits   int64
	clientCount int64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordHit records a rejected request
func (m *MetricsCollector) RecordHit() {
	atomic.AddInt64(&m.totalHits, 1)
}

// UpdateClientCount updates the active client count
func (m *MetricsCollector) UpdateClientCount(count int64) {
	atomic.StoreInt64(&m.clientCount, count)
}

// GetMetrics returns current metrics
func (m *MetricsCollector) GetMetrics() Metrics {
	return Metrics{
		TotalHits:   atomic.LoadInt64(&m.totalHits),
		ClientCount: atomic.LoadInt64(&m.clientCount),
	}
}

func (rl *Limiter) applies(method string) bool {
	return len(rl.methods) == 0 || slices.Contains(rl.methods, method)
}

// Middleware creates HTTP middleware for rate limiting
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.applies(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := extractIP(r)
			if !rl.Allow(clientIP) {
				if secs := rl.retryAfter(clientIP); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
