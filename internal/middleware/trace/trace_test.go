package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddleware_GeneratesRequestID(t *testing.T) {
	m := NewMiddleware(func(*http.Request) string { return "10.0.0.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/view", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("unexpected request id %q", seen)
	}
	if rr.Header().Get(HeaderRequestID) != seen {
		t.Errorf("response header = %q, want %q", rr.Header().Get(HeaderRequestID), seen)
	}
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d", rr.Code)
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d, want 1", got)
	}
}

func TestMiddleware_HonorsInboundID(t *testing.T) {
	m := NewMiddleware(nil)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	tests := []struct {
		name, header string
		keep         bool
	}{
		{"valid", "abc-123", true},
		{"spaces rejected", "abc 123", false},
		{"too long", strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderRequestID, tt.header)
			h.ServeHTTP(httptest.NewRecorder(), req)
			if (seen == tt.header) != tt.keep {
				t.Errorf("request id = %q, keep=%v", seen, tt.keep)
			}
		})
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
