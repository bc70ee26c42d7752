package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sohamroyc/Api-directory/internal/logger"
)

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"apis.example.com", "apis.example.com", true},
		{"sub.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evil-example.com", "*.example.com", false},
		{"other.com", "apis.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestLimiterRefills(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{PerMinute: 60, Burst: 2, Now: func() time.Time { return now }})

	for i := range 2 {
		if ok, _ := l.allow("1.2.3.4", now); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	ok, retry := l.allow("1.2.3.4", now)
	if ok || retry != 1 {
		t.Fatalf("allow() = %v, %d; want rejected with retry 1s", ok, retry)
	}
	if ok, _ := l.allow("5.6.7.8", now); !ok {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if ok, _ := l.allow("1.2.3.4", now); !ok {
		t.Fatal("one token should refill after a second")
	}
}

func TestLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{PerMinute: 10, IdleTTL: time.Minute, Now: func() time.Time { return now }})

	l.allow("1.2.3.4", now)
	l.allow("5.6.7.8", now.Add(90*time.Second))
	if len(l.buckets) != 1 {
		t.Fatalf("buckets = %d, want 1 after sweep", len(l.buckets))
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{}, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for range 100 {
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, httptest.NewRequest("POST", "/api/login", nil))
		if rw.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rw.Code)
		}
	}
}

func TestAllowOnlyCIDRSRejectsWithJSON(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest("GET", "/metrics", nil))
	if rw.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rw.Code)
	}
	if got := rw.Body.String(); got != "{\"error\":\"forbidden\"}\n" {
		t.Errorf("body = %q", got)
	}
}
