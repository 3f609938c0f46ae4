package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"localcast/internal/logging"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("Expected a UUID request id, got %q", id)
	}
	if seen != id {
		t.Errorf("Handler saw %q, response has %q", seen, id)
	}
}

func TestRequestIDInbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"valid id reused", "client-42.retry_1", true},
		{"blank replaced", "   ", false},
		{"spaces replaced", "two words", false},
		{"control chars replaced", "id\r\nX-Injected: 1", false},
		{"too long replaced", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if tt.reused && got != tt.header {
				t.Errorf("Expected %q to be reused, got %q", tt.header, got)
			}
			if !tt.reused {
				if _, err := uuid.Parse(got); err != nil {
					t.Errorf("Expected generated UUID, got %q", got)
				}
			}
		})
	}
}

func TestRequestIDAttachedToLogger(t *testing.T) {
	buf := captureLogs(t)

	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info().Msg("serving playlist")
	}))

	req := httptest.NewRequest(http.MethodGet, "/playlist/common.m3u", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"request_id":"req-7"`) {
		t.Errorf("Expected request_id in log output, got %q", buf.String())
	}
}
