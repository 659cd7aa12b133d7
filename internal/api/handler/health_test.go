package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, zerolog.Nop())
	h.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" || resp["timestamp"] != "2024-05-06T07:08:09.000Z" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		deps     map[string]Pinger
		wantCode int
	}{
		{"all healthy", map[string]Pinger{"sqlite": stubPinger{}, "redis": stubPinger{}}, http.StatusOK},
		{"cache down", map[string]Pinger{"sqlite": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}}, http.StatusServiceUnavailable},
		{"nil dependency skipped", map[string]Pinger{"sqlite": stubPinger{}, "redis": nil}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.deps, zerolog.Nop())
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}

func TestHealthHandler_Readiness_KeepsErrorsInLogs(t *testing.T) {
	const detail = "dial tcp 10.0.0.7:6379: connection refused"

	var logs bytes.Buffer
	h := NewHealthHandler(map[string]Pinger{
		"sqlite": stubPinger{},
		"redis":  stubPinger{err: errors.New(detail)},
	}, zerolog.New(&logs))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if strings.Contains(rec.Body.String(), "10.0.0.7") {
		t.Fatalf("probe body leaks dependency error: %s", rec.Body.String())
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["sqlite"].Status != "ok" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	if !strings.Contains(logs.String(), detail) || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected the ping error in the log, got %q", logs.String())
	}
}
