package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"image-watermarker/internal/domain"
	"image-watermarker/internal/http-server/handler/status"
	"image-watermarker/internal/http-server/handler/status/dto"
	"image-watermarker/internal/worker"

	"github.com/rs/zerolog"
)

type stubPipeline struct {
	state     worker.State
	last      *domain.PassSummary
	names     []string
	ledgerErr error
}

func (s *stubPipeline) State() worker.State { return s.state }

func (s *stubPipeline) LastPass() (domain.PassSummary, bool) {
	if s.last == nil {
		return domain.PassSummary{}, false
	}
	return *s.last, true
}

func (s *stubPipeline) Ledger(ctx context.Context) ([]string, error) {
	return s.names, s.ledgerErr
}

func serve(t *testing.T, p *stubPipeline, target string) *httptest.ResponseRecorder {
	t.Helper()
	logger := zerolog.Nop()
	mux := SetupRouter(&Handler{
		StatusHandler: status.NewStatusHandler(p, &logger),
		Logger:        &logger,
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	rec := serve(t, &stubPipeline{state: worker.StateScanning}, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body dto.HealthResponse
	decode(t, rec, &body)
	if body.Status != "ok" || body.State != "scanning" {
		t.Fatalf("body = %+v", body)
	}
}

func TestLastPass(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &stubPipeline{last: &domain.PassSummary{
		ID:         "pass-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Processed:  2,
		Results: []domain.FileResult{
			{Name: "a.png", Status: domain.FileStatusSuccess},
			{Name: "b.jpg", Status: domain.FileStatusFailed, Error: "failed to decode image"},
		},
	}}

	rec := serve(t, p, "/api/passes/last")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body dto.PassResponse
	decode(t, rec, &body)
	if body.ID != "pass-1" || body.Processed != 2 || body.DurationMS != 1500 {
		t.Fatalf("body = %+v", body)
	}

	rec = serve(t, p, "/api/passes/last/files/b.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var file domain.FileResult
	decode(t, rec, &file)
	if file.Status != domain.FileStatusFailed || file.Error == "" {
		t.Fatalf("file = %+v", file)
	}

	rec = serve(t, p, "/api/passes/last/files/missing.png")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLastPassBeforeFirstPass(t *testing.T) {
	rec := serve(t, &stubPipeline{}, "/api/passes/last")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body dto.ErrorResponse
	decode(t, rec, &body)
	if body.Details != status.ErrNoPassYet.Error() {
		t.Fatalf("body = %+v", body)
	}
}

func TestLedger(t *testing.T) {
	p := &stubPipeline{names: []string{"a.png", "b.jpg", "c.jpeg"}}

	tests := []struct {
		target string
		code   int
		count  int
		names  int
	}{
		{"/api/ledger", http.StatusOK, 3, 3},
		{"/api/ledger?limit=2", http.StatusOK, 3, 2},
		{"/api/ledger?limit=0", http.StatusOK, 3, 3},
		{"/api/ledger?limit=abc", http.StatusBadRequest, 0, 0},
		{"/api/ledger?limit=-1", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(t, p, tt.target)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var body dto.LedgerResponse
			decode(t, rec, &body)
			if body.Count != tt.count || len(body.Names) != tt.names {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestLedgerEmptyAndError(t *testing.T) {
	rec := serve(t, &stubPipeline{}, "/api/ledger")
	var body dto.LedgerResponse
	decode(t, rec, &body)
	if body.Names == nil || body.Count != 0 {
		t.Fatalf("body = %+v", body)
	}

	rec = serve(t, &stubPipeline{ledgerErr: errors.New("db down")}, "/api/ledger")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := serve(t, &stubPipeline{}, "/api/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
