package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	statsHttp "event-analytics-service/internal/stats/adapters/http/fiber"
	"event-analytics-service/internal/stats/core/domain"
	"event-analytics-service/internal/stats/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeStatsUseCase struct {
	ExecuteFn func(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error)
	LastInput usecase.GenerateStatisticsInput
	Calls     int
}

func (f *fakeStatsUseCase) Execute(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error) {
	f.LastInput = in
	f.Calls++
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &domain.StatisticsReport{}, nil
}

type fakeCache struct {
	store map[string]*domain.StatisticsReport
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]*domain.StatisticsReport)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (*domain.StatisticsReport, bool) {
	report, ok := f.store[key]
	return report, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, report *domain.StatisticsReport) {
	f.store[key] = report
}

func setupTestApp(uc statsHttp.GenerateStatisticsUseCase, cache statsHttp.ReportCache) *fiber.App {
	app := fiber.New()
	h := statsHttp.NewStatisticsHandler(uc, cache, nil)
	app.Get("/stats", h.GetStatistics)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, body
}

func sampleReport() *domain.StatisticsReport {
	return &domain.StatisticsReport{
		UniqueUsers:    3,
		UniqueAccounts: 1,
		UniqueSessions: 4,
		Pageviews: []domain.PageviewBucket{
			{Date: "2026-08-25", Pageviews: 2},
			{Date: "2026-08-26", Pageviews: 5},
		},
		Referrers: []domain.ReferrerStat{{Host: "coolblog.com", Count: 2}},
		Pages:     []domain.PageStat{{Origin: "https://www.example.net", Pathname: "/", Pageviews: 5}},
	}
}

func TestGetStatistics_Success(t *testing.T) {
	fakeUC := &fakeStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error) {
			return sampleReport(), nil
		},
	}

	app := setupTestApp(fakeUC, nil)

	resp, body := doRequest(t, app, "/stats?num_days=7")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}
	if fakeUC.LastInput.NumDays != 7 {
		t.Fatalf("expected num_days=7 passed through, got %d", fakeUC.LastInput.NumDays)
	}

	var respJSON statsHttp.StatisticsResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.UniqueUsers != 3 || len(respJSON.Pageviews) != 2 {
		t.Fatalf("unexpected response: %+v", respJSON)
	}
}

func TestGetStatistics_DefaultWindow(t *testing.T) {
	fakeUC := &fakeStatsUseCase{}
	app := setupTestApp(fakeUC, nil)

	resp, body := doRequest(t, app, "/stats")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}
	if fakeUC.LastInput.NumDays != 0 {
		t.Fatalf("expected zero num_days to let the usecase default, got %d", fakeUC.LastInput.NumDays)
	}
}

func TestGetStatistics_InvalidNumDaysParam(t *testing.T) {
	fakeUC := &fakeStatsUseCase{}
	app := setupTestApp(fakeUC, nil)

	resp, _ := doRequest(t, app, "/stats?num_days=soon")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if fakeUC.Calls != 0 {
		t.Fatalf("usecase must not run for malformed input")
	}
}

func TestGetStatistics_UsageError(t *testing.T) {
	fakeUC := &fakeStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error) {
			return nil, usecase.ErrInvalidNumDays
		},
	}

	app := setupTestApp(fakeUC, nil)

	resp, body := doRequest(t, app, "/stats?num_days=-3")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "invalid_query" {
		t.Fatalf("expected error=invalid_query, got %v", respJSON["error"])
	}
}

func TestGetStatistics_InternalError(t *testing.T) {
	fakeUC := &fakeStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error) {
			return nil, errors.New("table offline")
		},
	}

	app := setupTestApp(fakeUC, nil)

	resp, body := doRequest(t, app, "/stats")

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "internal_server_error" {
		t.Fatalf("expected error=internal_server_error, got %v", respJSON["error"])
	}
}

func TestGetStatistics_ServesFromCache(t *testing.T) {
	fakeUC := &fakeStatsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error) {
			return sampleReport(), nil
		},
	}
	cache := newFakeCache()
	app := setupTestApp(fakeUC, cache)

	// first request computes and fills the cache
	resp, _ := doRequest(t, app, "/stats?num_days=7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if fakeUC.Calls != 1 {
		t.Fatalf("expected 1 usecase call, got %d", fakeUC.Calls)
	}

	// second request is a cache hit
	resp, body := doRequest(t, app, "/stats?num_days=7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if fakeUC.Calls != 1 {
		t.Fatalf("expected cache to absorb the second call, got %d calls", fakeUC.Calls)
	}

	var respJSON statsHttp.StatisticsResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.UniqueUsers != 3 {
		t.Fatalf("unexpected cached response: %+v", respJSON)
	}
}
