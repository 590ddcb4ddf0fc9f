package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-analytics-service/internal/events/adapters/memory"
	eventdomain "event-analytics-service/internal/events/core/domain"
	"event-analytics-service/internal/stats/core/usecase"
)

var reportNow = time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return reportNow }

func insert(t *testing.T, tbl *memory.Table, id, account string, ts time.Time, payload map[string]any) {
	t.Helper()
	if payload == nil {
		payload = map[string]any{}
	}
	payload["timestamp"] = ts.UTC().Format(time.RFC3339)
	created, err := tbl.InsertEvent(context.Background(), &eventdomain.Event{
		ID:        id,
		AccountID: account,
		Type:      "pageview",
		Payload:   payload,
	})
	if err != nil || !created {
		t.Fatalf("failed to seed event %s: created=%v err=%v", id, created, err)
	}
}

// ------------------------------------------------------------
// EMPTY WINDOW
// ------------------------------------------------------------
func TestGenerateStatistics_AllEventsOutsideWindow(t *testing.T) {
	tbl := memory.NewTable()
	tenDaysAgo := reportNow.AddDate(0, 0, -10)
	insert(t, tbl, "e1", "acct_1", tenDaysAgo, map[string]any{"userId": "u1", "sessionId": "s1"})
	insert(t, tbl, "e2", "acct_1", tenDaysAgo.Add(time.Hour), map[string]any{"userId": "u2"})

	uc := usecase.NewGenerateStatisticsUseCase(tbl, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{NumDays: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.UniqueUsers != 0 || report.UniqueAccounts != 0 || report.UniqueSessions != 0 {
		t.Fatalf("expected zero uniques, got %+v", report)
	}
	if len(report.Pageviews) != 7 {
		t.Fatalf("expected 7 day buckets, got %d", len(report.Pageviews))
	}
	for _, b := range report.Pageviews {
		if b.Pageviews != 0 {
			t.Fatalf("expected zero-count bucket, got %+v", b)
		}
	}
	if len(report.Referrers) != 0 {
		t.Fatalf("expected no referrers, got %v", report.Referrers)
	}
	if len(report.Pages) != 0 {
		t.Fatalf("expected no pages, got %v", report.Pages)
	}
}

// ------------------------------------------------------------
// UNIQUE COUNTS
// ------------------------------------------------------------
func TestGenerateStatistics_UniqueCountsDedupe(t *testing.T) {
	tbl := memory.NewTable()
	today := reportNow.Add(-time.Hour)
	yesterday := reportNow.AddDate(0, 0, -1)

	insert(t, tbl, "e1", "acct_1", today, map[string]any{"userId": "u1", "sessionId": "s1", "accountId": "acct_1"})
	insert(t, tbl, "e2", "acct_1", today.Add(time.Minute), map[string]any{"userId": "u1", "sessionId": "s1", "accountId": "acct_1"})
	insert(t, tbl, "e3", "acct_2", yesterday, map[string]any{"userId": "u2", "sessionId": "s2", "accountId": "acct_2"})
	// anonymous event: stored null userId is not a distinct value
	insert(t, tbl, "e4", "acct_2", yesterday.Add(time.Minute), map[string]any{"userId": nil, "accountId": "acct_2"})
	// outside the window entirely
	insert(t, tbl, "e5", "acct_3", reportNow.AddDate(0, 0, -20), map[string]any{"userId": "u9", "accountId": "acct_3"})

	uc := usecase.NewGenerateStatisticsUseCase(tbl, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.UniqueUsers != 2 {
		t.Fatalf("expected 2 unique users, got %d", report.UniqueUsers)
	}
	if report.UniqueAccounts != 2 {
		t.Fatalf("expected 2 unique accounts, got %d", report.UniqueAccounts)
	}
	if report.UniqueSessions != 2 {
		t.Fatalf("expected 2 unique sessions, got %d", report.UniqueSessions)
	}
}

// ------------------------------------------------------------
// PAGEVIEW TIME SERIES
// ------------------------------------------------------------
func TestGenerateStatistics_PageviewBuckets(t *testing.T) {
	tbl := memory.NewTable()
	insert(t, tbl, "e1", "acct_1", reportNow.Add(-time.Hour), nil)
	insert(t, tbl, "e2", "acct_1", reportNow.Add(-2*time.Hour), nil)
	insert(t, tbl, "e3", "acct_1", reportNow.AddDate(0, 0, -1), nil)

	uc := usecase.NewGenerateStatisticsUseCase(tbl, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{NumDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Pageviews) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(report.Pageviews))
	}

	wantDates := []string{"2026-08-24", "2026-08-25", "2026-08-26"}
	wantCounts := []int64{0, 1, 2}
	for i, b := range report.Pageviews {
		if b.Date != wantDates[i] {
			t.Fatalf("bucket %d: expected date %s, got %s", i, wantDates[i], b.Date)
		}
		if b.Pageviews != wantCounts[i] {
			t.Fatalf("bucket %d (%s): expected %d pageviews, got %d", i, b.Date, wantCounts[i], b.Pageviews)
		}
	}
}

// ------------------------------------------------------------
// REFERRERS
// ------------------------------------------------------------
func TestGenerateStatistics_ReferrersExternalOnly(t *testing.T) {
	tbl := memory.NewTable()
	today := reportNow.Add(-time.Hour)

	// internal navigation: referrer host equals href host
	insert(t, tbl, "e1", "acct_1", today, map[string]any{
		"href":     "https://www.example.net/about",
		"referrer": "https://www.example.net/",
	})
	// external referrals
	insert(t, tbl, "e2", "acct_1", today, map[string]any{
		"href":     "https://www.example.net/",
		"referrer": "https://coolblog.com/post/1",
	})
	insert(t, tbl, "e3", "acct_1", today, map[string]any{
		"href":     "https://www.example.net/",
		"referrer": "https://coolblog.com/post/2",
	})
	insert(t, tbl, "e4", "acct_1", today, map[string]any{
		"href":     "https://www.example.net/",
		"referrer": "https://search.example.org/?q=x",
	})
	// referrers are computed over ALL events, even outside the window
	insert(t, tbl, "e5", "acct_1", reportNow.AddDate(0, 0, -30), map[string]any{
		"href":     "https://www.example.net/",
		"referrer": "https://search.example.org/?q=y",
	})

	uc := usecase.NewGenerateStatisticsUseCase(tbl, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Referrers) != 2 {
		t.Fatalf("expected 2 referrer hosts, got %v", report.Referrers)
	}
	if report.Referrers[0].Count < report.Referrers[1].Count {
		t.Fatalf("referrers not sorted descending: %v", report.Referrers)
	}
	if report.Referrers[0].Host != "coolblog.com" || report.Referrers[0].Count != 2 {
		t.Fatalf("unexpected top referrer: %+v", report.Referrers[0])
	}
	if report.Referrers[1].Host != "search.example.org" || report.Referrers[1].Count != 2 {
		t.Fatalf("expected search.example.org with 2 hits, got %+v", report.Referrers[1])
	}
}

// ------------------------------------------------------------
// PAGES
// ------------------------------------------------------------
func TestGenerateStatistics_PagesGroupedAndAscending(t *testing.T) {
	tbl := memory.NewTable()
	today := reportNow.Add(-time.Hour)

	for i := 0; i < 3; i++ {
		insert(t, tbl, "home"+string(rune('a'+i)), "acct_1", today.Add(time.Duration(i)*time.Minute), map[string]any{
			"href": "https://www.example.net/",
		})
	}
	insert(t, tbl, "about", "acct_1", today, map[string]any{
		"href": "https://www.example.net/about",
	})
	// same href under another account is a separate page group
	insert(t, tbl, "other", "acct_2", today, map[string]any{
		"href": "https://www.example.net/about",
	})

	uc := usecase.NewGenerateStatisticsUseCase(tbl, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Pages) != 3 {
		t.Fatalf("expected 3 page groups, got %v", report.Pages)
	}
	// ascending by pageviews, as specified
	for i := 1; i < len(report.Pages); i++ {
		if report.Pages[i-1].Pageviews > report.Pages[i].Pageviews {
			t.Fatalf("pages not ascending by views: %v", report.Pages)
		}
	}
	last := report.Pages[len(report.Pages)-1]
	if last.Origin != "https://www.example.net" || last.Pathname != "/" || last.Pageviews != 3 {
		t.Fatalf("unexpected busiest page: %+v", last)
	}
}

// ------------------------------------------------------------
// INPUT VALIDATION / FAILURE PROPAGATION
// ------------------------------------------------------------
func TestGenerateStatistics_DefaultWindow(t *testing.T) {
	uc := usecase.NewGenerateStatisticsUseCase(memory.NewTable(), clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Pageviews) != usecase.DefaultNumDays {
		t.Fatalf("expected %d default buckets, got %d", usecase.DefaultNumDays, len(report.Pageviews))
	}
}

func TestGenerateStatistics_NegativeNumDays(t *testing.T) {
	uc := usecase.NewGenerateStatisticsUseCase(memory.NewTable(), clock)

	_, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{NumDays: -1})
	if !errors.Is(err, usecase.ErrInvalidNumDays) {
		t.Fatalf("expected ErrInvalidNumDays, got %v", err)
	}
}

// table whose full scan fails
type failingAll struct {
	*memory.Table
}

func (f failingAll) All(ctx context.Context) ([]eventdomain.Event, error) {
	return nil, errors.New("table offline")
}

func TestGenerateStatistics_SubQueryFailureAbortsReport(t *testing.T) {
	tbl := memory.NewTable()
	insert(t, tbl, "e1", "acct_1", reportNow.Add(-time.Hour), map[string]any{"userId": "u1"})

	uc := usecase.NewGenerateStatisticsUseCase(failingAll{tbl}, clock)

	report, err := uc.Execute(context.Background(), usecase.GenerateStatisticsInput{})
	if err == nil {
		t.Fatalf("expected failure to propagate, got report %+v", report)
	}
	if report != nil {
		t.Fatalf("expected no partial report, got %+v", report)
	}
}
