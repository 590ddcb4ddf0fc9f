package usecase

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"time"

	"event-analytics-service/internal/stats/core/domain"
	"event-analytics-service/internal/stats/core/ports"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidNumDays   = errors.New("num_days must be positive")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

const DefaultNumDays = 7

type GenerateStatisticsUseCase struct {
	reader ports.EventReaderPort
	now    func() time.Time
}

// NewGenerateStatisticsUseCase builds the query engine over a table.
// A nil clock means wall time; tests pin it.
func NewGenerateStatisticsUseCase(reader ports.EventReaderPort, clock func() time.Time) *GenerateStatisticsUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &GenerateStatisticsUseCase{reader: reader, now: clock}
}

type GenerateStatisticsInput struct {
	NumDays int // 0 means the default trailing window
}

// Execute assembles one StatisticsReport for the trailing reporting
// window. The six sub-computations are independent and run
// concurrently; any failure aborts the whole report, so an empty report
// always means "no data in range", never "partially computed".
func (uc *GenerateStatisticsUseCase) Execute(ctx context.Context, in GenerateStatisticsInput) (*domain.StatisticsReport, error) {
	numDays := in.NumDays
	if numDays == 0 {
		numDays = DefaultNumDays
	}
	if numDays < 0 {
		return nil, ErrInvalidNumDays
	}

	now := uc.now()
	sc, err := newScope(uc.reader, startOfDay(now.AddDate(0, 0, -numDays)), now)
	if err != nil {
		return nil, err
	}

	report := &domain.StatisticsReport{}
	g, gctx := errgroup.WithContext(ctx)

	// each goroutine writes a distinct report field
	g.Go(func() error {
		n, err := sc.uniqueCount(gctx, "userId")
		if err != nil {
			return err
		}
		report.UniqueUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := sc.uniqueCount(gctx, "accountId")
		if err != nil {
			return err
		}
		report.UniqueAccounts = n
		return nil
	})
	g.Go(func() error {
		n, err := sc.uniqueCount(gctx, "sessionId")
		if err != nil {
			return err
		}
		report.UniqueSessions = n
		return nil
	})
	g.Go(func() error {
		buckets, err := uc.pageviews(gctx, now, numDays)
		if err != nil {
			return err
		}
		report.Pageviews = buckets
		return nil
	})
	g.Go(func() error {
		referrers, err := uc.referrers(gctx)
		if err != nil {
			return err
		}
		report.Referrers = referrers
		return nil
	})
	g.Go(func() error {
		pages, err := uc.pages(gctx, sc)
		if err != nil {
			return err
		}
		report.Pages = pages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// pageviews counts events per calendar day. Each day is queried with
// its own exact bounds instead of slicing the aggregate scope, so day
// buckets never drift against the window edges.
func (uc *GenerateStatisticsUseCase) pageviews(ctx context.Context, now time.Time, numDays int) ([]domain.PageviewBucket, error) {
	buckets := make([]domain.PageviewBucket, 0, numDays)
	for distance := numDays - 1; distance >= 0; distance-- {
		day := now.AddDate(0, 0, -distance)
		n, err := uc.reader.CountRange(ctx, startOfDay(day), endOfDay(day))
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, domain.PageviewBucket{
			Date:      day.Format("2006-01-02"),
			Pageviews: n,
		})
	}
	return buckets, nil
}

// referrers ranks external referrer hosts over all stored events, not
// just the reporting window. Same-host navigations are internal and do
// not count.
func (uc *GenerateStatisticsUseCase) referrers(ctx context.Context) ([]domain.ReferrerStat, error) {
	events, err := uc.reader.All(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for i := range events {
		referrer, ok := events[i].StringField("referrer")
		if !ok {
			continue
		}
		referrerHost := hostOf(referrer)
		if href, ok := events[i].StringField("href"); ok && hostOf(href) == referrerHost {
			continue
		}
		counts[referrerHost]++
	}

	stats := make([]domain.ReferrerStat, 0, len(counts))
	for host, n := range counts {
		stats = append(stats, domain.ReferrerStat{Host: host, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Host < stats[j].Host
	})
	return stats, nil
}

// pages groups scoped events by (account, href) and reports each page's
// origin, path and view count, ascending by views.
func (uc *GenerateStatisticsUseCase) pages(ctx context.Context, sc scope) ([]domain.PageStat, error) {
	events, err := sc.items(ctx)
	if err != nil {
		return nil, err
	}

	type pageKey struct {
		account string
		href    string
	}
	groups := make(map[pageKey]int64)
	for i := range events {
		href, ok := events[i].StringField("href")
		if !ok {
			continue
		}
		groups[pageKey{account: events[i].AccountID, href: href}]++
	}

	stats := make([]domain.PageStat, 0, len(groups))
	for key, n := range groups {
		u, err := url.Parse(key.href)
		if err != nil || u.Host == "" {
			continue
		}
		pathname := u.Path
		if pathname == "" {
			pathname = "/"
		}
		stats = append(stats, domain.PageStat{
			Origin:    u.Scheme + "://" + u.Host,
			Pathname:  pathname,
			Pageviews: n,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Pageviews != stats[j].Pageviews {
			return stats[i].Pageviews < stats[j].Pageviews
		}
		if stats[i].Origin != stats[j].Origin {
			return stats[i].Origin < stats[j].Origin
		}
		return stats[i].Pathname < stats[j].Pathname
	})
	return stats, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
