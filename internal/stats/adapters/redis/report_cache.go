// Package redis caches computed statistics reports. Reports are
// expensive full-table work while the table itself changes slowly, so a
// short TTL absorbs dashboard refreshes without serving stale days.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"event-analytics-service/internal/stats/core/domain"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewReportCache(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached report for key. Cache failures degrade to a
// miss; the report is recomputed rather than the request failing.
func (c *ReportCache) Get(ctx context.Context, key string) (*domain.StatisticsReport, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logWarn(err, "report cache read failed")
		}
		return nil, false
	}

	var report domain.StatisticsReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logWarn(err, "discarding undecodable cached report")
		return nil, false
	}
	return &report, true
}

func (c *ReportCache) Set(ctx context.Context, key string, report *domain.StatisticsReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logWarn(err, "report cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logWarn(err, "report cache write failed")
	}
}

func (c *ReportCache) logWarn(err error, message string) {
	if c.logger != nil {
		c.logger.WithError(err).Warn(message)
	}
}
