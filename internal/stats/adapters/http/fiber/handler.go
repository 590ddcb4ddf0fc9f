package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"event-analytics-service/internal/stats/core/domain"
	"event-analytics-service/internal/stats/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type GenerateStatisticsUseCase interface {
	Execute(ctx context.Context, in usecase.GenerateStatisticsInput) (*domain.StatisticsReport, error)
}

// ReportCache memoizes whole reports. A nil cache disables memoization.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.StatisticsReport, bool)
	Set(ctx context.Context, key string, report *domain.StatisticsReport)
}

type StatisticsHandler struct {
	uc     GenerateStatisticsUseCase
	cache  ReportCache
	logger logrus.FieldLogger
}

func NewStatisticsHandler(uc GenerateStatisticsUseCase, cache ReportCache, logger logrus.FieldLogger) *StatisticsHandler {
	return &StatisticsHandler{uc: uc, cache: cache, logger: logger}
}

func (h *StatisticsHandler) logError(err error, message string) {
	if h.logger != nil {
		h.logger.WithError(err).Error(message)
	}
}

// GetStatistics godoc
// @Summary Compute statistics for the trailing reporting window
// @Description Returns unique counts, a daily pageview series, referrer and page rankings
// @Tags Statistics
// @Produce json
// @Param num_days query int false "Window size in days (default 7)"
// @Success 200 {object} StatisticsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats [get]
func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	numDays := 0
	if raw := c.Query("num_days", ""); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: "invalid 'num_days' parameter",
			})
		}
		numDays = parsed
	}

	cacheKey := "stats:" + strconv.Itoa(numDays)
	if h.cache != nil {
		if report, ok := h.cache.Get(c.UserContext(), cacheKey); ok {
			return c.Status(http.StatusOK).JSON(toResponse(report))
		}
	}

	report, err := h.uc.Execute(c.UserContext(), usecase.GenerateStatisticsInput{NumDays: numDays})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidNumDays),
			errors.Is(err, usecase.ErrInvalidTimeRange):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: err.Error(),
			})
		default:
			h.logError(err, "statistics report failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	if h.cache != nil {
		h.cache.Set(c.UserContext(), cacheKey, report)
	}

	return c.Status(http.StatusOK).JSON(toResponse(report))
}

func toResponse(report *domain.StatisticsReport) StatisticsResponse {
	resp := StatisticsResponse{
		UniqueUsers:    report.UniqueUsers,
		UniqueAccounts: report.UniqueAccounts,
		UniqueSessions: report.UniqueSessions,
		Pageviews:      make([]PageviewResponse, 0, len(report.Pageviews)),
		Referrers:      make([]ReferrerResponse, 0, len(report.Referrers)),
		Pages:          make([]PageResponse, 0, len(report.Pages)),
	}
	for _, b := range report.Pageviews {
		resp.Pageviews = append(resp.Pageviews, PageviewResponse{Date: b.Date, Pageviews: b.Pageviews})
	}
	for _, r := range report.Referrers {
		resp.Referrers = append(resp.Referrers, ReferrerResponse{Host: r.Host, Count: r.Count})
	}
	for _, p := range report.Pages {
		resp.Pages = append(resp.Pages, PageResponse{Origin: p.Origin, Pathname: p.Pathname, Pageviews: p.Pageviews})
	}
	return resp
}
