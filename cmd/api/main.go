package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	aggregatesRepoPg "event-analytics-service/internal/aggregates/adapters/postgres"
	aggregatesUsecase "event-analytics-service/internal/aggregates/core/usecase"
	"event-analytics-service/internal/config"
	eventsHttp "event-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "event-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "event-analytics-service/internal/events/core/usecase"
	statsHttp "event-analytics-service/internal/stats/adapters/http/fiber"
	statsRepoPg "event-analytics-service/internal/stats/adapters/postgres"
	statsRedis "event-analytics-service/internal/stats/adapters/redis"
	statsUsecase "event-analytics-service/internal/stats/core/usecase"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "event-analytics-service/docs"
)

func main() {
	logger := logrus.New()

	// Config
	cfg, err := config.Load(os.Getenv("EAS_CONFIG"))
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.WithError(err).Fatal("failed to ping postgres")
	}

	// Adapter-level DB wrappers
	eventsDB := eventsRepoPg.NewSQLDB(db)
	statsDB := statsRepoPg.NewSQLDB(db)
	aggregatesDB := aggregatesRepoPg.NewSQLDB(db)

	// Repositories
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)
	eventReader := statsRepoPg.NewEventReader(statsDB)
	aggregateRepository := aggregatesRepoPg.NewAggregateRepository(aggregatesDB)

	// Report cache (optional)
	var reportCache statsHttp.ReportCache
	if cfg.Redis.Enabled {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Fatal("failed to ping redis")
		}
		reportCache = statsRedis.NewReportCache(redisClient, cfg.Stats.CacheTTL, logger)
	}

	// Usecases
	ingestEventsUC := eventsUsecase.NewIngestEventsUseCase(eventRepository, logger)
	purgeEventsUC := eventsUsecase.NewPurgeEventsUseCase(eventRepository)
	expireEventsUC := eventsUsecase.NewExpireEventsUseCase(eventRepository, time.Duration(cfg.Events.RetentionDays)*24*time.Hour)
	compactEventsUC := aggregatesUsecase.NewCompactEventsUseCase(eventReader, aggregateRepository, logger)
	purgeAggregateUC := aggregatesUsecase.NewPurgeAggregateUseCase(aggregateRepository)
	generateStatisticsUC := statsUsecase.NewGenerateStatisticsUseCase(eventReader, nil)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(ingestEventsUC, purgeEventsUC, purgeAggregateUC, logger)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.IngestEvents)
	app.Delete("/events", eventsHandler.PurgeEvents)

	// stats endpoints
	statsHandler := statsHttp.NewStatisticsHandler(generateStatisticsUC, reportCache, logger)
	app.Get("/stats", statsHandler.GetStatistics)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Background compaction and retention
	maintenanceCtx, stopMaintenance := context.WithCancel(context.Background())
	defer stopMaintenance()
	go runMaintenance(maintenanceCtx, cfg, compactEventsUC, expireEventsUC, logger)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			logger.WithError(err).Error("fiber stopped")
		}
	}()

	logger.WithField("port", cfg.HTTP.Port).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("shutting down...")
	stopMaintenance()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.WithError(err).Error("fiber shutdown error")
	}

	logger.Info("server exiting")
}

// runMaintenance periodically folds newly stored events into the
// per-account aggregates and drops events past the retention period.
// Each compaction run covers the span since the previous one.
func runMaintenance(ctx context.Context, cfg *config.Config, compactUC *aggregatesUsecase.CompactEventsUseCase, expireUC *eventsUsecase.ExpireEventsUseCase, logger logrus.FieldLogger) {
	ticker := time.NewTicker(cfg.Events.CompactionInterval)
	defer ticker.Stop()

	lastRun := time.Now().Add(-cfg.Events.CompactionInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			result, err := compactUC.Execute(ctx, lastRun, now)
			if err != nil {
				logger.WithError(err).Error("compaction run failed")
			} else {
				lastRun = now
				logger.WithFields(logrus.Fields{
					"accounts": result.Accounts,
					"events":   result.Events,
				}).Info("compaction run finished")
			}

			expired, err := expireUC.Execute(ctx)
			if err != nil {
				logger.WithError(err).Error("retention run failed")
			} else if expired > 0 {
				logger.WithField("events", expired).Info("expired events past retention")
			}
		}
	}
}
