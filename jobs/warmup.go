package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-pos/atlas-analytics/internal/analytics"
	jobmetrics "github.com/atlas-pos/atlas-analytics/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const (
	warmupSalesDays     = 30
	warmupFinancialDays = 90
)

// AnalyticsWarmupJob pre-populates the report caches so the first dashboard
// request of the day hits Redis instead of Postgres.
type AnalyticsWarmupJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Analytics: analyticsSvc,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	reports := payload.Reports
	if len(reports) == 0 {
		reports = []string{ReportSales, ReportInventory, ReportFinancial}
	}

	tracker := j.metrics().Track(TaskAnalyticsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting analytics warmup", slog.Int("reports", len(reports)))

	started := j.now()
	for _, report := range reports {
		if err := j.warmReport(ctx, report, started); err != nil {
			resultErr = err
			logger.Error("warm report", slog.String("report", report), slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed analytics warmup", slog.Int("reports", len(reports)), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *AnalyticsWarmupJob) warmReport(ctx context.Context, report string, now time.Time) error {
	// Tighten each report with its own timeout to avoid long-running jobs.
	reportCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	end := now.Truncate(24 * time.Hour)
	switch report {
	case ReportSales:
		filter := analytics.SalesFilter{
			Start:   end.AddDate(0, 0, -warmupSalesDays),
			End:     end,
			GroupBy: analytics.GranularityDay,
		}
		_, err := j.Analytics.SalesReport(reportCtx, filter)
		return err
	case ReportInventory:
		_, err := j.Analytics.InventoryReport(reportCtx)
		return err
	case ReportFinancial:
		filter := analytics.FinancialFilter{
			Start: end.AddDate(0, 0, -warmupFinancialDays),
			End:   end,
		}
		_, err := j.Analytics.FinancialReport(reportCtx, filter)
		return err
	default:
		return asynq.SkipRetry
	}
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAnalyticsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskAnalyticsWarmup))
}

func (j *AnalyticsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AnalyticsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
