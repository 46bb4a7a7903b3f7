package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-pos/atlas-analytics/internal/analytics"
)

type warmupRepo struct {
	salesCalls   int
	salesErr     error
	revenueCalls int
	stockCalls   int
	dailyRev     int
	dailyCost    int
}

func (r *warmupRepo) SalesByDay(ctx context.Context, start, end time.Time) ([]analytics.SalesRow, error) {
	r.salesCalls++
	return nil, r.salesErr
}

func (r *warmupRepo) RevenueTotal(ctx context.Context, start, end time.Time) (float64, error) {
	r.revenueCalls++
	return 0, nil
}

func (r *warmupRepo) StockOverview(ctx context.Context) ([]analytics.StockRow, error) {
	r.stockCalls++
	return nil, nil
}

func (r *warmupRepo) DailyRevenue(ctx context.Context, start, end time.Time) ([]analytics.RevenuePoint, error) {
	r.dailyRev++
	return nil, nil
}

func (r *warmupRepo) DailyCosts(ctx context.Context, start, end time.Time) ([]analytics.CostPoint, error) {
	r.dailyCost++
	return nil, nil
}

func newWarmupJob(repo analytics.Repository) *AnalyticsWarmupJob {
	svc := analytics.NewService(repo, nil, slog.Default())
	job := NewAnalyticsWarmupJob(svc, slog.Default(), nil)
	job.clock = func() time.Time {
		return time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	}
	return job
}

func TestWarmupHandlesAllReportsByDefault(t *testing.T) {
	repo := &warmupRepo{}
	job := newWarmupJob(repo)

	task, err := NewAnalyticsWarmupTask(WarmupPayload{})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if repo.salesCalls != 1 || repo.revenueCalls != 1 {
		t.Fatalf("sales warmup calls = %d/%d, want 1/1", repo.salesCalls, repo.revenueCalls)
	}
	if repo.stockCalls != 1 {
		t.Fatalf("stock calls = %d, want 1", repo.stockCalls)
	}
	if repo.dailyRev != 1 || repo.dailyCost != 1 {
		t.Fatalf("financial warmup calls = %d/%d, want 1/1", repo.dailyRev, repo.dailyCost)
	}
}

func TestWarmupSelectsRequestedReports(t *testing.T) {
	repo := &warmupRepo{}
	job := newWarmupJob(repo)

	task, err := NewAnalyticsWarmupTask(WarmupPayload{Reports: []string{ReportInventory}})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if repo.stockCalls != 1 {
		t.Fatalf("stock calls = %d, want 1", repo.stockCalls)
	}
	if repo.salesCalls != 0 || repo.dailyRev != 0 {
		t.Fatalf("unexpected warmups: sales=%d financial=%d", repo.salesCalls, repo.dailyRev)
	}
}

func TestWarmupPropagatesStoreError(t *testing.T) {
	repo := &warmupRepo{salesErr: errors.New("store down")}
	job := newWarmupJob(repo)

	task, err := NewAnalyticsWarmupTask(WarmupPayload{Reports: []string{ReportSales}})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatal("expected error")
	}
}

func TestWarmupSkipsRetryOnBadPayload(t *testing.T) {
	job := newWarmupJob(&warmupRepo{})

	task := asynq.NewTask(TaskAnalyticsWarmup, []byte("{not json"))
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestWarmupSkipsRetryOnUnknownReport(t *testing.T) {
	job := newWarmupJob(&warmupRepo{})

	task, err := NewAnalyticsWarmupTask(WarmupPayload{Reports: []string{"weather"}})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
