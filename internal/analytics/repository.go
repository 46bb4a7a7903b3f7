package analytics

import (
	"context"
	"time"
)

// Repository is the read contract against the transactional store. Every
// date range is half-open [start, end); only completed transactions feed
// the analytics.
type Repository interface {
	// SalesByDay returns completed sales grouped by day, salesperson and
	// payment method.
	SalesByDay(ctx context.Context, start, end time.Time) ([]SalesRow, error)
	// RevenueTotal sums completed revenue. Used for the previous-period
	// growth baseline.
	RevenueTotal(ctx context.Context, start, end time.Time) (float64, error)
	// StockOverview returns the active product snapshot joined with
	// trailing 30-day sold and purchased quantities.
	StockOverview(ctx context.Context) ([]StockRow, error)
	// DailyRevenue returns completed revenue bucketed by day.
	DailyRevenue(ctx context.Context, start, end time.Time) ([]RevenuePoint, error)
	// DailyCosts returns delivered or confirmed purchase costs bucketed by
	// day.
	DailyCosts(ctx context.Context, start, end time.Time) ([]CostPoint, error)
}
