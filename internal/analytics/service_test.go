package analytics

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRepo struct {
	salesRows      []SalesRow
	salesErr       error
	salesCalls     int
	salesStart     time.Time
	salesEnd       time.Time
	prevRevenue    float64
	revenueCalls   int
	revenueStart   time.Time
	revenueEnd     time.Time
	stockRows      []StockRow
	stockCalls     int
	revenuePoints  []RevenuePoint
	dailyRevCalls  int
	costPoints     []CostPoint
	dailyCostCalls int
}

func (m *mockRepo) SalesByDay(ctx context.Context, start, end time.Time) ([]SalesRow, error) {
	m.salesCalls++
	m.salesStart, m.salesEnd = start, end
	return m.salesRows, m.salesErr
}

func (m *mockRepo) RevenueTotal(ctx context.Context, start, end time.Time) (float64, error) {
	m.revenueCalls++
	m.revenueStart, m.revenueEnd = start, end
	return m.prevRevenue, nil
}

func (m *mockRepo) StockOverview(ctx context.Context) ([]StockRow, error) {
	m.stockCalls++
	return m.stockRows, nil
}

func (m *mockRepo) DailyRevenue(ctx context.Context, start, end time.Time) ([]RevenuePoint, error) {
	m.dailyRevCalls++
	return m.revenuePoints, nil
}

func (m *mockRepo) DailyCosts(ctx context.Context, start, end time.Time) ([]CostPoint, error) {
	m.dailyCostCalls++
	return m.costPoints, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache, slog.Default())
}

func salesFilter() SalesFilter {
	return SalesFilter{
		Start:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
		GroupBy: GranularityDay,
	}
}

func TestSalesReportEmptyWindow(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	report, err := svc.SalesReport(context.Background(), salesFilter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalRevenue != 0 || report.TotalTransactions != 0 || report.GrowthRate != 0 {
		t.Fatalf("expected zeroed totals, got %+v", report)
	}
	if report.Charts == nil || report.TopPerformers == nil || report.PaymentMethods == nil {
		t.Fatal("empty report must keep non-nil collections")
	}
	if len(report.Charts) != 0 || len(report.TopPerformers) != 0 {
		t.Fatalf("expected empty collections, got %+v", report)
	}
}

func TestSalesReportComputesTotalsAndGrowth(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	repo := &mockRepo{
		salesRows: []SalesRow{
			{SaleDate: day(1), Salesperson: "alan", PaymentMethod: "cash", TotalRevenue: 100, TransactionCount: 2, AvgTransaction: 50},
			{SaleDate: day(2), Salesperson: "bea", PaymentMethod: "card", TotalRevenue: 200, TransactionCount: 2, AvgTransaction: 100},
		},
		prevRevenue: 200,
	}
	svc := newTestService(t, repo)

	report, err := svc.SalesReport(context.Background(), salesFilter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalRevenue != 300 {
		t.Fatalf("total revenue = %v, want 300", report.TotalRevenue)
	}
	if report.TotalTransactions != 4 {
		t.Fatalf("total transactions = %v, want 4", report.TotalTransactions)
	}
	if report.AvgTransactionValue != 75 {
		t.Fatalf("avg transaction = %v, want 75", report.AvgTransactionValue)
	}
	if report.GrowthRate != 50 {
		t.Fatalf("growth = %v, want 50", report.GrowthRate)
	}

	if len(report.TopPerformers) != 2 || report.TopPerformers[0].Salesperson != "bea" {
		t.Fatalf("top performers = %+v", report.TopPerformers)
	}
	if len(report.PaymentMethods) != 2 || report.PaymentMethods[0].PaymentMethod != "card" {
		t.Fatalf("payment methods = %+v", report.PaymentMethods)
	}

	trend, ok := report.Charts["revenue_trend"]
	if !ok {
		t.Fatal("missing revenue_trend chart")
	}
	if trend.Type != "line" || len(trend.Traces) != 1 || len(trend.Traces[0].X) != 2 {
		t.Fatalf("revenue trend = %+v", trend)
	}
	if _, ok := report.Charts["transaction_count"]; !ok {
		t.Fatal("missing transaction_count chart")
	}
}

func TestSalesReportWindowsAreHalfOpen(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)
	filter := salesFilter()

	if _, err := svc.SalesReport(context.Background(), filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The inclusive end date becomes an exclusive next-day bound.
	wantEnd := filter.End.AddDate(0, 0, 1)
	if !repo.salesEnd.Equal(wantEnd) {
		t.Fatalf("sales end = %v, want %v", repo.salesEnd, wantEnd)
	}
	// The growth baseline window ends exactly where the current one begins.
	if !repo.revenueEnd.Equal(filter.Start) {
		t.Fatalf("baseline end = %v, want %v", repo.revenueEnd, filter.Start)
	}
	if got := repo.revenueEnd.Sub(repo.revenueStart); got != wantEnd.Sub(filter.Start) {
		t.Fatalf("baseline length = %v, want %v", got, wantEnd.Sub(filter.Start))
	}
}

func TestSalesReportCaches(t *testing.T) {
	repo := &mockRepo{
		salesRows: []SalesRow{
			{SaleDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Salesperson: "alan", PaymentMethod: "cash", TotalRevenue: 100, TransactionCount: 1, AvgTransaction: 100},
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()
	filter := salesFilter()

	if _, err := svc.SalesReport(ctx, filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.salesCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.salesCalls)
	}

	// Second call should hit cache.
	report, err := svc.SalesReport(ctx, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.salesCalls != 1 {
		t.Fatalf("expected cached result, repo called %d times", repo.salesCalls)
	}
	if report.TotalRevenue != 100 {
		t.Fatalf("cached revenue = %v, want 100", report.TotalRevenue)
	}

	// Bumping the cache should trigger reload.
	if err := svc.cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if _, err := svc.SalesReport(ctx, filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.salesCalls != 2 {
		t.Fatalf("expected repo to refresh, calls %d", repo.salesCalls)
	}
}

func TestSalesReportPropagatesStoreError(t *testing.T) {
	repo := &mockRepo{salesErr: errors.New("boom")}
	svc := NewService(repo, nil, slog.Default())

	if _, err := svc.SalesReport(context.Background(), salesFilter()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInventoryReport(t *testing.T) {
	repo := &mockRepo{
		stockRows: []StockRow{
			{ProductID: 1, Name: "Beans", Category: "coffee", CurrentStock: 0, MinStock: 5, Cost: 12, TotalSold30d: 40},
			{ProductID: 2, Name: "Cups", Category: "supplies", CurrentStock: 100, MinStock: 10, Cost: 0.5, TotalSold30d: 200},
		},
	}
	svc := newTestService(t, repo)

	report, err := svc.InventoryReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalProducts != 2 {
		t.Fatalf("total products = %d, want 2", report.TotalProducts)
	}
	if len(report.LowStockItems) != 1 || report.LowStockItems[0].Name != "Beans" {
		t.Fatalf("low stock = %+v", report.LowStockItems)
	}
	if len(report.OutOfStockItems) != 1 {
		t.Fatalf("out of stock = %+v", report.OutOfStockItems)
	}
	if report.InventoryValue != 50 {
		t.Fatalf("inventory value = %v, want 50", report.InventoryValue)
	}
	if len(report.TopSellingProducts) != 2 || report.TopSellingProducts[0].Name != "Cups" {
		t.Fatalf("top selling = %+v", report.TopSellingProducts)
	}
	if _, ok := report.Charts["category_distribution"]; !ok {
		t.Fatal("missing category_distribution chart")
	}
	status, ok := report.Charts["inventory_status"]
	if !ok {
		t.Fatal("missing inventory_status chart")
	}
	if len(status.Traces) != 1 || len(status.Traces[0].Y) != 3 {
		t.Fatalf("inventory status = %+v", status)
	}
}

func TestInventoryReportEmptyCatalogue(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	report, err := svc.InventoryReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalProducts != 0 {
		t.Fatalf("total products = %d, want 0", report.TotalProducts)
	}
	if report.LowStockItems == nil || report.Charts == nil {
		t.Fatal("empty report must keep non-nil collections")
	}
}

func TestFinancialReport(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	repo := &mockRepo{
		revenuePoints: []RevenuePoint{{Date: day(1), Revenue: 100}},
		costPoints:    []CostPoint{{Date: day(2), Costs: 40}},
	}
	svc := newTestService(t, repo)

	filter := FinancialFilter{Start: day(1), End: day(31)}
	report, err := svc.FinancialReport(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalRevenue != 100 || report.TotalCosts != 40 || report.GrossProfit != 60 {
		t.Fatalf("totals = %+v", report)
	}
	if report.ProfitMargin != 60 {
		t.Fatalf("margin = %v, want 60", report.ProfitMargin)
	}
	if len(report.CashFlow) != 2 {
		t.Fatalf("cash flow = %+v", report.CashFlow)
	}
	if report.CashFlow[1].CashFlow != 60 {
		t.Fatalf("final cash flow = %v, want 60", report.CashFlow[1].CashFlow)
	}
	if _, ok := report.Charts["cash_flow"]; !ok {
		t.Fatal("missing cash_flow chart")
	}
	rc, ok := report.Charts["revenue_costs"]
	if !ok {
		t.Fatal("missing revenue_costs chart")
	}
	if len(rc.Traces) != 2 {
		t.Fatalf("revenue_costs traces = %d, want 2", len(rc.Traces))
	}
}

func TestFinancialReportEmptyWindow(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	filter := FinancialFilter{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	report, err := svc.FinancialReport(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CashFlow == nil || report.Charts == nil {
		t.Fatal("empty report must keep non-nil collections")
	}
	if len(report.CashFlow) != 0 || report.TotalRevenue != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
}
