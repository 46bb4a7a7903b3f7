package analytics

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	colRevenue      = "total_revenue"
	colTransactions = "transaction_count"
	colCustomers    = "unique_customers"
	colStock        = "current_stock"
)

// SalesFilter scopes the sales report. Start and End are day-granularity
// UTC dates; End is inclusive.
type SalesFilter struct {
	Start   time.Time
	End     time.Time
	GroupBy Granularity
}

// FinancialFilter scopes the financial report. Start and End are
// day-granularity UTC dates; End is inclusive.
type FinancialFilter struct {
	Start time.Time
	End   time.Time
}

// Service computes the three analytics reports. All state is request
// scoped; the cache is a read-through layer over recomputation.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Repository with the cache helper.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// SalesReport aggregates completed transactions in the window into revenue
// totals, growth against the preceding window, period-bucketed chart
// series and salesperson / payment-method breakdowns.
func (s *Service) SalesReport(ctx context.Context, filter SalesFilter) (SalesReport, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.buildSalesReport(ctx, filter)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return SalesReport{}, err
		}
		return value.(SalesReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keySales(filter.Start, filter.End, filter.GroupBy))
	if err != nil {
		return SalesReport{}, err
	}
	var report SalesReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return SalesReport{}, err
	}
	return report, nil
}

func (s *Service) buildSalesReport(ctx context.Context, filter SalesFilter) (SalesReport, error) {
	end := filter.End.AddDate(0, 0, 1)
	prevStart, prevEnd := PreviousWindow(filter.Start, end)

	var rows []SalesRow
	var prevRevenue float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.SalesByDay(gctx, filter.Start, end)
		return err
	})
	g.Go(func() error {
		var err error
		prevRevenue, err = s.repo.RevenueTotal(gctx, prevStart, prevEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return SalesReport{}, err
	}

	if len(rows) == 0 {
		return EmptySalesReport(), nil
	}

	var totalRevenue, avgSum float64
	var totalTransactions int64
	for _, row := range rows {
		totalRevenue += row.TotalRevenue
		totalTransactions += row.TransactionCount
		avgSum += row.AvgTransaction
	}
	avgTransaction := avgSum / float64(len(rows))

	periodStats := Aggregate(rows,
		func(r SalesRow) string { return Bucket(r.SaleDate, filter.GroupBy) },
		[]Reduction[SalesRow]{
			{Column: colRevenue, Op: OpSum, Value: func(r SalesRow) float64 { return r.TotalRevenue }},
			{Column: colTransactions, Op: OpSum, Value: func(r SalesRow) float64 { return float64(r.TransactionCount) }},
			{Column: colCustomers, Op: OpSum, Value: func(r SalesRow) float64 { return float64(r.UniqueCustomers) }},
		}, nil)

	periods, revenueSeries := seriesFromAggregates(periodStats, colRevenue)
	_, txnSeries := seriesFromAggregates(periodStats, colTransactions)

	charts := map[string]Chart{
		"revenue_trend": LineChart("Revenue Trend", "Period", "Revenue ($)",
			Trace{Name: "Revenue", X: periods, Y: revenueSeries}),
		"transaction_count": BarChart("Transaction Count", "Period", "Number of Transactions",
			Trace{Name: "Transactions", X: periods, Y: txnSeries}),
	}

	performerStats := Aggregate(rows,
		func(r SalesRow) string { return r.Salesperson },
		[]Reduction[SalesRow]{
			{Column: colRevenue, Op: OpSum, Value: func(r SalesRow) float64 { return r.TotalRevenue }},
			{Column: colTransactions, Op: OpSum, Value: func(r SalesRow) float64 { return float64(r.TransactionCount) }},
		}, ByValueDesc(colRevenue))
	if len(performerStats) > 10 {
		performerStats = performerStats[:10]
	}
	topPerformers := make([]PerformerStat, 0, len(performerStats))
	for _, stat := range performerStats {
		topPerformers = append(topPerformers, PerformerStat{
			Salesperson:      stat.Key,
			TotalRevenue:     stat.Get(colRevenue),
			TransactionCount: int64(stat.Get(colTransactions)),
		})
	}

	methodStats := Aggregate(rows,
		func(r SalesRow) string { return r.PaymentMethod },
		[]Reduction[SalesRow]{
			{Column: colRevenue, Op: OpSum, Value: func(r SalesRow) float64 { return r.TotalRevenue }},
		}, ByValueDesc(colRevenue))
	paymentMethods := make([]PaymentMethodStat, 0, len(methodStats))
	for _, stat := range methodStats {
		paymentMethods = append(paymentMethods, PaymentMethodStat{
			PaymentMethod: stat.Key,
			TotalRevenue:  stat.Get(colRevenue),
		})
	}

	return SalesReport{
		TotalRevenue:        totalRevenue,
		TotalTransactions:   totalTransactions,
		AvgTransactionValue: avgTransaction,
		GrowthRate:          GrowthRate(totalRevenue, prevRevenue),
		Charts:              charts,
		TopPerformers:       topPerformers,
		PaymentMethods:      paymentMethods,
	}, nil
}

// InventoryReport derives stock health, inventory value and turnover from
// the current product snapshot.
func (s *Service) InventoryReport(ctx context.Context) (InventoryReport, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.buildInventoryReport(ctx)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return InventoryReport{}, err
		}
		return value.(InventoryReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keyInventory(s.now()))
	if err != nil {
		return InventoryReport{}, err
	}
	var report InventoryReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return InventoryReport{}, err
	}
	return report, nil
}

func (s *Service) buildInventoryReport(ctx context.Context) (InventoryReport, error) {
	rows, err := s.repo.StockOverview(ctx)
	if err != nil {
		return InventoryReport{}, err
	}
	if len(rows) == 0 {
		return EmptyInventoryReport(), nil
	}

	health := ComputeStockHealth(rows)

	categoryStats := Aggregate(rows,
		func(r StockRow) string { return r.Category },
		[]Reduction[StockRow]{
			{Column: colStock, Op: OpSum, Value: func(r StockRow) float64 { return r.CurrentStock }},
		}, nil)
	categories, categoryStock := seriesFromAggregates(categoryStats, colStock)

	charts := map[string]Chart{
		"category_distribution": PieChart("Stock Distribution by Category", categories, categoryStock),
		"inventory_status": BarChart("Inventory Status Overview", "Status", "Count",
			Trace{
				Name: "Products",
				X:    []string{"Low Stock", "Out of Stock", "Normal"},
				Y:    []float64{float64(health.LowStock), float64(health.OutOfStock), float64(health.Normal)},
			}),
	}

	return InventoryReport{
		TotalProducts:      len(rows),
		LowStockItems:      FilterStock(rows, IsLowStock),
		OutOfStockItems:    FilterStock(rows, IsOutOfStock),
		TopSellingProducts: TopSelling(rows),
		InventoryValue:     InventoryValue(rows),
		TurnoverRatio:      TurnoverRatio(rows),
		Charts:             charts,
	}, nil
}

// FinancialReport merges daily revenue and purchase costs into profit and
// cumulative cash flow over the window.
func (s *Service) FinancialReport(ctx context.Context, filter FinancialFilter) (FinancialReport, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.buildFinancialReport(ctx, filter)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return FinancialReport{}, err
		}
		return value.(FinancialReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keyFinancial(filter.Start, filter.End))
	if err != nil {
		return FinancialReport{}, err
	}
	var report FinancialReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return FinancialReport{}, err
	}
	return report, nil
}

func (s *Service) buildFinancialReport(ctx context.Context, filter FinancialFilter) (FinancialReport, error) {
	end := filter.End.AddDate(0, 0, 1)

	var revenue []RevenuePoint
	var costs []CostPoint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		revenue, err = s.repo.DailyRevenue(gctx, filter.Start, end)
		return err
	})
	g.Go(func() error {
		var err error
		costs, err = s.repo.DailyCosts(gctx, filter.Start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return FinancialReport{}, err
	}

	series := MergeFinancial(revenue, costs)
	if len(series) == 0 {
		return EmptyFinancialReport(), nil
	}

	var totalRevenue, totalCosts float64
	dates := make([]string, 0, len(series))
	revenueSeries := make([]float64, 0, len(series))
	costSeries := make([]float64, 0, len(series))
	cashSeries := make([]float64, 0, len(series))
	cashFlow := make([]CashFlowPoint, 0, len(series))
	for _, point := range series {
		totalRevenue += point.Revenue
		totalCosts += point.Costs
		dates = append(dates, point.Date)
		revenueSeries = append(revenueSeries, point.Revenue)
		costSeries = append(costSeries, point.Costs)
		cashSeries = append(cashSeries, point.CumulativeCashFlow)
		cashFlow = append(cashFlow, CashFlowPoint{Date: point.Date, CashFlow: point.CumulativeCashFlow})
	}
	grossProfit := totalRevenue - totalCosts

	charts := map[string]Chart{
		"cash_flow": LineChart("Cash Flow Trend", "Date", "Cash Flow ($)",
			Trace{Name: "Cumulative Cash Flow", X: dates, Y: cashSeries}),
		"revenue_costs": LineChart("Revenue vs Costs", "Date", "Amount ($)",
			Trace{Name: "Revenue", X: dates, Y: revenueSeries},
			Trace{Name: "Costs", X: dates, Y: costSeries}),
	}

	return FinancialReport{
		TotalRevenue: totalRevenue,
		TotalCosts:   totalCosts,
		GrossProfit:  grossProfit,
		ProfitMargin: ProfitMargin(grossProfit, totalRevenue),
		CashFlow:     cashFlow,
		Charts:       charts,
	}, nil
}
