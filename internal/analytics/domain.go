package analytics

import "time"

// SalesRow is one grouped row from the sales query: a single day for a
// single salesperson and payment method, completed transactions only.
type SalesRow struct {
	SaleDate         time.Time
	TransactionCount int64
	TotalRevenue     float64
	Subtotal         float64
	TaxAmount        float64
	AvgTransaction   float64
	UniqueCustomers  int64
	Salesperson      string
	PaymentMethod    string
}

// StockRow is a read-only snapshot of one active product joined with its
// trailing 30-day sold and purchased quantities.
type StockRow struct {
	ProductID         int64   `json:"product_id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	CurrentStock      float64 `json:"current_stock"`
	MinStock          float64 `json:"min_stock"`
	MaxStock          float64 `json:"max_stock"`
	Price             float64 `json:"price"`
	Cost              float64 `json:"cost"`
	Category          string  `json:"category"`
	Supplier          string  `json:"supplier"`
	TotalSold30d      float64 `json:"total_sold_30d"`
	TotalPurchased30d float64 `json:"total_purchased_30d"`
}

// RevenuePoint is daily revenue from completed sales.
type RevenuePoint struct {
	Date     time.Time
	Revenue  float64
	Subtotal float64
	Tax      float64
}

// CostPoint is daily purchase costs from delivered or confirmed purchases.
type CostPoint struct {
	Date  time.Time
	Costs float64
}

// FinancialPoint is one merged row of the financial series. Dates are day
// keys, revenue and costs are zero-filled where one side had no data.
type FinancialPoint struct {
	Date               string  `json:"date"`
	Revenue            float64 `json:"revenue"`
	Costs              float64 `json:"costs"`
	Profit             float64 `json:"profit"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
}

// PerformerStat ranks a salesperson by completed revenue.
type PerformerStat struct {
	Salesperson      string  `json:"salesperson"`
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int64   `json:"transaction_count"`
}

// PaymentMethodStat is revenue attributed to one payment method.
type PaymentMethodStat struct {
	PaymentMethod string  `json:"payment_method"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// TopSeller is a product ranked by trailing 30-day quantity sold.
type TopSeller struct {
	Name      string  `json:"name"`
	TotalSold float64 `json:"total_sold"`
}

// CashFlowPoint is the running cash position at one date.
type CashFlowPoint struct {
	Date     string  `json:"date"`
	CashFlow float64 `json:"cash_flow"`
}

// SalesReport is the response body of the sales analytics endpoint.
type SalesReport struct {
	TotalRevenue        float64             `json:"total_revenue"`
	TotalTransactions   int64               `json:"total_transactions"`
	AvgTransactionValue float64             `json:"avg_transaction_value"`
	GrowthRate          float64             `json:"growth_rate"`
	Charts              map[string]Chart    `json:"charts"`
	TopPerformers       []PerformerStat     `json:"top_performers"`
	PaymentMethods      []PaymentMethodStat `json:"payment_methods"`
}

// EmptySalesReport returns the zeroed response shape used when the window
// contains no completed transactions.
func EmptySalesReport() SalesReport {
	return SalesReport{
		Charts:         map[string]Chart{},
		TopPerformers:  []PerformerStat{},
		PaymentMethods: []PaymentMethodStat{},
	}
}

// InventoryReport is the response body of the inventory analytics endpoint.
type InventoryReport struct {
	TotalProducts      int              `json:"total_products"`
	LowStockItems      []StockRow       `json:"low_stock_items"`
	OutOfStockItems    []StockRow       `json:"out_of_stock_items"`
	TopSellingProducts []TopSeller      `json:"top_selling_products"`
	InventoryValue     float64          `json:"inventory_value"`
	TurnoverRatio      float64          `json:"turnover_ratio"`
	Charts             map[string]Chart `json:"charts"`
}

// EmptyInventoryReport returns the zeroed response shape for an empty
// product catalogue.
func EmptyInventoryReport() InventoryReport {
	return InventoryReport{
		LowStockItems:      []StockRow{},
		OutOfStockItems:    []StockRow{},
		TopSellingProducts: []TopSeller{},
		Charts:             map[string]Chart{},
	}
}

// FinancialReport is the response body of the financial analytics endpoint.
type FinancialReport struct {
	TotalRevenue float64          `json:"total_revenue"`
	TotalCosts   float64          `json:"total_costs"`
	GrossProfit  float64          `json:"gross_profit"`
	ProfitMargin float64          `json:"profit_margin"`
	CashFlow     []CashFlowPoint  `json:"cash_flow"`
	Charts       map[string]Chart `json:"charts"`
}

// EmptyFinancialReport returns the zeroed response shape used when neither
// revenue nor cost rows exist in the window.
func EmptyFinancialReport() FinancialReport {
	return FinancialReport{
		CashFlow: []CashFlowPoint{},
		Charts:   map[string]Chart{},
	}
}
