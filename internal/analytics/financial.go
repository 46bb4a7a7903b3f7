package analytics

import "sort"

// MergeFinancial outer-joins the revenue and cost series on their day key.
// A date present in only one series gets the other side filled with zero —
// the fill is an explicit step here, not a side effect of the join. Rows
// are ordered ascending by date before the cumulative sum is taken, so the
// running cash flow is correct regardless of input order.
func MergeFinancial(revenue []RevenuePoint, costs []CostPoint) []FinancialPoint {
	if len(revenue) == 0 && len(costs) == 0 {
		return []FinancialPoint{}
	}

	merged := make(map[string]*FinancialPoint, len(revenue)+len(costs))
	for _, p := range revenue {
		key := DayKey(p.Date)
		entry, ok := merged[key]
		if !ok {
			entry = &FinancialPoint{Date: key}
			merged[key] = entry
		}
		entry.Revenue += p.Revenue
	}
	for _, p := range costs {
		key := DayKey(p.Date)
		entry, ok := merged[key]
		if !ok {
			entry = &FinancialPoint{Date: key}
			merged[key] = entry
		}
		entry.Costs += p.Costs
	}

	series := make([]FinancialPoint, 0, len(merged))
	for _, entry := range merged {
		series = append(series, *entry)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	var running float64
	for i := range series {
		series[i].Profit = series[i].Revenue - series[i].Costs
		running += series[i].Profit
		series[i].CumulativeCashFlow = running
	}
	return series
}

// ProfitMargin returns gross profit as a percentage of revenue, 0 when
// there is no revenue to measure against.
func ProfitMargin(grossProfit, totalRevenue float64) float64 {
	if totalRevenue <= 0 {
		return 0
	}
	return grossProfit / totalRevenue * 100
}
