package analytics

import "sort"

// topSellingLimit caps the top-selling product ranking.
const topSellingLimit = 10

// StockHealth partitions a product snapshot into low, out-of-stock and
// normal counts. Low is inclusive at the minimum, so every out-of-stock
// item is also low; normal is the complement of the union of both sets,
// which keeps low + out + normal == total without double subtraction.
type StockHealth struct {
	LowStock   int
	OutOfStock int
	Normal     int
}

// IsLowStock reports whether the row sits at or below its minimum level.
func IsLowStock(row StockRow) bool {
	return row.CurrentStock <= row.MinStock
}

// IsOutOfStock reports whether the row has no stock at all.
func IsOutOfStock(row StockRow) bool {
	return row.CurrentStock == 0
}

// ComputeStockHealth classifies every row of the snapshot.
func ComputeStockHealth(rows []StockRow) StockHealth {
	var health StockHealth
	for _, row := range rows {
		low := IsLowStock(row)
		out := IsOutOfStock(row)
		if low {
			health.LowStock++
		}
		if out {
			health.OutOfStock++
		}
		if !low && !out {
			health.Normal++
		}
	}
	return health
}

// FilterStock returns the rows matching the predicate in input order.
func FilterStock(rows []StockRow, keep func(StockRow) bool) []StockRow {
	out := []StockRow{}
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// InventoryValue totals current stock at cost across the snapshot.
func InventoryValue(rows []StockRow) float64 {
	var value float64
	for _, row := range rows {
		value += row.CurrentStock * row.Cost
	}
	return value
}

// TurnoverRatio divides trailing 30-day units sold by the mean units held.
// A zero mean (all shelves empty, or no rows) yields 0, never NaN.
func TurnoverRatio(rows []StockRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var stock, sold float64
	for _, row := range rows {
		stock += row.CurrentStock
		sold += row.TotalSold30d
	}
	mean := stock / float64(len(rows))
	if mean <= 0 {
		return 0
	}
	return sold / mean
}

// TopSelling ranks products descending by trailing 30-day quantity sold,
// capped at the top ten. Ties keep their input order.
func TopSelling(rows []StockRow) []TopSeller {
	ranked := make([]StockRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSold30d > ranked[j].TotalSold30d
	})
	if len(ranked) > topSellingLimit {
		ranked = ranked[:topSellingLimit]
	}
	top := make([]TopSeller, 0, len(ranked))
	for _, row := range ranked {
		top = append(top, TopSeller{Name: row.Name, TotalSold: row.TotalSold30d})
	}
	return top
}
