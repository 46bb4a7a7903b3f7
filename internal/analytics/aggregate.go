package analytics

import "sort"

// Op is a reduction operation applied to one column within a group.
type Op int

const (
	// OpSum adds the column values of the group.
	OpSum Op = iota
	// OpMean averages the column values of the group.
	OpMean
	// OpCount counts the rows of the group.
	OpCount
	// OpCountDistinct counts distinct label values within the group.
	OpCountDistinct
)

// Reduction declares how one output column of an aggregation is derived.
// Value supplies the numeric input for OpSum and OpMean; Label supplies the
// distinct key for OpCountDistinct. OpCount needs neither.
type Reduction[R any] struct {
	Column string
	Op     Op
	Value  func(R) float64
	Label  func(R) string
}

// AggregateRow is one output group: the group key plus the reduced columns.
type AggregateRow struct {
	Key    string
	Values map[string]float64
}

// Get returns the reduced value for a column, zero when absent.
func (r AggregateRow) Get(column string) float64 {
	return r.Values[column]
}

type groupAccumulator struct {
	order    int
	count    int64
	sums     map[string]float64
	distinct map[string]map[string]struct{}
}

// Aggregate partitions rows by the group key and reduces the declared
// columns. Empty input yields empty output. Output ordering is
// deterministic: groups are sorted ascending by key unless a less function
// is supplied.
func Aggregate[R any](rows []R, key func(R) string, reductions []Reduction[R], less func(a, b AggregateRow) bool) []AggregateRow {
	if len(rows) == 0 {
		return []AggregateRow{}
	}

	groups := make(map[string]*groupAccumulator)
	for _, row := range rows {
		k := key(row)
		acc, ok := groups[k]
		if !ok {
			acc = &groupAccumulator{
				order:    len(groups),
				sums:     make(map[string]float64),
				distinct: make(map[string]map[string]struct{}),
			}
			groups[k] = acc
		}
		acc.count++
		for _, red := range reductions {
			switch red.Op {
			case OpSum, OpMean:
				acc.sums[red.Column] += red.Value(row)
			case OpCountDistinct:
				set, ok := acc.distinct[red.Column]
				if !ok {
					set = make(map[string]struct{})
					acc.distinct[red.Column] = set
				}
				set[red.Label(row)] = struct{}{}
			}
		}
	}

	out := make([]AggregateRow, 0, len(groups))
	for k, acc := range groups {
		values := make(map[string]float64, len(reductions))
		for _, red := range reductions {
			switch red.Op {
			case OpSum:
				values[red.Column] = acc.sums[red.Column]
			case OpMean:
				values[red.Column] = acc.sums[red.Column] / float64(acc.count)
			case OpCount:
				values[red.Column] = float64(acc.count)
			case OpCountDistinct:
				values[red.Column] = float64(len(acc.distinct[red.Column]))
			}
		}
		out = append(out, AggregateRow{Key: k, Values: values})
	}

	if less == nil {
		less = func(a, b AggregateRow) bool { return a.Key < b.Key }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ByValueDesc orders aggregate rows descending by one reduced column,
// breaking ties by key so the ordering stays stable across runs.
func ByValueDesc(column string) func(a, b AggregateRow) bool {
	return func(a, b AggregateRow) bool {
		av, bv := a.Get(column), b.Get(column)
		if av != bv {
			return av > bv
		}
		return a.Key < b.Key
	}
}
