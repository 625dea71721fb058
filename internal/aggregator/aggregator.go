// Package aggregator computes grouped multi-statistic aggregates over
// any rows that carry named metrics.
package aggregator

import (
	"iter"
	"math"
	"sort"

	"movie-insights-go/internal/types"
)

// Aggregate groups rows by key and computes sum, mean and valid count
// for each requested metric. Rows whose metric is invalid or absent are
// skipped for that metric only; the mean denominator is the count of
// valid contributions, never the group's row total. A group with zero
// valid contributions reports Sum 0 and Mean NaN.
//
// The result depends only on the input multiset, not its order.
func Aggregate[R types.MetricCarrier](rows iter.Seq[R], key func(R) string, metrics []string) types.AggregateResult {
	sums := make(map[string]map[string]float64)
	counts := make(map[string]map[string]int)
	rowTotals := make(map[string]int)

	for row := range rows {
		k := key(row)
		rowTotals[k]++
		for _, m := range metrics {
			v, ok := row.Metric(m)
			if !ok {
				continue
			}
			if sums[k] == nil {
				sums[k] = make(map[string]float64)
				counts[k] = make(map[string]int)
			}
			sums[k][m] += v
			counts[k][m]++
		}
	}

	out := make(types.AggregateResult, len(rowTotals))
	for k, total := range rowTotals {
		gs := types.GroupStats{Key: k, Rows: total, Metrics: make(map[string]types.MetricStats, len(metrics))}
		for _, m := range metrics {
			n := counts[k][m]
			ms := types.MetricStats{Sum: sums[k][m], Count: n, Mean: math.NaN()}
			if n > 0 {
				ms.Mean = ms.Sum / float64(n)
			}
			gs.Metrics[m] = ms
		}
		out[k] = gs
	}
	return out
}

// Records adapts a dataset to the row sequence Aggregate consumes.
func Records(ds types.Dataset) iter.Seq[types.CleanRecord] {
	return func(yield func(types.CleanRecord) bool) {
		for _, rec := range ds.Records {
			if !yield(rec) {
				return
			}
		}
	}
}

// SortedBySum orders groups by one metric's sum, descending, ties
// broken by key ascending so the order is reproducible.
func SortedBySum(res types.AggregateResult, metric string) []types.GroupStats {
	return sorted(res, func(a, b types.GroupStats) bool {
		as, bs := a.Metrics[metric].Sum, b.Metrics[metric].Sum
		if as != bs {
			return as > bs
		}
		return a.Key < b.Key
	})
}

// SortedByRows orders groups by row count, descending, ties broken by
// key ascending.
func SortedByRows(res types.AggregateResult) []types.GroupStats {
	return sorted(res, func(a, b types.GroupStats) bool {
		if a.Rows != b.Rows {
			return a.Rows > b.Rows
		}
		return a.Key < b.Key
	})
}

// SortedByKey orders groups by key ascending, for time-like keys.
func SortedByKey(res types.AggregateResult) []types.GroupStats {
	return sorted(res, func(a, b types.GroupStats) bool { return a.Key < b.Key })
}

func sorted(res types.AggregateResult, less func(a, b types.GroupStats) bool) []types.GroupStats {
	out := make([]types.GroupStats, 0, len(res))
	for _, gs := range res {
		out = append(out, gs)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Head truncates a sorted group list.
func Head(groups []types.GroupStats, n int) []types.GroupStats {
	if n < len(groups) {
		return groups[:n]
	}
	return groups
}
