package aggregator

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-insights-go/internal/explode"
	"movie-insights-go/internal/types"
)

func record(title string, genres []string, metrics map[string]types.Metric) types.CleanRecord {
	return types.CleanRecord{
		Title:      title,
		Year:       2024,
		Categories: map[string][]string{types.FieldGenres: genres},
		Metrics:    metrics,
	}
}

func valid(v float64) types.Metric { return types.Metric{Value: v, Valid: true} }

func invalid() types.Metric { return types.Metric{Valid: false} }

func byGenre(r types.ExplodedRow) string { return r.Category }

func TestAggregateByGenre(t *testing.T) {
	// one record in two genres contributes its full audience to both
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", []string{"Action", "Drama"}, map[string]types.Metric{types.MetricAudience: valid(12_000_000)}),
		record("B", []string{"Drama"}, map[string]types.Metric{types.MetricAudience: valid(500_000)}),
	}}

	res := Aggregate(explode.All(ds, types.FieldGenres), byGenre, []string{types.MetricAudience})
	require.Len(t, res, 2)

	action := res["Action"].Metrics[types.MetricAudience]
	assert.Equal(t, 12_000_000.0, action.Sum)
	assert.Equal(t, 1, action.Count)

	drama := res["Drama"].Metrics[types.MetricAudience]
	assert.Equal(t, 12_500_000.0, drama.Sum)
	assert.Equal(t, 2, drama.Count)
	assert.Equal(t, 6_250_000.0, drama.Mean)
}

func TestAggregateSingleRecordIdentity(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", nil, map[string]types.Metric{types.MetricSales: valid(42.5)}),
	}}

	res := Aggregate(Records(ds), func(types.CleanRecord) string { return "all" }, []string{types.MetricSales})
	stats := res["all"].Metrics[types.MetricSales]
	assert.Equal(t, 42.5, stats.Sum)
	assert.Equal(t, 42.5, stats.Mean)
	assert.Equal(t, 1, stats.Count)
}

func TestAggregateSkipsInvalidContributions(t *testing.T) {
	// two rows in the group, one valid contribution: the mean
	// denominator is the valid count, not the row count
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", nil, map[string]types.Metric{types.MetricRating: valid(8.0)}),
		record("B", nil, map[string]types.Metric{types.MetricRating: invalid()}),
	}}

	res := Aggregate(Records(ds), func(types.CleanRecord) string { return "all" }, []string{types.MetricRating})
	group := res["all"]
	assert.Equal(t, 2, group.Rows)

	stats := group.Metrics[types.MetricRating]
	assert.Equal(t, 8.0, stats.Sum)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 8.0, stats.Mean)
}

func TestAggregateUndefinedMeanIsNaN(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", nil, map[string]types.Metric{types.MetricRating: invalid()}),
	}}

	res := Aggregate(Records(ds), func(types.CleanRecord) string { return "all" }, []string{types.MetricRating})
	stats := res["all"].Metrics[types.MetricRating]
	assert.Equal(t, 0.0, stats.Sum)
	assert.Equal(t, 0, stats.Count)
	assert.True(t, math.IsNaN(stats.Mean), "undefined mean must not be reported as a number")
}

func TestAggregateOrderIndependent(t *testing.T) {
	records := []types.CleanRecord{
		record("A", nil, map[string]types.Metric{types.MetricAudience: valid(10)}),
		record("B", nil, map[string]types.Metric{types.MetricAudience: valid(20)}),
		record("C", nil, map[string]types.Metric{types.MetricAudience: valid(30)}),
	}
	reversed := slices.Clone(records)
	slices.Reverse(reversed)

	key := func(r types.CleanRecord) string { return "g" }
	forward := Aggregate(Records(types.Dataset{Records: records}), key, []string{types.MetricAudience})
	backward := Aggregate(Records(types.Dataset{Records: reversed}), key, []string{types.MetricAudience})
	assert.Equal(t, forward, backward)
}

func TestSortedBySumDeterministicTies(t *testing.T) {
	res := types.AggregateResult{
		"b": {Key: "b", Rows: 1, Metrics: map[string]types.MetricStats{"m": {Sum: 5, Mean: 5, Count: 1}}},
		"a": {Key: "a", Rows: 1, Metrics: map[string]types.MetricStats{"m": {Sum: 5, Mean: 5, Count: 1}}},
		"c": {Key: "c", Rows: 1, Metrics: map[string]types.MetricStats{"m": {Sum: 9, Mean: 9, Count: 1}}},
	}
	groups := SortedBySum(res, "m")
	keys := []string{groups[0].Key, groups[1].Key, groups[2].Key}
	assert.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestHead(t *testing.T) {
	groups := []types.GroupStats{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	assert.Len(t, Head(groups, 2), 2)
	assert.Len(t, Head(groups, 5), 3)
}
