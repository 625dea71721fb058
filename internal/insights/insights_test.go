package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"movie-insights-go/internal/types"
)

func TestRatioZeroDenominatorSentinel(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(0, 0))
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.Equal(t, 0.5, Ratio(1, 2))
}

func TestShareAtOrAbove(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		{Title: "A", Metrics: map[string]types.Metric{types.MetricCumAudience: {Value: 12_000_000, Valid: true}}},
		{Title: "B", Metrics: map[string]types.Metric{types.MetricCumAudience: {Value: 500_000, Valid: true}}},
		{Title: "C", Metrics: map[string]types.Metric{types.MetricCumAudience: {Valid: false}}},
	}}

	s := ShareAtOrAbove(ds, types.MetricCumAudience, 10_000_000)
	assert.Equal(t, 1, s.Matched)
	assert.Equal(t, 3, s.Eligible)
	assert.InDelta(t, 1.0/3.0, s.Ratio, 1e-12)
}

func TestShareAtOrAboveEmpty(t *testing.T) {
	s := ShareAtOrAbove(types.Dataset{}, types.MetricRating, 8)
	assert.Equal(t, 0.0, s.Ratio)
	assert.Equal(t, 0, s.Eligible)
}

func TestMonthShareCountsOnlyDatedRecords(t *testing.T) {
	july := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	january := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	ds := types.Dataset{Records: []types.CleanRecord{
		{Title: "A", Date: july, HasDate: true},
		{Title: "B", Date: january, HasDate: true},
		{Title: "C"}, // no date: not eligible
	}}

	s := MonthShare(ds, []time.Month{time.June, time.July, time.August})
	assert.Equal(t, 1, s.Matched)
	assert.Equal(t, 2, s.Eligible)
	assert.Equal(t, 0.5, s.Ratio)
}

func TestDistinctLabels(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		{Title: "A", Labels: map[string]string{types.FieldLanguage: "en"}},
		{Title: "B", Labels: map[string]string{types.FieldLanguage: "ko"}},
		{Title: "C", Labels: map[string]string{types.FieldLanguage: "en"}},
		{Title: "D"},
	}}
	assert.Equal(t, 2, DistinctLabels(ds, types.FieldLanguage))
	assert.Equal(t, 0, DistinctLabels(types.Dataset{}, types.FieldLanguage))
}

func TestDistinctCategories(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		{Title: "A", Categories: map[string][]string{types.FieldGenres: {"Action", "Drama"}}},
		{Title: "B", Categories: map[string][]string{types.FieldGenres: {"Drama"}}},
	}}
	assert.Equal(t, 2, DistinctCategories(ds, types.FieldGenres))
}
