package explode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-insights-go/internal/types"
)

func record(title string, genres []string, audience float64) types.CleanRecord {
	return types.CleanRecord{
		Title:      title,
		Year:       2024,
		Categories: map[string][]string{types.FieldGenres: genres},
		Metrics: map[string]types.Metric{
			types.MetricAudience: {Value: audience, Valid: true},
		},
	}
}

func TestSplitCategories(t *testing.T) {
	assert.Equal(t, []string{"Action", "Drama"}, SplitCategories("Action, Drama,,Action , ", ","))
	assert.Nil(t, SplitCategories("   ", ","))
	assert.Nil(t, SplitCategories("", ","))
	assert.Equal(t, []string{"SF"}, SplitCategories("SF", ","))
	assert.Equal(t, []string{"a", "b"}, SplitCategories("a|b|a", "|"))
}

func TestAllFansOutPerCategory(t *testing.T) {
	ds := types.Dataset{Name: "test", Records: []types.CleanRecord{
		record("A", []string{"Action", "Drama"}, 12_000_000),
		record("B", []string{"Drama"}, 500_000),
		record("C", nil, 100),
	}}

	rows := Collect(ds, types.FieldGenres)
	require.Len(t, rows, 3)

	assert.Equal(t, "Action", rows[0].Category)
	assert.Equal(t, "Drama", rows[1].Category)
	assert.Equal(t, "Drama", rows[2].Category)

	// metrics carried unchanged from the owning record
	v, ok := rows[0].Metric(types.MetricAudience)
	require.True(t, ok)
	assert.Equal(t, 12_000_000.0, v)
	v, ok = rows[1].Metric(types.MetricAudience)
	require.True(t, ok)
	assert.Equal(t, 12_000_000.0, v)

	// zero-category record excluded from fan-out but still in dataset
	assert.Equal(t, 3, ds.Len())
}

func TestAllCardinalityBound(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", []string{"Action", "Drama", "SF"}, 1),
		record("B", []string{"Drama"}, 2),
		record("C", nil, 3),
	}}

	total := 0
	for _, rec := range ds.Records {
		total += len(rec.Categories[types.FieldGenres])
	}
	assert.Len(t, Collect(ds, types.FieldGenres), total)
}

func TestAllRepeatedConsumption(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", []string{"Action", "Drama"}, 1),
	}}

	first := Collect(ds, types.FieldGenres)
	second := Collect(ds, types.FieldGenres)
	assert.Equal(t, first, second)
}

func TestAllEarlyStop(t *testing.T) {
	ds := types.Dataset{Records: []types.CleanRecord{
		record("A", []string{"Action", "Drama", "SF"}, 1),
	}}

	var got []string
	for row := range All(ds, types.FieldGenres) {
		got = append(got, row.Category)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"Action", "Drama"}, got)
}
