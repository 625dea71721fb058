// Package pipeline assembles the full analytical report from the two
// normalized datasets. It is a pure pass over immutable snapshots:
// no I/O, no shared state, re-entrant.
package pipeline

import (
	"fmt"
	"iter"
	"math"
	"strconv"

	"movie-insights-go/internal/aggregator"
	"movie-insights-go/internal/config"
	"movie-insights-go/internal/explode"
	"movie-insights-go/internal/insights"
	"movie-insights-go/internal/logger"
	"movie-insights-go/internal/normalizer"
	"movie-insights-go/internal/profile"
	"movie-insights-go/internal/ranker"
	"movie-insights-go/internal/types"
)

// KeyMetrics is the headline block: totals and single best records.
// Nil entries mean no eligible record existed.
type KeyMetrics struct {
	TotalCumAudience float64            `json:"total_cum_audience"`
	TopGrossing      *types.RankedEntry `json:"top_grossing,omitempty"`
	Screens          types.MetricStats  `json:"screens"`
	TopRating        *types.RankedEntry `json:"top_rating,omitempty"`
}

// Report is the structured output handed to the presentation layer.
// Every figure is a raw value or a ratio in [0,1]; nothing is
// formatted or localized here.
type Report struct {
	KeyMetrics KeyMetrics `json:"key_metrics"`

	YearlyAudience  []types.GroupStats `json:"yearly_audience"`
	MonthlyReleases []types.GroupStats `json:"monthly_releases"`

	TopByCumAudience []types.RankedEntry `json:"top_by_cum_audience"`
	TopByRating      []types.RankedEntry `json:"top_by_rating"`
	TopByPopularity  []types.RankedEntry `json:"top_by_popularity"`

	AudienceBuckets types.BucketingResult `json:"audience_buckets"`

	GenreSummary    []types.GroupStats `json:"genre_summary"`
	LanguageSummary []types.GroupStats `json:"language_summary"`

	Insights insights.Summary `json:"insights"`

	DomesticProfiles []profile.MetricProfile `json:"domestic_profiles"`
	GlobalProfiles   []profile.MetricProfile `json:"global_profiles"`

	// Quality carries the normalizer counters per source, filled in by
	// the caller that performed the load.
	Quality map[string]normalizer.Report `json:"quality,omitempty"`
}

// Run computes every view over the two datasets. Empty datasets yield
// empty or neutral blocks, never an error; the only failure mode is a
// misconfigured bucket boundary table.
func Run(domestic, global types.Dataset, cfg config.Config) (Report, error) {
	log := logger.New().WithComponent("pipeline")
	var rep Report

	if domestic.Len() == 0 {
		log.WithField("source", domestic.Name).Warn("no eligible rows; views over this source will be neutral")
	}
	if global.Len() == 0 {
		log.WithField("source", global.Name).Warn("no eligible rows; views over this source will be neutral")
	}

	// headline figures
	rep.KeyMetrics.Screens = types.MetricStats{Mean: math.NaN()}
	totals := aggregator.Aggregate(aggregator.Records(domestic),
		func(types.CleanRecord) string { return "all" },
		[]string{types.MetricCumAudience, types.MetricScreens})
	if all, ok := totals["all"]; ok {
		rep.KeyMetrics.TotalCumAudience = all.Metrics[types.MetricCumAudience].Sum
		rep.KeyMetrics.Screens = all.Metrics[types.MetricScreens]
	}
	if top := ranker.TopN(domestic, types.MetricCumAudience, 1); len(top) > 0 {
		rep.KeyMetrics.TopGrossing = &top[0]
	}
	if top := ranker.TopN(global, types.MetricRating, 1); len(top) > 0 {
		rep.KeyMetrics.TopRating = &top[0]
	}

	// time series
	rep.YearlyAudience = aggregator.SortedByKey(aggregator.Aggregate(
		aggregator.Records(domestic),
		func(r types.CleanRecord) string { return strconv.Itoa(r.Year) },
		[]string{types.MetricAudience}))
	rep.MonthlyReleases = aggregator.SortedByKey(aggregator.Aggregate(
		dated(domestic),
		func(r types.CleanRecord) string { return fmt.Sprintf("%02d", int(r.Date.Month())) },
		nil))

	// rankings
	rep.TopByCumAudience = ranker.TopN(domestic, types.MetricCumAudience, cfg.TopN)
	rep.TopByRating = ranker.TopN(global, types.MetricRating, cfg.TopN)
	rep.TopByPopularity = ranker.TopN(global, types.MetricPopularity, cfg.TopN)

	// distribution
	buckets, err := ranker.Bucketize(domestic, types.MetricCumAudience, cfg.AudienceBoundaries, nil)
	if err != nil {
		return Report{}, fmt.Errorf("audience buckets: %w", err)
	}
	rep.AudienceBuckets = buckets

	// categorical decomposition; genre aggregates double-count records
	// shared across genres (fan-out semantics, see explode)
	genre := aggregator.Aggregate(explode.All(domestic, types.FieldGenres),
		func(r types.ExplodedRow) string { return r.Category },
		[]string{types.MetricAudience, types.MetricSales})
	rep.GenreSummary = aggregator.Head(aggregator.SortedBySum(genre, types.MetricAudience), cfg.GenreHead)

	language := aggregator.Aggregate(labeled(global, types.FieldLanguage),
		func(r types.CleanRecord) string { return r.Labels[types.FieldLanguage] },
		[]string{types.MetricRating, types.MetricPopularity})
	rep.LanguageSummary = aggregator.Head(aggregator.SortedByRows(language), cfg.LanguageHead)

	// cross-dataset insights
	rep.Insights = insights.Summary{
		BlockbusterShare:   insights.ShareAtOrAbove(domestic, types.MetricCumAudience, cfg.BlockbusterThreshold),
		SummerReleaseShare: insights.MonthShare(domestic, cfg.SummerMonths),
		HighRatingShare:    insights.ShareAtOrAbove(global, types.MetricRating, cfg.HighRatingThreshold),
		DistinctLanguages:  insights.DistinctLabels(global, types.FieldLanguage),
	}

	rep.DomesticProfiles = profile.DescribeAll(domestic, []string{
		types.MetricAudience, types.MetricCumAudience, types.MetricSales, types.MetricScreens,
	})
	rep.GlobalProfiles = profile.DescribeAll(global, []string{
		types.MetricRating, types.MetricVotes, types.MetricPopularity,
	})

	log.WithFields(map[string]interface{}{
		"domestic_records": domestic.Len(),
		"global_records":   global.Len(),
		"genres":           len(rep.GenreSummary),
		"languages":        len(rep.LanguageSummary),
	}).Info("report assembled")

	return rep, nil
}

// dated yields only records with a parsed date.
func dated(ds types.Dataset) iter.Seq[types.CleanRecord] {
	return func(yield func(types.CleanRecord) bool) {
		for _, rec := range ds.Records {
			if !rec.HasDate {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// labeled yields only records carrying the given single-valued label.
func labeled(ds types.Dataset, field string) iter.Seq[types.CleanRecord] {
	return func(yield func(types.CleanRecord) bool) {
		for _, rec := range ds.Records {
			if _, ok := rec.Labels[field]; !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}
