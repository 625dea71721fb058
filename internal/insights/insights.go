// Package insights derives ratio-style summary figures from clean
// datasets and aggregation results. Every share is a plain ratio in
// [0,1]; rendering it as a percentage is the presentation layer's job.
package insights

import (
	"time"

	"movie-insights-go/internal/types"
)

// Share is one counted ratio: Matched out of Eligible. Ratio is the
// 0/0-safe quotient.
type Share struct {
	Matched  int     `json:"matched"`
	Eligible int     `json:"eligible"`
	Ratio    float64 `json:"ratio"`
}

// Summary is the cross-dataset insight block of a report.
type Summary struct {
	// BlockbusterShare: records at or above the blockbuster admission
	// threshold, over all domestic records.
	BlockbusterShare Share `json:"blockbuster_share"`
	// SummerReleaseShare: releases in the configured summer months,
	// over domestic records with a valid date.
	SummerReleaseShare Share `json:"summer_release_share"`
	// HighRatingShare: records at or above the high-rating threshold,
	// over global records with a valid rating.
	HighRatingShare Share `json:"high_rating_share"`
	// DistinctLanguages: distinct original-language labels present.
	DistinctLanguages int `json:"distinct_languages"`
}

// Ratio divides counts, yielding the 0.0 sentinel for an empty
// denominator instead of a fault; an empty slice must not abort an
// otherwise-valid report.
func Ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0.0
	}
	return float64(numerator) / float64(denominator)
}

// ShareAtOrAbove counts records whose metric is valid and >= threshold.
// Eligible is the whole dataset: records missing the metric dilute the
// share, matching a "N out of all M records" reading.
func ShareAtOrAbove(ds types.Dataset, metric string, threshold float64) Share {
	s := Share{Eligible: ds.Len()}
	for _, rec := range ds.Records {
		if v, ok := rec.Metric(metric); ok && v >= threshold {
			s.Matched++
		}
	}
	s.Ratio = Ratio(s.Matched, s.Eligible)
	return s
}

// MonthShare counts records released in any of the given months, over
// records with a valid date only.
func MonthShare(ds types.Dataset, months []time.Month) Share {
	want := make(map[time.Month]bool, len(months))
	for _, m := range months {
		want[m] = true
	}
	var s Share
	for _, rec := range ds.Records {
		if !rec.HasDate {
			continue
		}
		s.Eligible++
		if want[rec.Date.Month()] {
			s.Matched++
		}
	}
	s.Ratio = Ratio(s.Matched, s.Eligible)
	return s
}

// DistinctLabels counts the distinct values of a single-valued
// categorical field across the dataset.
func DistinctLabels(ds types.Dataset, field string) int {
	seen := make(map[string]struct{})
	for _, rec := range ds.Records {
		if label, ok := rec.Labels[field]; ok {
			seen[label] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctCategories counts the distinct labels of a multi-valued
// categorical field across the dataset.
func DistinctCategories(ds types.Dataset, field string) int {
	seen := make(map[string]struct{})
	for _, rec := range ds.Records {
		for _, label := range rec.Categories[field] {
			seen[label] = struct{}{}
		}
	}
	return len(seen)
}
