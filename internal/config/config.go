package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"movie-insights-go/internal/types"
)

// Range is the closed valid interval for one metric. Values outside it
// are marked invalid for that metric only.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Config carries every fixed input of the pipeline: horizon and year
// filter, per-metric valid ranges, bucket boundary table, head sizes
// and thresholds. The core computes none of these.
type Config struct {
	// MaxYear is the analysis horizon; records beyond it are dropped.
	MaxYear int
	// AnalysisYears, when non-empty, restricts the datasets to those
	// years before any view is computed.
	AnalysisYears []int

	Ranges    map[string]Range
	Delimiter string

	TopN         int
	GenreHead    int
	LanguageHead int

	AudienceBoundaries []float64

	BlockbusterThreshold float64
	HighRatingThreshold  float64
	SummerMonths         []time.Month
}

// Default is the stock analysis window: horizon 2024, the three most
// recent years, non-negative count/amount metrics, ratings on [0,10],
// admission buckets at 100k/1M/5M/10M.
func Default() Config {
	return Config{
		MaxYear:       2024,
		AnalysisYears: []int{2022, 2023, 2024},
		Ranges: map[string]Range{
			types.MetricAudience:    {Min: 0, Max: math.Inf(1)},
			types.MetricCumAudience: {Min: 0, Max: math.Inf(1)},
			types.MetricSales:       {Min: 0, Max: math.Inf(1)},
			types.MetricScreens:     {Min: 0, Max: math.Inf(1)},
			types.MetricRating:      {Min: 0, Max: 10},
			types.MetricVotes:       {Min: 0, Max: math.Inf(1)},
			types.MetricPopularity:  {Min: 0, Max: math.Inf(1)},
		},
		Delimiter:            ",",
		TopN:                 10,
		GenreHead:            8,
		LanguageHead:         10,
		AudienceBoundaries:   []float64{0, 100_000, 1_000_000, 5_000_000, 10_000_000},
		BlockbusterThreshold: 10_000_000,
		HighRatingThreshold:  8.0,
		SummerMonths:         []time.Month{time.June, time.July, time.August},
	}
}

// FromEnv starts from Default and applies environment overrides.
// Unparseable values are ignored in favor of the default.
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("MAX_YEAR"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			cfg.MaxYear = y
		}
	}
	if v := os.Getenv("ANALYSIS_YEARS"); v != "" {
		var years []int
		for _, part := range strings.Split(v, ",") {
			if y, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				years = append(years, y)
			}
		}
		if len(years) > 0 {
			cfg.AnalysisYears = years
		}
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopN = n
		}
	}
	if v := os.Getenv("CATEGORY_DELIMITER"); v != "" {
		cfg.Delimiter = v
	}
	return cfg
}

// YearAllowed applies the AnalysisYears pre-filter.
func (c Config) YearAllowed(year int) bool {
	if len(c.AnalysisYears) == 0 {
		return true
	}
	for _, y := range c.AnalysisYears {
		if y == year {
			return true
		}
	}
	return false
}

// Range returns the valid range for a metric, defaulting to
// non-negative when the metric has no declared range.
func (c Config) Range(metric string) Range {
	if r, ok := c.Ranges[metric]; ok {
		return r
	}
	return Range{Min: 0, Max: math.Inf(1)}
}
