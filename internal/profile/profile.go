// Package profile computes descriptive summaries of a metric's valid
// values, feeding the data-summary block of a report.
package profile

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"movie-insights-go/internal/types"
)

// MetricProfile is the descriptive summary of one metric. With Count 0
// every figure is zero and the profile should be read as empty, not as
// a metric that happens to be all zeros.
type MetricProfile struct {
	Metric   string  `json:"metric"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Describe profiles one metric over its valid values. Invalid and
// absent values are skipped; an empty or too-small sample degrades to
// partial (or zero-count) output rather than an error.
func Describe(ds types.Dataset, metric string) MetricProfile {
	p := MetricProfile{Metric: metric}
	var data []float64
	for _, rec := range ds.Records {
		if v, ok := rec.Metric(metric); ok {
			data = append(data, v)
		}
	}
	p.Count = len(data)
	if p.Count == 0 {
		return p
	}

	// montanaflynn/stats only errors on empty input, checked above
	p.Mean, _ = stats.Mean(data)
	p.StdDev, _ = stats.StandardDeviation(data)
	p.Min, _ = stats.Min(data)
	p.Max, _ = stats.Max(data)
	p.Median, _ = stats.Median(data)
	p.Q25, _ = stats.Percentile(data, 25)
	p.Q75, _ = stats.Percentile(data, 75)

	// shape moments are unstable below these sample sizes
	if p.Count >= 3 && p.StdDev > 0 {
		p.Skewness = stat.Skew(data, nil)
	}
	if p.Count >= 4 && p.StdDev > 0 {
		p.Kurtosis = stat.ExKurtosis(data, nil)
	}
	return p
}

// DescribeAll profiles several metrics of one dataset.
func DescribeAll(ds types.Dataset, metrics []string) []MetricProfile {
	out := make([]MetricProfile, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, Describe(ds, m))
	}
	return out
}
