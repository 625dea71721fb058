// Package ranker provides Top-N extraction and fixed-boundary
// histogram bucketing over a dataset.
package ranker

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"movie-insights-go/internal/types"
)

// TopN returns up to n records ranked descending by metric. Records
// with an invalid or absent metric are excluded, not ranked last. The
// sort is stable, so ties keep the dataset's original order and the
// ranking is reproducible run to run.
func TopN(ds types.Dataset, metric string, n int) []types.RankedEntry {
	if n <= 0 {
		return nil
	}
	var eligible []types.RankedEntry
	for i := range ds.Records {
		v, ok := ds.Records[i].Metric(metric)
		if !ok {
			continue
		}
		eligible = append(eligible, types.RankedEntry{Record: &ds.Records[i], Value: v})
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].Value > eligible[j].Value })
	if n < len(eligible) {
		eligible = eligible[:n]
	}
	for i := range eligible {
		eligible[i].Rank = i + 1
	}
	return eligible
}

// Buckets builds the interval table for an ascending boundary list: a
// half-open [b[i], b[i+1]) bucket per adjacent pair, then a final
// open-topped bucket from the last boundary, inclusive. With labels
// nil, labels are generated from the boundaries.
func Buckets(boundaries []float64, labels []string) ([]types.Bucket, error) {
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("bucketize: empty boundary table")
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return nil, fmt.Errorf("bucketize: boundaries not strictly ascending at index %d", i)
		}
	}
	if labels != nil && len(labels) != len(boundaries) {
		return nil, fmt.Errorf("bucketize: %d labels for %d buckets", len(labels), len(boundaries))
	}
	out := make([]types.Bucket, len(boundaries))
	for i, low := range boundaries {
		b := types.Bucket{Low: low}
		if i == len(boundaries)-1 {
			b.High = math.Inf(1)
			b.Last = true
			b.Label = fmt.Sprintf("[%s,..]", fmtBound(low))
		} else {
			b.High = boundaries[i+1]
			b.Label = fmt.Sprintf("[%s,%s)", fmtBound(low), fmtBound(b.High))
		}
		if labels != nil {
			b.Label = labels[i]
		}
		out[i] = b
	}
	return out, nil
}

// Bucketize counts records per bucket by their metric value. Membership
// is low <= x < high, except the final bucket which has no upper cut.
// Records with an invalid metric, or a value below the first boundary,
// are counted in Excluded rather than silently dropped: bucket counts
// plus Excluded always total the dataset size.
func Bucketize(ds types.Dataset, metric string, boundaries []float64, labels []string) (types.BucketingResult, error) {
	buckets, err := Buckets(boundaries, labels)
	if err != nil {
		return types.BucketingResult{}, err
	}
	res := types.BucketingResult{Buckets: make([]types.BucketCount, len(buckets))}
	for i, b := range buckets {
		res.Buckets[i].Bucket = b
	}
	for i := range ds.Records {
		v, ok := ds.Records[i].Metric(metric)
		if !ok || v < boundaries[0] {
			res.Excluded++
			continue
		}
		res.Buckets[place(boundaries, v)].Count++
	}
	return res, nil
}

// place returns the index of the bucket owning v; v >= boundaries[0].
func place(boundaries []float64, v float64) int {
	// first boundary strictly greater than v starts the next bucket
	idx := sort.SearchFloat64s(boundaries, v)
	if idx == len(boundaries) || boundaries[idx] > v {
		idx--
	}
	return idx
}

func fmtBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
