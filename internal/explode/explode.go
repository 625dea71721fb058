// Package explode fans multi-category records out into per-category
// rows. The fan-out is one-to-many: a record with k categories yields k
// rows carrying the record's full metric set, so category-level
// aggregates intentionally double-count shared records. The base
// dataset is never duplicated.
package explode

import (
	"iter"
	"strings"

	"movie-insights-go/internal/types"
)

// SplitCategories splits a raw delimited field into clean labels:
// trimmed, empties dropped, duplicates removed with first-seen order
// preserved. The normalizer uses the same routine, so a CleanRecord's
// category set and the exploded output always agree.
func SplitCategories(raw, delimiter string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, delimiter) {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// All returns a lazy sequence of exploded rows for one categorical
// field. Records with no surviving category are skipped; they remain in
// the dataset for non-categorical views. The sequence reads the dataset
// without mutating it and may be consumed more than once.
func All(ds types.Dataset, field string) iter.Seq[types.ExplodedRow] {
	return func(yield func(types.ExplodedRow) bool) {
		for i := range ds.Records {
			rec := &ds.Records[i]
			for _, cat := range rec.Categories[field] {
				if !yield(types.ExplodedRow{Category: cat, Record: rec}) {
					return
				}
			}
		}
	}
}

// Collect materializes the fan-out for callers that want a slice.
func Collect(ds types.Dataset, field string) []types.ExplodedRow {
	var out []types.ExplodedRow
	for row := range All(ds, field) {
		out = append(out, row)
	}
	return out
}
