package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Semantic field names shared by the loader, normalizer and all
// downstream views. Raw column headers are mapped onto these by the
// loader so the rest of the pipeline never sees source-specific names.
const (
	FieldTitle    = "title"
	FieldDate     = "date"
	FieldYear     = "year"
	FieldGenres   = "genres"
	FieldLanguage = "language"

	MetricAudience    = "audience"     // weekly admissions
	MetricCumAudience = "cum_audience" // cumulative admissions
	MetricSales       = "sales"
	MetricScreens     = "screens"
	MetricRating      = "rating"
	MetricVotes       = "votes"
	MetricPopularity  = "popularity"
)

// FieldKind declares how a raw column is parsed.
type FieldKind int

const (
	KindString FieldKind = iota
	KindDate
	KindInt
	KindFloat
	KindStringList
)

// Column maps one source column onto a semantic field.
// Aliases are lowercase substrings matched against the header row.
type Column struct {
	Field    string
	Kind     FieldKind
	Required bool
	Aliases  []string
}

// Schema describes one tabular source.
type Schema struct {
	Name    string
	Columns []Column
}

// Column returns the schema column for a semantic field, if declared.
func (s Schema) Column(field string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// RawRecord is one source row keyed by semantic field name, values
// exactly as read. Immutable by convention once produced by the loader.
type RawRecord map[string]string

// Metric is a numeric value with a row-scoped validity flag. An invalid
// metric excludes the record from that metric's aggregates only; the
// record itself survives for other views.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// CleanRecord is the validated, typed form of one source row.
type CleanRecord struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date,omitzero"`
	// HasDate distinguishes a parsed date from an unparseable one;
	// records without a date are kept but excluded from date views.
	HasDate bool `json:"has_date"`
	Year    int  `json:"year"`

	// Labels holds single-valued categorical fields (e.g. language).
	Labels map[string]string `json:"labels,omitempty"`
	// Categories holds multi-valued categorical fields (e.g. genres),
	// already split, trimmed and deduplicated per record.
	Categories map[string][]string `json:"categories,omitempty"`

	Metrics map[string]Metric `json:"metrics"`
}

// Metric returns the named metric value and whether it is valid.
func (r CleanRecord) Metric(name string) (float64, bool) {
	m, ok := r.Metrics[name]
	if !ok || !m.Valid {
		return 0, false
	}
	return m.Value, true
}

// Dataset is an ordered, read-only sequence of CleanRecord from one
// source. Callers must not mutate Records after construction.
type Dataset struct {
	Name    string        `json:"name"`
	Records []CleanRecord `json:"records"`
}

// Len returns the record count.
func (d Dataset) Len() int { return len(d.Records) }

// MetricCarrier is anything exposing named metrics: CleanRecord and
// ExplodedRow both qualify, so aggregation runs over either.
type MetricCarrier interface {
	Metric(name string) (float64, bool)
}

// ExplodedRow is one (category, metrics) pair fanned out of a
// multi-category record. The metric set is the owning record's,
// unchanged: a record with three genres contributes its full values to
// each genre's aggregate. That double-counts at the category level by
// design; the base dataset is never duplicated.
type ExplodedRow struct {
	Category string       `json:"category"`
	Record   *CleanRecord `json:"-"`
}

// Metric delegates to the owning record.
func (e ExplodedRow) Metric(name string) (float64, bool) { return e.Record.Metric(name) }

// MetricStats is one metric's aggregate within a group. Mean is NaN
// when Count is zero: an undefined mean is never reported as 0.
type MetricStats struct {
	Sum   float64
	Mean  float64
	Count int
}

// MarshalJSON emits null for an undefined mean so the structure stays
// encodable.
func (m MetricStats) MarshalJSON() ([]byte, error) {
	out := struct {
		Sum   float64  `json:"sum"`
		Mean  *float64 `json:"mean"`
		Count int      `json:"count"`
	}{Sum: m.Sum, Count: m.Count}
	if !math.IsNaN(m.Mean) {
		out.Mean = &m.Mean
	}
	return json.Marshal(out)
}

// GroupStats holds every requested metric's aggregate for one group
// key, plus the group's total row count (valid or not).
type GroupStats struct {
	Key     string                 `json:"key"`
	Rows    int                    `json:"rows"`
	Metrics map[string]MetricStats `json:"metrics"`
}

// AggregateResult maps group key to its stats. Iteration order is
// unspecified; consumers sort explicitly.
type AggregateResult map[string]GroupStats

// RankedEntry is one row of a Top-N view.
type RankedEntry struct {
	Rank   int          `json:"rank"`
	Record *CleanRecord `json:"record"`
	Value  float64      `json:"value"`
}

// Bucket is a half-open interval [Low, High); the final bucket of a
// table is open-topped and inclusive.
type Bucket struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Last  bool    `json:"last,omitempty"`
}

// BucketCount pairs a bucket with the number of rows it captured.
type BucketCount struct {
	Bucket
	Count int `json:"count"`
}

// BucketingResult is an ordered histogram plus the count of rows that
// could not be placed (invalid metric or below the first boundary).
// Sum of bucket counts + Excluded always equals the input row count.
type BucketingResult struct {
	Buckets  []BucketCount `json:"buckets"`
	Excluded int           `json:"excluded"`
}

// Total returns the number of rows captured by the buckets.
func (b BucketingResult) Total() int {
	n := 0
	for _, bc := range b.Buckets {
		n += bc.Count
	}
	return n
}

// SchemaError reports a structurally unreadable source: required
// columns could not be found. It aborts the load; row-level problems
// never do.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
