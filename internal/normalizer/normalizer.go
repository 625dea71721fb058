// Package normalizer turns raw source rows into a validated, typed
// Dataset. All data-quality handling is row- or metric-scoped and never
// aborts the load; only a structurally unreadable source (required
// columns absent) fails with a SchemaError.
package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"movie-insights-go/internal/config"
	"movie-insights-go/internal/explode"
	"movie-insights-go/internal/logger"
	"movie-insights-go/internal/types"
)

// dateFormats are tried in order; the first match wins.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// Report counts what the normalizer dropped or flagged, so the caller
// can surface data-quality gaps instead of silently losing rows.
type Report struct {
	Input              int            `json:"input"`
	Kept               int            `json:"kept"`
	DroppedNoTitle     int            `json:"dropped_no_title"`
	DroppedNoYear      int            `json:"dropped_no_year"`
	DroppedYearHorizon int            `json:"dropped_year_horizon"`
	DroppedYearFilter  int            `json:"dropped_year_filter"`
	InvalidDates       int            `json:"invalid_dates"`
	InvalidMetrics     map[string]int `json:"invalid_metrics,omitempty"`
}

// Normalize parses each raw row per the schema's declared kinds and
// applies the year horizon and pre-filter. Input rows are not mutated.
func Normalize(rows []types.RawRecord, schema types.Schema, cfg config.Config) (types.Dataset, Report, error) {
	if err := checkRequired(rows, schema); err != nil {
		return types.Dataset{}, Report{}, err
	}

	rep := Report{Input: len(rows), InvalidMetrics: map[string]int{}}
	ds := types.Dataset{Name: schema.Name}

	for _, raw := range rows {
		rec, keep := normalizeRow(raw, schema, cfg, &rep)
		if !keep {
			continue
		}
		ds.Records = append(ds.Records, rec)
	}
	rep.Kept = len(ds.Records)

	logger.New().WithFields(map[string]interface{}{
		"component": "normalizer",
		"source":    schema.Name,
		"input":     rep.Input,
		"kept":      rep.Kept,
	}).Info("normalization complete")

	return ds, rep, nil
}

func normalizeRow(raw types.RawRecord, schema types.Schema, cfg config.Config, rep *Report) (types.CleanRecord, bool) {
	rec := types.CleanRecord{Metrics: map[string]types.Metric{}}

	rec.Title = strings.TrimSpace(raw[types.FieldTitle])
	if rec.Title == "" {
		rep.DroppedNoTitle++
		return rec, false
	}

	if rawDate, ok := raw[types.FieldDate]; ok && strings.TrimSpace(rawDate) != "" {
		if t, ok := parseDate(rawDate); ok {
			rec.Date = t
			rec.HasDate = true
		} else {
			// unparseable date nulls the date, never the record
			rep.InvalidDates++
		}
	}

	year, ok := deriveYear(raw, rec)
	if !ok {
		rep.DroppedNoYear++
		return rec, false
	}
	rec.Year = year
	if rec.Year > cfg.MaxYear {
		rep.DroppedYearHorizon++
		return rec, false
	}
	if !cfg.YearAllowed(rec.Year) {
		rep.DroppedYearFilter++
		return rec, false
	}

	for _, col := range schema.Columns {
		switch col.Field {
		case types.FieldTitle, types.FieldDate, types.FieldYear:
			continue
		}
		val, present := raw[col.Field]
		switch col.Kind {
		case types.KindInt, types.KindFloat:
			if !present || strings.TrimSpace(val) == "" {
				continue // absent, not invalid
			}
			num, ok := parseNumber(val)
			if !ok || !cfg.Range(col.Field).Contains(num) {
				rec.Metrics[col.Field] = types.Metric{Valid: false}
				rep.InvalidMetrics[col.Field]++
				continue
			}
			rec.Metrics[col.Field] = types.Metric{Value: num, Valid: true}
		case types.KindStringList:
			cats := explode.SplitCategories(val, cfg.Delimiter)
			if len(cats) > 0 {
				if rec.Categories == nil {
					rec.Categories = map[string][]string{}
				}
				rec.Categories[col.Field] = cats
			}
		case types.KindString:
			label := strings.TrimSpace(val)
			if label != "" {
				if rec.Labels == nil {
					rec.Labels = map[string]string{}
				}
				rec.Labels[col.Field] = label
			}
		}
	}

	return rec, true
}

// deriveYear prefers the explicit year column and falls back to the
// parsed date. Year is the partitioning dimension for every view, so a
// record without one is dropped entirely.
func deriveYear(raw types.RawRecord, rec types.CleanRecord) (int, bool) {
	if v, ok := raw[types.FieldYear]; ok {
		if y, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && y > 0 {
			return y, true
		}
	}
	if rec.HasDate {
		return rec.Date.Year(), true
	}
	return 0, false
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber tolerates thousands separators (commas, spaces) in
// source cells and rejects non-finite results.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// checkRequired verifies every required column surfaced in at least one
// row. The loader keys rows by semantic field, so a key absent from all
// rows means the column was never found.
func checkRequired(rows []types.RawRecord, schema types.Schema) error {
	if len(rows) == 0 {
		return nil
	}
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}
	var missing []string
	for _, col := range schema.Columns {
		if col.Required && !present[col.Field] {
			missing = append(missing, col.Field)
		}
	}
	if len(missing) > 0 {
		return &types.SchemaError{Source: schema.Name, Missing: missing}
	}
	return nil
}
