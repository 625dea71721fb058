package dataset

import "movie-insights-go/internal/types"

// DomesticSchema describes the weekly domestic box-office series
// (KOBIS-style headers).
func DomesticSchema() types.Schema {
	return types.Schema{
		Name: "domestic",
		Columns: []types.Column{
			{Field: types.FieldTitle, Kind: types.KindString, Required: true, Aliases: []string{"movienm", "movie_nm", "title"}},
			{Field: types.FieldDate, Kind: types.KindDate, Aliases: []string{"opendt", "open_dt", "open date"}},
			{Field: types.FieldYear, Kind: types.KindInt, Required: true, Aliases: []string{"year"}},
			{Field: types.MetricAudience, Kind: types.KindInt, Required: true, Aliases: []string{"audicnt", "audi_cnt"}},
			{Field: types.MetricCumAudience, Kind: types.KindInt, Required: true, Aliases: []string{"audiacc", "audi_acc"}},
			{Field: types.MetricSales, Kind: types.KindFloat, Aliases: []string{"salesamt", "sales_amt", "sales"}},
			{Field: types.MetricScreens, Kind: types.KindInt, Aliases: []string{"scrncnt", "scrn_cnt", "screen"}},
			{Field: types.FieldGenres, Kind: types.KindStringList, Aliases: []string{"genres", "genre"}},
		},
	}
}

// GlobalSchema describes the global catalog with ratings and
// popularity (TMDB-style headers).
func GlobalSchema() types.Schema {
	return types.Schema{
		Name: "global",
		Columns: []types.Column{
			{Field: types.FieldTitle, Kind: types.KindString, Required: true, Aliases: []string{"title", "movienm"}},
			{Field: types.FieldDate, Kind: types.KindDate, Aliases: []string{"release_date", "release date"}},
			{Field: types.FieldYear, Kind: types.KindInt, Required: true, Aliases: []string{"year"}},
			{Field: types.MetricRating, Kind: types.KindFloat, Required: true, Aliases: []string{"vote_average", "rating"}},
			{Field: types.MetricVotes, Kind: types.KindInt, Aliases: []string{"vote_count", "votes"}},
			{Field: types.MetricPopularity, Kind: types.KindFloat, Aliases: []string{"popularity"}},
			{Field: types.FieldLanguage, Kind: types.KindString, Aliases: []string{"original_language", "language"}},
			{Field: types.FieldGenres, Kind: types.KindStringList, Aliases: []string{"genres", "genre"}},
		},
	}
}
