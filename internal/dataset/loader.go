package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"movie-insights-go/internal/logger"
	"movie-insights-go/internal/types"
)

// Load reads the first sheet of a workbook and maps its columns onto
// the schema's semantic fields by header heuristics. It returns raw
// rows only; all typing and validation happens in the normalizer. A
// required column that cannot be located fails the whole load with a
// SchemaError; anything row-level never does.
func Load(path string, schema types.Schema) ([]types.RawRecord, error) {
	log := logger.New().WithField("component", "dataset.loader").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	cols, err := detectColumns(rows[0], schema)
	if err != nil {
		return nil, err
	}
	log.WithField("columns", cols).Info("detected columns")

	out := make([]types.RawRecord, 0, len(rows)-1)
	for i, r := range rows {
		if i == 0 {
			continue
		}
		record := make(types.RawRecord, len(cols))
		for field, idx := range cols {
			if idx < len(r) {
				record[field] = r[idx]
			} else {
				record[field] = ""
			}
		}
		out = append(out, record)
	}
	log.WithField("rows", len(out)).Info("dataset loaded")
	return out, nil
}

// detectColumns resolves each schema column to a header index. Exact
// alias matches win over substring matches so e.g. a "vote_count"
// header cannot claim the rating column.
func detectColumns(header []string, schema types.Schema) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(map[string]int)
	taken := make(map[int]bool)

	match := func(exact bool) {
		for _, col := range schema.Columns {
			if _, done := cols[col.Field]; done {
				continue
			}
			for i, h := range normalized {
				if h == "" || taken[i] {
					continue
				}
				for _, alias := range col.Aliases {
					if (exact && h == alias) || (!exact && strings.Contains(h, alias)) {
						cols[col.Field] = i
						taken[i] = true
						break
					}
				}
				if _, done := cols[col.Field]; done {
					break
				}
			}
		}
	}
	match(true)
	match(false)

	var missing []string
	for _, col := range schema.Columns {
		if _, ok := cols[col.Field]; !ok && col.Required {
			missing = append(missing, col.Field)
		}
	}
	if len(missing) > 0 {
		return nil, &types.SchemaError{Source: schema.Name, Missing: missing}
	}
	return cols, nil
}
