package tabular

import (
	"errors"

	"sheetstack/internal/types"
)

// SourceColumn is the name of the appended provenance column.
const SourceColumn = "source_file"

// ErrEmptyBatch is returned by Merge when no table contributed any rows.
var ErrEmptyBatch = errors.New("no tables with data rows to merge")

// SourceTable pairs a cleaned table with the identifier written into its
// rows' source_file column, normally the input file's base name.
type SourceTable struct {
	ID    string
	Table types.CleanedTable
}

// Merge unions cleaned tables into one wide table. Tables with zero data
// rows are skipped. The merged column order is first-seen order across the
// inputs (duplicates collapsed) plus a trailing source_file column; rows are
// concatenated in input order with absent columns left empty.
func Merge(tables []SourceTable) (types.MergedTable, error) {
	var columns []string
	seen := make(map[string]bool)
	survivors := 0

	for _, st := range tables {
		if len(st.Table.Rows) == 0 {
			continue
		}
		survivors++
		for _, name := range st.Table.Columns {
			if seen[name] {
				continue
			}
			seen[name] = true
			columns = append(columns, name)
		}
	}
	if survivors == 0 {
		return types.MergedTable{}, ErrEmptyBatch
	}

	merged := types.MergedTable{Columns: append(columns, SourceColumn)}
	for _, st := range tables {
		if len(st.Table.Rows) == 0 {
			continue
		}

		// Position of each union column in this table. Duplicate names
		// within a table resolve to their first occurrence.
		index := make(map[string]int, len(st.Table.Columns))
		for i, name := range st.Table.Columns {
			if _, ok := index[name]; !ok {
				index[name] = i
			}
		}

		for _, row := range st.Table.Rows {
			out := make(types.RawRow, 0, len(columns)+1)
			for _, name := range columns {
				if i, ok := index[name]; ok && i < len(row) {
					out = append(out, row[i])
				} else {
					out = append(out, types.EmptyCell())
				}
			}
			out = append(out, types.TextCell(st.ID))
			merged.Rows = append(merged.Rows, out)
		}
	}

	return merged, nil
}
