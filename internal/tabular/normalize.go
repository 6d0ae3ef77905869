package tabular

import (
	"fmt"
	"strings"

	"sheetstack/internal/logger"
	"sheetstack/internal/types"
)

// DefaultSparsityThreshold is the minimum fraction of non-empty cells a row
// must have to survive general cleaning when no header row was found.
const DefaultSparsityThreshold = 0.2

// Normalizer turns a raw sheet into a cleaned table using an injected
// vocabulary and sparsity threshold. The zero value is not usable; construct
// with NewNormalizer.
type Normalizer struct {
	vocab     Vocab
	threshold float64
}

// NewNormalizer builds a Normalizer. A zero threshold falls back to
// DefaultSparsityThreshold.
func NewNormalizer(vocab Vocab, threshold float64) Normalizer {
	if threshold == 0 {
		threshold = DefaultSparsityThreshold
	}
	return Normalizer{vocab: vocab.normalized(), threshold: threshold}
}

// Normalize locates the header row, if any, and strips metadata and padding
// rows. A sheet where nothing survives yields a zero-row table, never an
// error; callers treat such tables as "skip this sheet".
func (n Normalizer) Normalize(sheet types.RawSheet) types.CleanedTable {
	if len(sheet) == 0 {
		return types.CleanedTable{}
	}

	headerIdx := n.findHeader(sheet)
	if headerIdx >= 0 {
		return n.withHeader(sheet, headerIdx)
	}
	return n.withoutHeader(sheet)
}

// findHeader returns the index of the first row classified as a header
// candidate, or -1. First match wins regardless of later rows' confidence.
func (n Normalizer) findHeader(sheet types.RawSheet) int {
	for i, row := range sheet {
		if n.vocab.Classify(row).Kind == HeaderCandidate {
			return i
		}
	}
	return -1
}

// withHeader uses row headerIdx as the column names and keeps the rows after
// it. Only the first column is checked against the metadata vocabulary here;
// metadata text elsewhere in a row does not disqualify it.
func (n Normalizer) withHeader(sheet types.RawSheet, headerIdx int) types.CleanedTable {
	columns := columnNames(sheet[headerIdx])

	rows := make([]types.RawRow, 0, len(sheet)-headerIdx-1)
	for _, row := range sheet[headerIdx+1:] {
		if allEmpty(row) {
			continue
		}
		if len(row) > 0 && !row[0].IsEmpty() &&
			containsAny(strings.ToUpper(row[0].String()), n.vocab.MetadataKeywords) {
			continue
		}
		rows = append(rows, fitRow(row, len(columns)))
	}

	logger.Debug("header row found",
		"header_index", headerIdx, "columns", len(columns), "data_rows", len(rows))
	return types.CleanedTable{Columns: columns, Rows: rows}
}

// withoutHeader treats the whole sheet as data under positional column
// names. Rows with metadata text in any cell are removed, then rows with
// fewer non-empty cells than the sparsity threshold allows.
func (n Normalizer) withoutHeader(sheet types.RawSheet) types.CleanedTable {
	width := 0
	for _, row := range sheet {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	for i := range columns {
		columns[i] = placeholderName(i)
	}

	minCells := n.threshold * float64(width)
	rows := make([]types.RawRow, 0, len(sheet))
	for _, row := range sheet {
		if n.anyCellMetadata(row) {
			continue
		}
		if float64(countNonEmpty(row)) < minCells {
			continue
		}
		rows = append(rows, fitRow(row, width))
	}

	logger.Debug("no header row found, applied general cleaning",
		"columns", width, "data_rows", len(rows))
	return types.CleanedTable{Columns: columns, Rows: rows}
}

func (n Normalizer) anyCellMetadata(row types.RawRow) bool {
	for _, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		if containsAny(strings.ToUpper(cell.String()), n.vocab.GeneralMetadataKeywords) {
			return true
		}
	}
	return false
}

// columnNames renders header cells into column names, substituting a
// positional placeholder for empty cells.
func columnNames(header types.RawRow) []string {
	names := make([]string, len(header))
	for i, cell := range header {
		if cell.IsEmpty() {
			names[i] = placeholderName(i)
			continue
		}
		names[i] = cell.String()
	}
	return names
}

func placeholderName(i int) string {
	return fmt.Sprintf("column_%d", i)
}

// fitRow pads or truncates a row to exactly width cells.
func fitRow(row types.RawRow, width int) types.RawRow {
	out := make(types.RawRow, width)
	for i := range out {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = types.EmptyCell()
		}
	}
	return out
}

func allEmpty(row types.RawRow) bool {
	return countNonEmpty(row) == 0
}

func countNonEmpty(row types.RawRow) int {
	count := 0
	for _, cell := range row {
		if !cell.IsEmpty() {
			count++
		}
	}
	return count
}
