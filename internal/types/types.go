package types

import (
	"strconv"
	"time"
)

// CellKind discriminates the variants of a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a single spreadsheet value. Exactly one of the value fields is
// meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// DateLayout is the rendering format for date cells.
const DateLayout = "2006-01-02"

func EmptyCell() Cell           { return Cell{Kind: CellEmpty} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String renders the cell the way it is written to CSV output. Empty cells
// render as the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format(DateLayout)
	default:
		return ""
	}
}

// RawRow is one row of cells exactly as read from an input file.
type RawRow []Cell

// RawSheet is the full contents of one input file, rows in file order.
type RawSheet []RawRow

// CleanedTable is the result of normalizing one RawSheet: column names plus
// data rows, each padded or truncated to len(Columns). Column names are not
// required to be unique.
type CleanedTable struct {
	Columns []string
	Rows    []RawRow
}

// MergedTable is the union of several CleanedTables. Columns are in
// first-seen order across inputs with a trailing source-file column, and
// every row is aligned to that order.
type MergedTable struct {
	Columns []string
	Rows    []RawRow
}

// CompileResult summarizes one batch run for CLI and UI reporting.
type CompileResult struct {
	OutputFile string
	Processed  []string // inputs that contributed rows and were archived
	Skipped    []string // inputs that were unreadable or empty after cleaning
	Columns    []string
	RowsOut    int
}
