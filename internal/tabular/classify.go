// Package tabular implements the cleaning heuristic for exported billing
// spreadsheets: locating the real header row beneath title and report
// metadata, stripping non-data rows, and unioning the surviving tables
// into one flat dataset.
package tabular

import (
	"strings"

	"sheetstack/internal/types"
)

// Classification is the verdict for a single raw row.
type Classification int

const (
	DataOrUnknown Classification = iota
	HeaderCandidate
	Metadata
)

// HeaderIndicatorMin is the number of header-indicator keywords a row must
// contain before it qualifies as a header candidate.
const HeaderIndicatorMin = 2

// RowClass carries the classification plus, for header candidates, the
// number of indicators that matched.
type RowClass struct {
	Kind       Classification
	Confidence int
}

// Vocab holds the keyword sets driving classification. All matching is
// case-insensitive substring matching; keywords are stored uppercased.
//
// MetadataKeywords is applied to the first column of data rows once a header
// has been found. GeneralMetadataKeywords is the broader list applied to
// every cell when no header is detected. The two lists differ on purpose.
type Vocab struct {
	HeaderIndicators        []string
	MetadataKeywords        []string
	GeneralMetadataKeywords []string
}

// DefaultVocab returns the stock vocabulary for monthly billing exports.
func DefaultVocab() Vocab {
	return Vocab{
		HeaderIndicators: []string{
			"CUSTOMER_INVOICE_NUMBER", "ID", "INVOICE", "CUSTOMER", "BILLING",
			"CURRENCY", "DATE", "AMOUNT", "FEE", "CHARGE",
		},
		MetadataKeywords: []string{
			"MONTHLY BILLING SUMMARY", "REPORT", "TOTAL", "SUMMARY",
			"GENERATED", "PERIOD", "CURRENCY", "PAGE",
		},
		GeneralMetadataKeywords: []string{
			"MONTHLY BILLING SUMMARY", "REPORT", "GENERATED ON", "PERIOD:", "CURRENCY:",
		},
	}
}

// normalized returns a copy of the vocabulary with every keyword uppercased,
// so injected vocabularies behave the same as the defaults.
func (v Vocab) normalized() Vocab {
	return Vocab{
		HeaderIndicators:        upperAll(v.HeaderIndicators),
		MetadataKeywords:        upperAll(v.MetadataKeywords),
		GeneralMetadataKeywords: upperAll(v.GeneralMetadataKeywords),
	}
}

func upperAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToUpper(w)
	}
	return out
}

// Classify decides whether a row looks like a column header, report
// metadata, or plain data. Pure and position-independent.
func (v Vocab) Classify(row types.RawRow) RowClass {
	joined := joinUpper(row)

	hits := 0
	for _, indicator := range v.HeaderIndicators {
		if strings.Contains(joined, indicator) {
			hits++
		}
	}
	if hits >= HeaderIndicatorMin {
		return RowClass{Kind: HeaderCandidate, Confidence: hits}
	}

	for _, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		if containsAny(strings.ToUpper(cell.String()), v.MetadataKeywords) {
			return RowClass{Kind: Metadata}
		}
	}

	return RowClass{Kind: DataOrUnknown}
}

// joinUpper builds the uppercased, space-joined rendering of the row's
// non-empty cells that indicator matching runs against.
func joinUpper(row types.RawRow) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		parts = append(parts, strings.ToUpper(cell.String()))
	}
	return strings.Join(parts, " ")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
