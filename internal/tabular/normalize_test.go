package tabular

import (
	"reflect"
	"testing"

	"sheetstack/internal/types"
)

func defaultNormalizer() Normalizer {
	return NewNormalizer(DefaultVocab(), DefaultSparsityThreshold)
}

func cellValues(r types.RawRow) []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

func TestNormalizeEmptySheet(t *testing.T) {
	got := defaultNormalizer().Normalize(types.RawSheet{})
	if len(got.Columns) != 0 || len(got.Rows) != 0 {
		t.Errorf("expected empty table, got %d columns, %d rows", len(got.Columns), len(got.Rows))
	}
}

func TestNormalizeHeaderFound(t *testing.T) {
	sheet := types.RawSheet{
		row("Monthly Billing Summary"),
		row("Period: 2024-01"),
		row("INVOICE", "CUSTOMER", "AMOUNT"),
		row("1001", "Acme", "50.00"),
		row("", "", ""),
		row("TOTAL", "", "50.00"),
		row("1002", "Globex", "10.00"),
	}

	got := defaultNormalizer().Normalize(sheet)

	wantCols := []string{"INVOICE", "CUSTOMER", "AMOUNT"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v; want %v", got.Columns, wantCols)
	}

	// Blank row and the TOTAL row are dropped; two data rows remain
	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(got.Rows))
	}
	if got := cellValues(got.Rows[0]); !reflect.DeepEqual(got, []string{"1001", "Acme", "50.00"}) {
		t.Errorf("row 0 = %v", got)
	}
	if got := cellValues(got.Rows[1]); !reflect.DeepEqual(got, []string{"1002", "Globex", "10.00"}) {
		t.Errorf("row 1 = %v", got)
	}
}

func TestNormalizeFirstHeaderWins(t *testing.T) {
	// Second qualifying row has more indicators but the first one is used
	sheet := types.RawSheet{
		row("INVOICE", "CUSTOMER"),
		row("INVOICE", "CUSTOMER", "AMOUNT", "FEE", "CURRENCY"),
		row("1001", "Acme"),
	}

	got := defaultNormalizer().Normalize(sheet)

	wantCols := []string{"INVOICE", "CUSTOMER"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v; want %v", got.Columns, wantCols)
	}
	// The richer header row downstream is still a data row whose first
	// column passes the metadata filter
	if len(got.Rows) != 2 {
		t.Errorf("got %d rows; want 2", len(got.Rows))
	}
}

func TestNormalizeMetadataOnlyFilteredInFirstColumn(t *testing.T) {
	// Metadata text outside the first column does not drop the row once a
	// header was found
	sheet := types.RawSheet{
		row("INVOICE", "CUSTOMER"),
		row("1001", "Report Ltd"),
		row("Summary", "Acme"),
	}

	got := defaultNormalizer().Normalize(sheet)

	if len(got.Rows) != 1 {
		t.Fatalf("got %d rows; want 1", len(got.Rows))
	}
	if got.Rows[0][0].String() != "1001" {
		t.Errorf("surviving row = %v", cellValues(got.Rows[0]))
	}
}

func TestNormalizeHeaderPlaceholderColumns(t *testing.T) {
	sheet := types.RawSheet{
		{types.TextCell("INVOICE"), types.EmptyCell(), types.TextCell("AMOUNT")},
		row("1001", "x", "50.00"),
	}

	got := defaultNormalizer().Normalize(sheet)

	wantCols := []string{"INVOICE", "column_1", "AMOUNT"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v; want %v", got.Columns, wantCols)
	}
}

func TestNormalizeHeaderOnlySheet(t *testing.T) {
	sheet := types.RawSheet{row("INVOICE", "CUSTOMER", "AMOUNT")}

	got := defaultNormalizer().Normalize(sheet)

	if len(got.Columns) != 3 {
		t.Errorf("got %d columns; want 3", len(got.Columns))
	}
	if len(got.Rows) != 0 {
		t.Errorf("got %d rows; want 0", len(got.Rows))
	}
}

func TestNormalizeRowsPaddedToColumns(t *testing.T) {
	sheet := types.RawSheet{
		row("INVOICE", "CUSTOMER", "AMOUNT"),
		row("1001"),
		row("1002", "Globex", "10.00", "extra"),
	}

	got := defaultNormalizer().Normalize(sheet)

	for i, r := range got.Rows {
		if len(r) != len(got.Columns) {
			t.Errorf("row %d has %d cells; want %d", i, len(r), len(got.Columns))
		}
	}
	if got.Rows[0][1].Kind != types.CellEmpty {
		t.Errorf("short row not padded with empty cells")
	}
	if len(got.Rows[1]) != 3 {
		t.Errorf("long row not truncated")
	}
}

func TestNormalizeNoHeaderGeneralCleaning(t *testing.T) {
	sheet := types.RawSheet{
		row("Monthly Billing Summary", "", "", "", ""),
		row("a", "b", "c", "d", "e"),
		row("x", "Generated on 2024-01-31", "", "", ""),
		row("y", "", "", "", ""),
	}

	got := defaultNormalizer().Normalize(sheet)

	wantCols := []string{"column_0", "column_1", "column_2", "column_3", "column_4"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v; want %v", got.Columns, wantCols)
	}

	// Title row and "Generated on" row removed by the full-row scan; the
	// one-of-five row survives at exactly the 20% boundary
	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(got.Rows))
	}
	if got.Rows[0][0].String() != "a" || got.Rows[1][0].String() != "y" {
		t.Errorf("unexpected surviving rows: %v, %v",
			cellValues(got.Rows[0]), cellValues(got.Rows[1]))
	}
}

func TestNormalizeSparsityBoundary(t *testing.T) {
	tests := []struct {
		name     string
		nonEmpty int
		width    int
		kept     bool
	}{
		{"Exactly at threshold is kept", 1, 5, true},
		{"Below threshold is dropped", 1, 10, false},
		{"Above threshold is kept", 3, 10, true},
		{"Fully empty is dropped", 0, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := make(types.RawRow, tt.width)
			for i := range r {
				if i < tt.nonEmpty {
					r[i] = types.TextCell("x")
				} else {
					r[i] = types.EmptyCell()
				}
			}
			// A full row pins the table width without tripping any filter
			full := make(types.RawRow, tt.width)
			for i := range full {
				full[i] = types.TextCell("v")
			}

			got := defaultNormalizer().Normalize(types.RawSheet{full, r})

			want := 1
			if tt.kept {
				want = 2
			}
			if len(got.Rows) != want {
				t.Errorf("got %d rows; want %d", len(got.Rows), want)
			}
		})
	}
}

func TestNormalizeCustomThreshold(t *testing.T) {
	n := NewNormalizer(DefaultVocab(), 0.5)

	full := row("a", "b", "c", "d")
	half := types.RawRow{types.TextCell("x"), types.TextCell("y"), types.EmptyCell(), types.EmptyCell()}
	quarter := types.RawRow{types.TextCell("x"), types.EmptyCell(), types.EmptyCell(), types.EmptyCell()}

	got := n.Normalize(types.RawSheet{full, half, quarter})

	if len(got.Rows) != 2 {
		t.Errorf("got %d rows; want 2 (quarter-full row dropped at 0.5)", len(got.Rows))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	sheet := types.RawSheet{
		row("Monthly Billing Summary"),
		row("INVOICE", "CUSTOMER", "AMOUNT"),
		row("1001", "Acme", "50.00"),
	}

	n := defaultNormalizer()
	first := n.Normalize(sheet)
	second := n.Normalize(sheet)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize() is not deterministic:\n%v\n%v", first, second)
	}
}
