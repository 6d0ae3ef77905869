package compiler

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"sheetstack/internal/types"
)

func writeCSVFixture(t *testing.T, path string, rows [][]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadSheetCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	writeCSVFixture(t, path, [][]string{
		{"INVOICE", "CUSTOMER", "AMOUNT"},
		{"1001", "Acme", "50.00"},
		{"1002", "", "10.00"},
	})

	sheet, err := ReadSheet(path)
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}

	if len(sheet) != 3 {
		t.Fatalf("got %d rows; want 3", len(sheet))
	}
	// CSV values stay text, so "50.00" survives verbatim
	if got := sheet[1][2]; got.Kind != types.CellText || got.Text != "50.00" {
		t.Errorf("cell = %+v; want text 50.00", got)
	}
	if !sheet[2][1].IsEmpty() {
		t.Errorf("blank CSV field should read as an empty cell")
	}
}

func TestReadSheetXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	if err := f.SetCellValue(sheetName, "A1", "INVOICE"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheetName, "B1", "AMOUNT"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheetName, "A2", "1001"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheetName, "B2", 42.5); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sheet, err := ReadSheet(path)
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}

	if len(sheet) != 2 {
		t.Fatalf("got %d rows; want 2", len(sheet))
	}
	if got := sheet[0][0]; got.Kind != types.CellText || got.Text != "INVOICE" {
		t.Errorf("header cell = %+v; want text INVOICE", got)
	}
	if got := sheet[1][1]; got.Kind != types.CellNumber || got.Number != 42.5 {
		t.Errorf("numeric cell = %+v; want number 42.5", got)
	}
}

func TestReadSheetUnreadable(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a spreadsheet"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"Corrupt xlsx", corrupt},
		{"Unsupported extension", filepath.Join(dir, "input.txt")},
		{"Missing file", filepath.Join(dir, "missing.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSheet(tt.path)
			if !errors.Is(err, ErrUnreadable) {
				t.Errorf("ReadSheet() error = %v; want ErrUnreadable", err)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  types.CellKind
	}{
		{"Blank", "", types.CellEmpty},
		{"Whitespace only", "   ", types.CellEmpty},
		{"Integer", "1001", types.CellNumber},
		{"Decimal", "50.25", types.CellNumber},
		{"ISO date", "2024-01-31", types.CellDate},
		{"Excel short date", "01-31-24", types.CellDate},
		{"Plain text", "Acme Corp", types.CellText},
		{"Mixed", "50 USD", types.CellText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCell(tt.input)
			if got.Kind != tt.kind {
				t.Errorf("parseCell(%q).Kind = %v; want %v", tt.input, got.Kind, tt.kind)
			}
		})
	}
}
