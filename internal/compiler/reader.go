package compiler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetstack/internal/types"
)

// ErrUnreadable marks files that could not be parsed as a spreadsheet.
// Callers skip such files and continue the batch.
var ErrUnreadable = errors.New("unreadable spreadsheet")

// dateLayouts are the formatted-date shapes excelize commonly emits, plus
// ISO dates as they appear in CSV exports.
var dateLayouts = []string{
	types.DateLayout,
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
}

// ReadSheet reads one input file into a raw sheet. Only the first worksheet
// of an XLSX workbook is read.
func ReadSheet(path string) (types.RawSheet, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnreadable, ext)
	}
}

func readXLSX(path string) (types.RawSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}

	sheet := make(types.RawSheet, len(rows))
	for i, row := range rows {
		raw := make(types.RawRow, len(row))
		for j, value := range row {
			raw[j] = parseCell(value)
		}
		sheet[i] = raw
	}
	return sheet, nil
}

func readCSV(path string) (types.RawSheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}

	sheet := make(types.RawSheet, len(records))
	for i, record := range records {
		raw := make(types.RawRow, len(record))
		for j, value := range record {
			// CSV carries no cell types; preserve the text verbatim.
			if strings.TrimSpace(value) == "" {
				raw[j] = types.EmptyCell()
			} else {
				raw[j] = types.TextCell(value)
			}
		}
		sheet[i] = raw
	}
	return sheet, nil
}

// parseCell types a formatted XLSX cell value: empty, number, date, or text.
func parseCell(value string) types.Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return types.EmptyCell()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return types.NumberCell(n)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return types.DateCell(t)
		}
	}
	return types.TextCell(value)
}
