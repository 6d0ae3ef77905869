package compiler

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"sheetstack/internal/types"
)

const outputPrefix = "combined_data"

// OutputName resolves the output filename: a timestamp-derived default when
// none is supplied, and a .csv suffix appended when missing.
func OutputName(name string, now time.Time) string {
	if name == "" {
		return fmt.Sprintf("%s_%s.csv", outputPrefix, now.Format("20060102_150405"))
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name
}

// WriteCSV serializes a merged table to path: one header line, rows in
// table order, standard CSV quoting, UTF-8.
func WriteCSV(table types.MergedTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = row[i].String()
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
