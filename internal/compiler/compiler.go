// Package compiler orchestrates a batch run: scan the ready folder, read
// and normalize each spreadsheet, union the survivors, write the combined
// CSV, and archive the consumed inputs.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sheetstack/internal/config"
	"sheetstack/internal/logger"
	"sheetstack/internal/tabular"
	"sheetstack/internal/types"
)

// supportedExtensions are the input formats picked up from the ready folder.
var supportedExtensions = []string{".xlsx", ".csv"}

// Progress reports per-file advancement to an observer such as the TUI.
type Progress struct {
	File  string
	Index int // 1-based position within the batch
	Total int
}

// Compiler runs batches against a fixed directory layout.
type Compiler struct {
	cfg  config.Config
	norm tabular.Normalizer
	now  func() time.Time
}

// New builds a Compiler from resolved configuration.
func New(cfg config.Config) *Compiler {
	return &Compiler{
		cfg:  cfg,
		norm: tabular.NewNormalizer(cfg.Vocab(), cfg.SparsityThreshold),
		now:  time.Now,
	}
}

// ListInputs returns the spreadsheet files in dir with supported extensions,
// sorted by name for a reproducible batch order.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan ready folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, supported := range supportedExtensions {
			if ext == supported {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run executes one batch. Per-file read failures and empty sheets are
// logged and skipped; they never abort the run. When nothing survives, Run
// returns tabular.ErrEmptyBatch and neither writes output nor moves files.
// Inputs are archived only after the output file is fully written.
//
// progress may be nil; sends are non-blocking so a slow observer cannot
// stall the batch.
func (c *Compiler) Run(ctx context.Context, progress chan<- Progress) (*types.CompileResult, error) {
	for _, dir := range []string{c.cfg.ReadyDir, c.cfg.DoneDir, c.cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	files, err := ListInputs(c.cfg.ReadyDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Info("no spreadsheet files found", "dir", c.cfg.ReadyDir)
		return nil, fmt.Errorf("%s: %w", c.cfg.ReadyDir, tabular.ErrEmptyBatch)
	}
	logger.Info("starting batch", "files", len(files))

	var (
		tables    []tabular.SourceTable
		processed []string
		skipped   []string
	)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report(progress, Progress{File: filepath.Base(file), Index: i + 1, Total: len(files)})

		sheet, err := ReadSheet(file)
		if err != nil {
			logger.Warn("skipping unreadable file", "file", file, "error", err)
			skipped = append(skipped, file)
			continue
		}

		table := c.norm.Normalize(sheet)
		if len(table.Rows) == 0 {
			logger.Info("no data rows after cleaning, skipping", "file", file)
			skipped = append(skipped, file)
			continue
		}

		logger.Debug("cleaned sheet", "file", file, "rows", len(table.Rows), "columns", len(table.Columns))
		tables = append(tables, tabular.SourceTable{ID: filepath.Base(file), Table: table})
		processed = append(processed, file)
	}

	merged, err := tabular.Merge(tables)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(c.cfg.OutputDir, OutputName(c.cfg.OutputName, c.now()))
	if err := WriteCSV(merged, outPath); err != nil {
		return nil, err
	}
	logger.Info("combined data written",
		"output", outPath, "rows", len(merged.Rows), "columns", len(merged.Columns))

	// Archive only what contributed to the written output. A failed move
	// leaves the input in place for the next run; the output stands.
	for _, file := range processed {
		dest := filepath.Join(c.cfg.DoneDir, filepath.Base(file))
		if err := moveFile(file, dest); err != nil {
			logger.Error("archive move failed", "file", file, "error", err)
			continue
		}
		logger.Debug("archived input", "file", file, "dest", dest)
	}

	return &types.CompileResult{
		OutputFile: outPath,
		Processed:  processed,
		Skipped:    skipped,
		Columns:    merged.Columns,
		RowsOut:    len(merged.Rows),
	}, nil
}

func report(ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// IsEmptyBatch reports whether err means the run had nothing to process,
// which callers surface as a no-op rather than a failure.
func IsEmptyBatch(err error) bool {
	return errors.Is(err, tabular.ErrEmptyBatch)
}
