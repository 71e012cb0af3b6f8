// Package sheet loads submission spreadsheets into core tables.
//
// Supported inputs are comma-separated (.csv), tab-separated (.tsv, .txt)
// and Excel workbooks (.xlsx). The header is the first non-empty row; fully
// empty rows are skipped; empty cells become missing cells.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/confprogram/internal/core"
)

// Sentinel errors for loading. Their texts are matched by core.MapError.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("empty file")
	ErrTooLarge          = errors.New("file too large")
	ErrSheetNotFound     = errors.New("sheet not found")
)

// ContextCheckInterval is how often (in rows) to check for context cancellation.
var ContextCheckInterval = 100

// Format is a spreadsheet file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
)

// String returns the usual file extension of the format, without the dot.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from a file name's extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab", ".txt":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatUnknown
	}
}

// Options tune loading.
type Options struct {
	// Sheet selects the workbook sheet for .xlsx input. Empty means the first sheet.
	Sheet string

	// MaxBytes caps the raw input size. Zero means no limit.
	MaxBytes int64
}

// Load opens and reads the spreadsheet at path.
func Load(ctx context.Context, path string, opts Options) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	return Read(ctx, f, filepath.Base(path), opts)
}

// Read parses a spreadsheet from r. name is only used to pick the format.
func Read(ctx context.Context, r io.Reader, name string, opts Options) (*core.Table, error) {
	var (
		records [][]string
		err     error
	)

	switch format := DetectFormat(name); format {
	case FormatCSV:
		records, err = readDelimited(ctx, Wrap(r, opts.MaxBytes), ',')
	case FormatTSV:
		records, err = readDelimited(ctx, Wrap(r, opts.MaxBytes), '\t')
	case FormatXLSX:
		records, err = readWorkbook(NewLimitReader(r, opts.MaxBytes), opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	return buildTable(ctx, records)
}

// buildTable turns raw records into a table. The first non-empty record is
// the header.
func buildTable(ctx context.Context, records [][]string) (*core.Table, error) {
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}

	table := core.NewTable(records[headerIdx])
	for i, rec := range records[headerIdx+1:] {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("load cancelled at row %d: %w", headerIdx+i+2, err)
			}
		}
		if isEmptyRecord(rec) {
			continue
		}
		table.AddRecord(rec)
	}
	return table, nil
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
