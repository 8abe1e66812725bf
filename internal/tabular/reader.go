// Package tabular resolves dataset files to in-memory tables by suffix.
package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/repository"
	"github.com/rpggio/trendify/internal/sqlite"
)

const op = "read table"

var errEmpty = errors.New("no header or data rows")

// Format is a dataset file type, keyed by lower-cased suffix.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatXLS    Format = "xls"
	FormatDB     Format = "db"
	FormatSQLite Format = "sqlite"
)

type readFunc func(ctx context.Context, path string) (*dataset.Table, error)

// Reader dispatches on file suffix.
type Reader struct {
	readers map[Format]readFunc
	logger  *slog.Logger
}

var _ repository.TableReader = (*Reader)(nil)

// NewReader creates a reader for every supported format.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reader{
		readers: map[Format]readFunc{
			FormatCSV:    func(_ context.Context, p string) (*dataset.Table, error) { return readCSV(p) },
			FormatXLSX:   func(_ context.Context, p string) (*dataset.Table, error) { return readXLSX(p) },
			FormatXLS:    func(_ context.Context, p string) (*dataset.Table, error) { return readXLS(p) },
			FormatDB:     sqlite.ReadFirstTable,
			FormatSQLite: sqlite.ReadFirstTable,
		},
		logger: logger,
	}
}

// FormatOf returns the format for path, or false for an unknown or
// missing suffix.
func FormatOf(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch f := Format(ext); f {
	case FormatCSV, FormatXLSX, FormatXLS, FormatDB, FormatSQLite:
		return f, true
	}
	return "", false
}

// Read loads path into a table. The suffix is checked before the file is
// touched.
func (r *Reader) Read(ctx context.Context, path string) (*dataset.Table, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &domain.OpError{
			Op:     op,
			Kind:   domain.KindUnrecognizedFormat,
			Path:   path,
			Reason: "expected .csv, .xlsx, .xls, .db or .sqlite",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.PathError(op, domain.KindFileNotFound, path, nil)
		}
		return nil, domain.PathError(op, domain.KindUnreadableTable, path, err)
	}
	if info.IsDir() {
		return nil, &domain.OpError{Op: op, Kind: domain.KindUnreadableTable, Path: path, Reason: "path is a directory"}
	}

	table, err := r.readers[format](ctx, path)
	if err != nil {
		var opErr *domain.OpError
		switch {
		case errors.As(err, &opErr):
			if opErr.Path == "" {
				opErr.Path = path
			}
			return nil, opErr
		case errors.Is(err, errEmpty):
			return nil, domain.PathError(op, domain.KindEmptyTable, path, nil)
		default:
			return nil, domain.PathError(op, domain.KindUnreadableTable, path, err)
		}
	}
	if table.NumColumns() == 0 || table.NumRows() == 0 {
		return nil, &domain.OpError{
			Op:     op,
			Kind:   domain.KindEmptyTable,
			Path:   path,
			Reason: fmt.Sprintf("%d columns, %d rows", table.NumColumns(), table.NumRows()),
		}
	}

	r.logger.Debug("table read", "path", path, "format", format, "rows", table.NumRows(), "columns", table.NumColumns())
	return table, nil
}
