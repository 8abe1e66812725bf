package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// ReadFirstTable reads every row of the first user table in the database
// at path. The file is opened read-only.
func ReadFirstTable(ctx context.Context, path string) (*dataset.Table, error) {
	const op = "read table"

	dsn, err := readOnlyURI(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY rowid LIMIT 1`).Scan(&name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.PathError(op, domain.KindNoTablesFound, path, nil)
		case isNotADatabase(err):
			return nil, &domain.OpError{Op: op, Kind: domain.KindUnreadableTable, Path: path, Reason: "not a SQLite database"}
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	cells := make([][]dataset.Cell, len(names))
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}
		for i, v := range values {
			cells[i] = append(cells[i], cellOf(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", name, err)
	}

	cols := make([]dataset.Column, len(names))
	for i, n := range names {
		cols[i] = dataset.NewColumn(n, cells[i])
	}
	return dataset.New(cols...)
}

// readOnlyURI builds a read-only SQLite file URI for path with the path
// percent-escaped, so '?', '#' and '%' in file names stay part of the path.
func readOnlyURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String(), nil
}

func cellOf(v any) dataset.Cell {
	switch x := v.(type) {
	case nil:
		return dataset.Missing()
	case int64:
		return dataset.Number(float64(x))
	case float64:
		return dataset.Float(x)
	case bool:
		if x {
			return dataset.Number(1)
		}
		return dataset.Number(0)
	case []byte:
		return dataset.Text(string(x))
	case string:
		return dataset.Text(x)
	case time.Time:
		return dataset.Text(x.Format(time.RFC3339))
	default:
		return dataset.Text(fmt.Sprint(x))
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
