// Package source loads query results from files and databases for the CLI.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwielstra/vizplugins/domain"
)

var (
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrMissingQuery      = errors.New("database sources need a query")
)

type Options struct {
	// Query is run against database sources.
	Query string

	// Sheet selects the xlsx sheet, defaults to the first one.
	Sheet string
}

// Load reads the rows at location. The kind of source follows from the
// location: postgres:// and postgresql:// URLs, sqlite:// URLs or .db
// files, and .json, .csv or .xlsx files.
func Load(ctx context.Context, location string, o Options) (domain.Result, error) {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return LoadPostgres(ctx, location, o.Query)
	case strings.HasPrefix(location, "sqlite://"):
		return LoadSQLite(ctx, strings.TrimPrefix(location, "sqlite://"), o.Query)
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite":
		return LoadSQLite(ctx, location, o.Query)
	case ".json":
		return LoadJSON(location)
	case ".csv":
		return LoadCSV(location)
	case ".xlsx":
		return LoadXLSX(location, o.Sheet)
	default:
		return domain.Result{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, location)
	}
}

// normalize converts driver values into the scalars rows carry.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
