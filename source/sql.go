package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwielstra/vizplugins/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "modernc.org/sqlite"
)

// LoadSQLite runs query against the sqlite database at path.
func LoadSQLite(ctx context.Context, path, query string) (domain.Result, error) {
	if query == "" {
		return domain.Result{}, ErrMissingQuery
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadSQLite(): error opening %s: %w", path, err)
	}
	defer db.Close()

	return Query(ctx, db, query)
}

// Query runs query on db and collects the rows.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (domain.Result, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Result{}, fmt.Errorf("Query(): error executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.Result{}, fmt.Errorf("Query(): error reading columns: %w", err)
	}

	res := domain.Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return res, fmt.Errorf("Query(): error scanning row: %w", err)
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		res.Rows = append(res.Rows, row)
	}

	return res, rows.Err()
}

// LoadPostgres runs query against the PostgreSQL database at connString.
func LoadPostgres(ctx context.Context, connString, query string) (domain.Result, error) {
	if query == "" {
		return domain.Result{}, ErrMissingQuery
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadPostgres(): unable to parse database config: %w", err)
	}
	config.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadPostgres(): unable to create connection pool: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadPostgres(): error executing query: %w", err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	res := domain.Result{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return res, fmt.Errorf("LoadPostgres(): failed to scan row: %w", err)
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			row[col] = normalizePostgres(values[i])
		}
		res.Rows = append(res.Rows, row)
	}

	return res, rows.Err()
}

// normalizePostgres also flattens the pgtype values pgx returns for types
// without a native Go equivalent.
func normalizePostgres(v any) any {
	if n, ok := v.(pgtype.Numeric); ok {
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return normalize(v)
}
