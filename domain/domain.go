package domain

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Row is one record of a query result, keyed by column or metric name.
type Row map[string]any

// Result is a query result as handed over by the host. Columns is the
// column order reported by the source, nil when unknown.
type Result struct {
	Columns []string `json:"columns,omitempty"`
	Rows    []Row    `json:"rows"`
}

// NameValue is a single pie slice.
type NameValue struct {
	Name  string
	Value any
}

// Snapshot is a rendered spec as persisted by the sqlite package.
type Snapshot struct {
	Timestamp time.Time
	Name      string
	Plugin    string
	Options   string
	Spec      string
}

// Dimensions returns the union of keys observed across all rows. Declared
// columns come first in their declared order, the remaining keys follow
// sorted so the result is stable regardless of map iteration order.
func (r Result) Dimensions() []string {
	seen := make(map[string]bool)
	for _, row := range r.Rows {
		for k := range row {
			seen[k] = true
		}
	}

	dims := make([]string, 0, len(seen))
	for _, c := range r.Columns {
		if seen[c] && !slices.Contains(dims, c) {
			dims = append(dims, c)
		}
	}

	var rest []string
	for k := range seen {
		if !slices.Contains(dims, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)

	return append(dims, rest...)
}

// Metrics returns the dimensions minus the category column.
func (r Result) Metrics(category string) []string {
	return slices.DeleteFunc(r.Dimensions(), func(d string) bool {
		return d == category
	})
}

// Float converts a scalar to a float64. Numeric strings count as numbers;
// nil, bools and anything else report false.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseScalar turns a textual cell (CSV, xlsx) into the scalar it most
// likely represents. Empty cells become nil.
func ParseScalar(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}
