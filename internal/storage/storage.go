// Package storage defines the backend-agnostic repository contract and its
// two adapters: a transactional SQLite engine and a flat per-collection
// in-memory store. Both answer every contract call identically, including
// uniqueness violations and cascade deletes.
package storage

import (
	"context"
	"time"
)

// Row is one stored record. Canonical value types are nil, string, int64 and
// float64; booleans are stored as int64 0/1 and timestamps as RFC 3339 UTC
// strings, so that both backends hold byte-identical values.
type Row map[string]any

// Conditions is an equality-only predicate map, AND-combined. Values may be
// plain values or the typed operators built by GreaterEq, LessEq, NotEq,
// Like and In; parameters are always bound positionally, never interpolated.
type Conditions map[string]any

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Query bundles the options of a FindAll call.
type Query struct {
	Conditions Conditions
	OrderBy    []Order
	Limit      int
	Offset     int
}

// Backend is the generic repository contract. Each call operates against one
// table name from the schema registry.
type Backend interface {
	FindByID(ctx context.Context, table, id string) (Row, error)
	FindAll(ctx context.Context, table string, q Query) ([]Row, error)
	FindFirst(ctx context.Context, table string, conds Conditions) (Row, error)
	Count(ctx context.Context, table string, conds Conditions) (int, error)
	Exists(ctx context.Context, table, id string) (bool, error)
	Create(ctx context.Context, table string, data Row) (string, error)
	Update(ctx context.Context, table, id string, data Row) (bool, error)
	Delete(ctx context.Context, table, id string) (bool, error)
	DeleteWhere(ctx context.Context, table string, conds Conditions) (int, error)

	// RawQuery and RawExec are the escape hatch for reports the structured
	// surface cannot express. Only the relational backend implements them;
	// the memory backend returns ErrRawUnsupported.
	RawQuery(ctx context.Context, query string, args ...any) ([]Row, error)
	RawExec(ctx context.Context, query string, args ...any) (int64, error)

	// Transaction runs fn against a transaction-scoped backend. A non-nil
	// error from fn rolls back every statement; partial writes are never
	// visible to concurrent readers.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Backend) error) error

	Close() error
}

type opKind int

const (
	opGreaterEq opKind = iota
	opLessEq
	opNotEq
	opLike
	opIn
)

// Op is a typed non-equality condition value.
type Op struct {
	kind   opKind
	value  any
	values []any
}

// GreaterEq matches rows whose column is >= v.
func GreaterEq(v any) Op { return Op{kind: opGreaterEq, value: v} }

// LessEq matches rows whose column is <= v.
func LessEq(v any) Op { return Op{kind: opLessEq, value: v} }

// NotEq matches rows whose column differs from v.
func NotEq(v any) Op { return Op{kind: opNotEq, value: v} }

// Like matches rows whose column matches a SQL LIKE pattern (% and _).
func Like(pattern string) Op { return Op{kind: opLike, value: pattern} }

// In matches rows whose column equals any of vs.
func In(vs ...any) Op { return Op{kind: opIn, values: vs} }

// TimeFormat is the canonical timestamp representation: RFC 3339 UTC with
// millisecond precision, matching the schema's trigger expression.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in the canonical representation.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Now returns the current time in the canonical representation.
func Now() string {
	return FormatTime(time.Now())
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
