package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"collab-server/internal/observability"
	"collab-server/internal/schema"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// SQLite is the transactional relational backend. One instance holds the
// process-lifetime connection handle; transaction-scoped copies share it.
type SQLite struct {
	db     *sqlx.DB
	ext    sqlx.ExtContext
	inTx   bool
	logger *observability.Logger
}

// OpenSQLite opens (or creates) the database file and applies the schema
// registry's DDL. WAL mode and the busy timeout follow the usual embedded
// deployment settings; foreign keys must be switched on per connection.
func OpenSQLite(path string, logger *observability.Logger) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	for _, stmt := range schema.DDL() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: applying schema: %v", ErrBackendUnavailable, err)
		}
	}

	return &SQLite{db: db, ext: db, logger: logger}, nil
}

func (s *SQLite) FindByID(ctx context.Context, table, id string) (Row, error) {
	if _, err := schema.Lookup(table); err != nil {
		return nil, err
	}
	rows, err := s.queryRows(ctx, fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", table, schema.ColID), id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (s *SQLite) FindAll(ctx context.Context, table string, q Query) ([]Row, error) {
	if _, err := schema.Lookup(table); err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + table
	where, args := buildWhere(q.Conditions)
	query += where

	if len(q.OrderBy) > 0 {
		var terms []string
		for _, o := range q.OrderBy {
			term := o.Column
			if o.Desc {
				term += " DESC"
			}
			terms = append(terms, term)
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	} else if q.Offset > 0 {
		// OFFSET needs a LIMIT clause; -1 is SQLite's unbounded form.
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", q.Offset)
	}

	return s.queryRows(ctx, query, args...)
}

func (s *SQLite) FindFirst(ctx context.Context, table string, conds Conditions) (Row, error) {
	rows, err := s.FindAll(ctx, table, Query{Conditions: conds, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (s *SQLite) Count(ctx context.Context, table string, conds Conditions) (int, error) {
	if _, err := schema.Lookup(table); err != nil {
		return 0, err
	}
	where, args := buildWhere(conds)
	var count int
	err := sqlx.GetContext(ctx, s.ext, &count, "SELECT COUNT(*) FROM "+table+where, args...)
	if err != nil {
		return 0, translateSQLiteError(table, err)
	}
	return count, nil
}

func (s *SQLite) Exists(ctx context.Context, table, id string) (bool, error) {
	_, err := s.FindByID(ctx, table, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLite) Create(ctx context.Context, table string, data Row) (string, error) {
	if _, err := schema.Lookup(table); err != nil {
		return "", err
	}

	row := stampNew(data)
	keys := sortedKeys(row)
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = row[k]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(keys, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", "))

	if _, err := s.ext.ExecContext(ctx, query, args...); err != nil {
		return "", translateSQLiteError(table, err)
	}
	return row[schema.ColID].(string), nil
}

func (s *SQLite) Update(ctx context.Context, table, id string, data Row) (bool, error) {
	if _, err := schema.Lookup(table); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return s.Exists(ctx, table, id)
	}

	row := data.Clone()
	delete(row, schema.ColID)
	row[schema.ColUpdatedAt] = Now()

	keys := sortedKeys(row)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = k + " = ?"
		args = append(args, row[k])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(sets, ", "), schema.ColID)
	res, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return false, translateSQLiteError(table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQLite) Delete(ctx context.Context, table, id string) (bool, error) {
	if _, err := schema.Lookup(table); err != nil {
		return false, err
	}
	res, err := s.ext.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, schema.ColID), id)
	if err != nil {
		return false, translateSQLiteError(table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQLite) DeleteWhere(ctx context.Context, table string, conds Conditions) (int, error) {
	if _, err := schema.Lookup(table); err != nil {
		return 0, err
	}
	where, args := buildWhere(conds)
	res, err := s.ext.ExecContext(ctx, "DELETE FROM "+table+where, args...)
	if err != nil {
		return 0, translateSQLiteError(table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *SQLite) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	return s.queryRows(ctx, query, args...)
}

func (s *SQLite) RawExec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateSQLiteError("", err)
	}
	return res.RowsAffected()
}

// Transaction starts a transaction and runs fn against a scoped backend.
// Within an existing transaction scope, fn joins that scope; statements in
// one scope execute in issue order and observe each other's effects.
func (s *SQLite) Transaction(ctx context.Context, fn func(ctx context.Context, tx Backend) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	scoped := &SQLite{db: s.db, ext: tx, inTx: true, logger: s.logger}
	if err := fn(ctx, scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error(ctx, "transaction rollback failed", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Close releases the connection handle. Transaction-scoped copies are not
// closable; the root handle is closed exactly once at shutdown.
func (s *SQLite) Close() error {
	if s.inTx {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) queryRows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.ext.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, translateSQLiteError("", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		dest := map[string]any{}
		if err := rows.MapScan(dest); err != nil {
			return nil, err
		}
		out = append(out, normalizeRow(dest))
	}
	return out, rows.Err()
}

// normalizeRow coerces driver values into the canonical row value types.
func normalizeRow(m map[string]any) Row {
	row := make(Row, len(m))
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
			continue
		}
		row[k] = v
	}
	return row
}

// stampNew assigns an id and creation timestamps to a new row if absent.
func stampNew(data Row) Row {
	row := data.Clone()
	if _, ok := row[schema.ColID]; !ok {
		row[schema.ColID] = uuid.New().String()
	}
	now := Now()
	if _, ok := row[schema.ColCreatedAt]; !ok {
		row[schema.ColCreatedAt] = now
	}
	if _, ok := row[schema.ColUpdatedAt]; !ok {
		row[schema.ColUpdatedAt] = now
	}
	return row
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// translateSQLiteError maps driver errors onto the storage error taxonomy so
// both backends surface the same failures.
func translateSQLiteError(table string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &ConflictError{Table: table, Constraint: constraintFromMessage(se.Error())}
		case sqlite3.ErrConstraintForeignKey:
			return &ConflictError{Table: table, Constraint: "foreign key"}
		case sqlite3.ErrConstraintCheck:
			return &ValidationError{Field: constraintFromMessage(se.Error()), Message: "check constraint failed"}
		case sqlite3.ErrConstraintNotNull:
			return &ValidationError{Field: constraintFromMessage(se.Error()), Message: "must not be null"}
		}
	}
	return err
}

// constraintFromMessage extracts the "table.column" tail of messages like
// "UNIQUE constraint failed: users.email".
func constraintFromMessage(msg string) string {
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
