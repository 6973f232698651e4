package storage

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"collab-server/internal/schema"
)

// Memory is the flat per-collection fallback backend. Each table is an
// ordered collection of whole records; every mutating statement builds the
// next collection state and replaces the current one wholesale, so a failed
// statement or transaction leaves nothing behind. Constraints (uniqueness,
// CHECK enumerations, NOT NULL, foreign keys and their delete actions) are
// enforced from the schema registry so answers match the relational backend.
type Memory struct {
	mu    sync.Mutex
	state *memState
}

// NewMemory returns an empty store with one collection per registry table.
func NewMemory() *Memory {
	return &Memory{state: newMemState()}
}

func (m *Memory) FindByID(ctx context.Context, table, id string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.findByID(table, id)
}

func (m *Memory) FindAll(ctx context.Context, table string, q Query) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.findAll(table, q)
}

func (m *Memory) FindFirst(ctx context.Context, table string, conds Conditions) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.findFirst(table, conds)
}

func (m *Memory) Count(ctx context.Context, table string, conds Conditions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.count(table, conds)
}

func (m *Memory) Exists(ctx context.Context, table, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.state.findByID(table, id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Create(ctx context.Context, table string, data Row) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.state.clone()
	id, err := staged.create(table, data)
	if err != nil {
		return "", err
	}
	m.state = staged
	return id, nil
}

func (m *Memory) Update(ctx context.Context, table, id string, data Row) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.state.clone()
	ok, err := staged.update(table, id, data)
	if err != nil {
		return false, err
	}
	m.state = staged
	return ok, nil
}

func (m *Memory) Delete(ctx context.Context, table, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.state.clone()
	ok, err := staged.delete(table, id)
	if err != nil {
		return false, err
	}
	m.state = staged
	return ok, nil
}

func (m *Memory) DeleteWhere(ctx context.Context, table string, conds Conditions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.state.clone()
	n, err := staged.deleteWhere(table, conds)
	if err != nil {
		return 0, err
	}
	m.state = staged
	return n, nil
}

func (m *Memory) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	return nil, ErrRawUnsupported
}

func (m *Memory) RawExec(ctx context.Context, query string, args ...any) (int64, error) {
	return 0, ErrRawUnsupported
}

// Transaction buffers every mutation in a staged copy of the collections and
// swaps it in only if fn succeeds. Any failure leaves all collections at
// their pre-transaction values. The store lock is held for the whole scope,
// so later statements observe earlier ones and nothing interleaves.
func (m *Memory) Transaction(ctx context.Context, fn func(ctx context.Context, tx Backend) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{state: m.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// memTx is a transaction-scoped view over staged collections. The parent
// holds the store lock for the transaction's whole lifetime.
type memTx struct {
	state *memState
}

func (t *memTx) FindByID(ctx context.Context, table, id string) (Row, error) {
	return t.state.findByID(table, id)
}

func (t *memTx) FindAll(ctx context.Context, table string, q Query) ([]Row, error) {
	return t.state.findAll(table, q)
}

func (t *memTx) FindFirst(ctx context.Context, table string, conds Conditions) (Row, error) {
	return t.state.findFirst(table, conds)
}

func (t *memTx) Count(ctx context.Context, table string, conds Conditions) (int, error) {
	return t.state.count(table, conds)
}

func (t *memTx) Exists(ctx context.Context, table, id string) (bool, error) {
	_, err := t.state.findByID(table, id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *memTx) Create(ctx context.Context, table string, data Row) (string, error) {
	staged := t.state.clone()
	id, err := staged.create(table, data)
	if err != nil {
		return "", err
	}
	t.state = staged
	return id, nil
}

func (t *memTx) Update(ctx context.Context, table, id string, data Row) (bool, error) {
	staged := t.state.clone()
	ok, err := staged.update(table, id, data)
	if err != nil {
		return false, err
	}
	t.state = staged
	return ok, nil
}

func (t *memTx) Delete(ctx context.Context, table, id string) (bool, error) {
	staged := t.state.clone()
	ok, err := staged.delete(table, id)
	if err != nil {
		return false, err
	}
	t.state = staged
	return ok, nil
}

func (t *memTx) DeleteWhere(ctx context.Context, table string, conds Conditions) (int, error) {
	staged := t.state.clone()
	n, err := staged.deleteWhere(table, conds)
	if err != nil {
		return 0, err
	}
	t.state = staged
	return n, nil
}

func (t *memTx) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	return nil, ErrRawUnsupported
}

func (t *memTx) RawExec(ctx context.Context, query string, args ...any) (int64, error) {
	return 0, ErrRawUnsupported
}

// Transaction on a scoped backend joins the enclosing scope.
func (t *memTx) Transaction(ctx context.Context, fn func(ctx context.Context, tx Backend) error) error {
	return fn(ctx, t)
}

func (t *memTx) Close() error {
	return nil
}

// memState holds every collection. Methods mutate in place; callers clone
// first and swap on success.
type memState struct {
	data map[string][]Row
}

func newMemState() *memState {
	s := &memState{data: make(map[string][]Row)}
	for _, t := range schema.Tables() {
		s.data[t.Name] = nil
	}
	return s
}

func (s *memState) clone() *memState {
	out := &memState{data: make(map[string][]Row, len(s.data))}
	for table, rows := range s.data {
		copied := make([]Row, len(rows))
		for i, r := range rows {
			copied[i] = r.Clone()
		}
		out.data[table] = copied
	}
	return out
}

func (s *memState) rows(table string) ([]Row, error) {
	if _, err := schema.Lookup(table); err != nil {
		return nil, err
	}
	return s.data[table], nil
}

func (s *memState) findByID(table, id string) (Row, error) {
	rows, err := s.rows(table)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r[schema.ColID] == id {
			return r.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memState) findAll(table string, q Query) ([]Row, error) {
	rows, err := s.rows(table)
	if err != nil {
		return nil, err
	}

	var matched []Row
	for _, r := range rows {
		if matchRow(r, q.Conditions) {
			matched = append(matched, r.Clone())
		}
	}
	sortRows(matched, q.OrderBy)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *memState) findFirst(table string, conds Conditions) (Row, error) {
	rows, err := s.findAll(table, Query{Conditions: conds, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (s *memState) count(table string, conds Conditions) (int, error) {
	rows, err := s.rows(table)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if matchRow(r, conds) {
			n++
		}
	}
	return n, nil
}

func (s *memState) create(table string, data Row) (string, error) {
	tbl, err := schema.Lookup(table)
	if err != nil {
		return "", err
	}

	row := stampNew(data)
	applyDefaults(tbl, row)
	// Materialize omitted nullable columns so stored shapes match SELECT *.
	for _, c := range tbl.Columns {
		if _, ok := row[c.Name]; !ok {
			row[c.Name] = nil
		}
	}

	if err := s.validateRow(tbl, row, ""); err != nil {
		return "", err
	}
	s.data[table] = append(s.data[table], row)
	return row[schema.ColID].(string), nil
}

func (s *memState) update(table, id string, data Row) (bool, error) {
	tbl, err := schema.Lookup(table)
	if err != nil {
		return false, err
	}

	rows := s.data[table]
	for i, r := range rows {
		if r[schema.ColID] != id {
			continue
		}
		merged := r.Clone()
		for k, v := range data {
			if k == schema.ColID {
				continue
			}
			merged[k] = v
		}
		merged[schema.ColUpdatedAt] = Now()
		if err := s.validateRow(tbl, merged, id); err != nil {
			return false, err
		}
		rows[i] = merged
		return true, nil
	}
	return false, nil
}

func (s *memState) delete(table, id string) (bool, error) {
	rows, err := s.rows(table)
	if err != nil {
		return false, err
	}
	for i, r := range rows {
		if r[schema.ColID] == id {
			s.data[table] = append(rows[:i:i], rows[i+1:]...)
			if err := s.applyDeleteActions(table, id); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *memState) deleteWhere(table string, conds Conditions) (int, error) {
	rows, err := s.rows(table)
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, r := range rows {
		if matchRow(r, conds) {
			ids = append(ids, r[schema.ColID].(string))
		}
	}
	for _, id := range ids {
		if _, err := s.delete(table, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// applyDeleteActions walks every foreign key pointing at the deleted row and
// applies its declared ON DELETE action, recursing through cascades.
func (s *memState) applyDeleteActions(table, id string) error {
	for _, child := range schema.Tables() {
		for _, c := range child.Columns {
			if c.References == nil || c.References.Table != table {
				continue
			}
			var referencing []string
			for _, r := range s.data[child.Name] {
				if r[c.Name] == id {
					referencing = append(referencing, r[schema.ColID].(string))
				}
			}
			if len(referencing) == 0 {
				continue
			}
			switch c.References.OnDelete {
			case schema.Cascade:
				for _, childID := range referencing {
					if _, err := s.delete(child.Name, childID); err != nil {
						return err
					}
				}
			case schema.SetNull:
				for _, r := range s.data[child.Name] {
					if r[c.Name] == id {
						r[c.Name] = nil
						r[schema.ColUpdatedAt] = Now()
					}
				}
			default:
				return &ConflictError{Table: child.Name, Constraint: "foreign key"}
			}
		}
	}
	return nil
}

// validateRow enforces the registry's constraints: NOT NULL, CHECK
// enumerations, single-column and composite uniqueness, and foreign keys.
// excludeID skips the row itself during uniqueness scans on update.
func (s *memState) validateRow(tbl schema.Table, row Row, excludeID string) error {
	for name := range row {
		if _, ok := tbl.Column(name); !ok {
			return &ValidationError{Field: tbl.Name + "." + name, Message: "no such column"}
		}
	}

	for _, c := range tbl.Columns {
		v := row[c.Name]
		if v == nil {
			if c.NotNull {
				return &ValidationError{Field: tbl.Name + "." + c.Name, Message: "must not be null"}
			}
			continue
		}
		if len(c.Enum) > 0 {
			sv, _ := v.(string)
			valid := false
			for _, allowed := range c.Enum {
				if sv == allowed {
					valid = true
					break
				}
			}
			if !valid {
				return &ValidationError{Field: tbl.Name + "." + c.Name, Message: "check constraint failed"}
			}
		}
		if c.Unique || c.PrimaryKey {
			for _, other := range s.data[tbl.Name] {
				if other[schema.ColID] == excludeID {
					continue
				}
				if compareValues(other[c.Name], v) == 0 {
					return &ConflictError{Table: tbl.Name, Constraint: tbl.Name + "." + c.Name}
				}
			}
		}
		if c.References != nil {
			parent := s.data[c.References.Table]
			found := false
			for _, p := range parent {
				if compareValues(p[c.References.Column], v) == 0 {
					found = true
					break
				}
			}
			if !found {
				return &ConflictError{Table: tbl.Name, Constraint: "foreign key"}
			}
		}
	}

	for _, unique := range tbl.Uniques {
		for _, other := range s.data[tbl.Name] {
			if other[schema.ColID] == excludeID {
				continue
			}
			same := true
			for _, col := range unique {
				if row[col] == nil || compareValues(other[col], row[col]) != 0 {
					same = false
					break
				}
			}
			if same {
				return &ConflictError{Table: tbl.Name, Constraint: tbl.Name + "." + strings.Join(unique, "+")}
			}
		}
	}
	return nil
}

// applyDefaults fills omitted columns with their declared DEFAULT literal,
// the way the relational engine does on INSERT.
func applyDefaults(tbl schema.Table, row Row) {
	for _, c := range tbl.Columns {
		if c.Default == "" {
			continue
		}
		if _, ok := row[c.Name]; ok {
			continue
		}
		row[c.Name] = parseDefault(c.Default)
	}
}

func parseDefault(literal string) any {
	if strings.HasPrefix(literal, "'") && strings.HasSuffix(literal, "'") {
		return strings.Trim(literal, "'")
	}
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return f
	}
	return literal
}
