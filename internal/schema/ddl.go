package schema

import (
	"fmt"
	"strings"
)

// timestampExpr yields an RFC 3339 UTC timestamp with millisecond precision,
// matching the representation the entity mappers write.
const timestampExpr = "(strftime('%Y-%m-%dT%H:%M:%fZ','now'))"

// DDL returns every statement needed to build the relational schema from
// scratch: tables first, then indexes, then the updated_at triggers.
func DDL() []string {
	var stmts []string
	for _, t := range Tables() {
		stmts = append(stmts, CreateTableSQL(t))
	}
	for _, t := range Tables() {
		stmts = append(stmts, CreateIndexSQL(t)...)
	}
	for _, t := range Tables() {
		stmts = append(stmts, UpdatedAtTriggerSQL(t))
	}
	return stmts
}

// CreateTableSQL renders the CREATE TABLE statement for one table.
func CreateTableSQL(t Table) string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, columnSQL(c))
	}
	for _, u := range t.Uniques {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(u, ", ")))
	}
	for _, c := range t.Columns {
		if c.References == nil {
			continue
		}
		fk := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", c.Name, c.References.Table, c.References.Column)
		if c.References.OnDelete != "" && c.References.OnDelete != NoAction {
			fk += " ON DELETE " + string(c.References.OnDelete)
		}
		defs = append(defs, fk)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

func columnSQL(c Column) string {
	sqlType := string(c.Type)
	switch c.Type {
	case TypeJSON, TypeTimestamp:
		sqlType = "TEXT"
	case TypeBoolean:
		sqlType = "INTEGER"
	}

	parts := []string{c.Name, sqlType}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.NotNull && !c.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	if c.Unique {
		parts = append(parts, "UNIQUE")
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	if len(c.Enum) > 0 {
		quoted := make([]string, len(c.Enum))
		for i, v := range c.Enum {
			quoted[i] = "'" + v + "'"
		}
		parts = append(parts, fmt.Sprintf("CHECK (%s IN (%s))", c.Name, strings.Join(quoted, ", ")))
	}
	return strings.Join(parts, " ")
}

// CreateIndexSQL renders the CREATE INDEX statements for one table.
func CreateIndexSQL(t Table) []string {
	var stmts []string
	for _, idx := range t.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf(
			"CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, idx.Name, t.Name, strings.Join(idx.Columns, ", ")))
	}
	return stmts
}

// UpdatedAtTriggerSQL renders the trigger that stamps updated_at on every
// row mutation, covering writes that bypass the repository layer.
func UpdatedAtTriggerSQL(t Table) string {
	return fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_%s_updated_at
AFTER UPDATE ON %s
FOR EACH ROW
BEGIN
	UPDATE %s SET %s = %s WHERE %s = OLD.%s;
END`, t.Name, t.Name, t.Name, ColUpdatedAt, timestampExpr, ColID, ColID)
}
