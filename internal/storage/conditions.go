package storage

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// buildWhere renders a Conditions map as a WHERE clause with positional
// placeholders. Keys are sorted so the generated SQL is deterministic.
func buildWhere(conds Conditions) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clauses []string
	var args []any
	for _, k := range keys {
		switch v := conds[k].(type) {
		case Op:
			switch v.kind {
			case opGreaterEq:
				clauses = append(clauses, k+" >= ?")
				args = append(args, v.value)
			case opLessEq:
				clauses = append(clauses, k+" <= ?")
				args = append(args, v.value)
			case opNotEq:
				clauses = append(clauses, k+" != ?")
				args = append(args, v.value)
			case opLike:
				clauses = append(clauses, k+" LIKE ?")
				args = append(args, v.value)
			case opIn:
				if len(v.values) == 0 {
					// IN () is a syntax error; an empty set matches nothing.
					clauses = append(clauses, "1 = 0")
					break
				}
				placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(v.values)), ", ")
				clauses = append(clauses, fmt.Sprintf("%s IN (%s)", k, placeholders))
				args = append(args, v.values...)
			}
		case nil:
			clauses = append(clauses, k+" IS NULL")
		default:
			clauses = append(clauses, k+" = ?")
			args = append(args, v)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// matchRow reports whether a row satisfies every condition. The semantics
// mirror what SQLite answers for the clause buildWhere renders.
func matchRow(row Row, conds Conditions) bool {
	for k, cond := range conds {
		got, ok := row[k]
		switch v := cond.(type) {
		case Op:
			if !ok || got == nil {
				return false
			}
			switch v.kind {
			case opGreaterEq:
				if compareValues(got, v.value) < 0 {
					return false
				}
			case opLessEq:
				if compareValues(got, v.value) > 0 {
					return false
				}
			case opNotEq:
				if compareValues(got, v.value) == 0 {
					return false
				}
			case opLike:
				s, isStr := got.(string)
				pattern, _ := v.value.(string)
				if !isStr || !likeMatch(s, pattern) {
					return false
				}
			case opIn:
				found := false
				for _, candidate := range v.values {
					if compareValues(got, candidate) == 0 {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
		case nil:
			if ok && got != nil {
				return false
			}
		default:
			if !ok || got == nil || compareValues(got, v) != 0 {
				return false
			}
		}
	}
	return true
}

// compareValues orders two canonical row values the way SQLite orders them:
// numbers numerically (integers and reals compare across types), strings
// lexically, NULL before everything else.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	an, aNum := toFloat(a)
	bn, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	return strings.Compare(as, bs)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// likeMatch evaluates a SQL LIKE pattern against s. SQLite's LIKE is
// case-insensitive for ASCII, and so is this.
func likeMatch(s, pattern string) bool {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// sortRows orders rows in place by the given ORDER BY terms.
func sortRows(rows []Row, orderBy []Order) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orderBy {
			c := compareValues(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
