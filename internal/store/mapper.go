package store

import (
	"encoding/json"
	"fmt"
	"time"

	"collab-server/internal/storage"
)

// Shared mapper helpers. Per-aggregate xxxFromRow functions live next to
// their repository; these cover the primitives every mapping needs:
// timestamp normalization, nullable columns and JSON-encoded nested
// structures. All of them are pure; mapping a domain value to a row and back
// reproduces the original semantic value.

func rowString(r storage.Row, col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

func rowStringPtr(r storage.Row, col string) *string {
	if s, ok := r[col].(string); ok {
		return &s
	}
	return nil
}

func rowInt(r storage.Row, col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func rowFloat(r storage.Row, col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func rowFloatPtr(r storage.Row, col string) *float64 {
	if r[col] == nil {
		return nil
	}
	f := rowFloat(r, col)
	return &f
}

func rowBool(r storage.Row, col string) bool {
	return rowInt(r, col) != 0
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func rowTime(r storage.Row, col string) time.Time {
	s, ok := r[col].(string)
	if !ok {
		return time.Time{}
	}
	if t, err := time.Parse(storage.TimeFormat, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func rowTimePtr(r storage.Row, col string) *time.Time {
	if r[col] == nil {
		return nil
	}
	t := rowTime(r, col)
	return &t
}

func strPtrValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtrValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// encodeJSONText serializes a nested structure into a JSON text column.
// A nil pointer maps to NULL.
func encodeJSONText(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nested structure: %w", err)
	}
	return string(b), nil
}

// decodeJSONText fills dest from a JSON text column. A NULL column leaves
// dest untouched and reports false.
func decodeJSONText(r storage.Row, col string, dest any) (bool, error) {
	s, ok := r[col].(string)
	if !ok || s == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", col, err)
	}
	return true, nil
}

func encodeStringList(list []string) (any, error) {
	if list == nil {
		return nil, nil
	}
	return encodeJSONText(list)
}

func decodeStringList(r storage.Row, col string) ([]string, error) {
	var list []string
	ok, err := decodeJSONText(r, col, &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}
