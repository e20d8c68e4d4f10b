// Package record provides the schemaless Record handled by every resource page.
package record

import (
	"fmt"
	"strings"
	"unicode"

	"rbadmin/internal/core/id"
)

// Identifier keys, in lookup order.
const (
	KeyID      = "id"
	KeyMongoID = "_id"
)

// Record maps field names to decoded JSON values
// (string, float64, bool, nil, map[string]any, []any).
type Record map[string]any

// ID returns the identifier from `id`, falling back to `_id`.
func (r Record) ID() id.ID {
	if v, ok := r[KeyID]; ok && v != nil {
		return id.FromAny(v)
	}
	return id.FromAny(r[KeyMongoID])
}

// WithID returns a copy carrying i under the key the record already uses.
// Records without either key get `id`. An existing value keeps its JSON type;
// otherwise numeric ids under `id` are stored as numbers.
func (r Record) WithID(i id.ID) Record {
	out := r.Clone()
	key := KeyID
	if _, ok := r[KeyID]; !ok {
		if _, mongo := r[KeyMongoID]; mongo {
			key = KeyMongoID
		}
	}
	n, numeric := i.Int()
	switch r[key].(type) {
	case string:
		numeric = false
	case float64:
	default:
		numeric = numeric && key == KeyID
	}
	if numeric {
		out[key] = float64(n)
	} else {
		out[key] = i.String()
	}
	return out
}

// Value returns the first present, non-nil value among keys.
// Each key is also tried in its snake_case and camelCase spelling.
func (r Record) Value(keys ...string) (any, bool) {
	for _, k := range keys {
		for _, variant := range [...]string{k, Snake(k), Camel(k)} {
			if v, ok := r[variant]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

// String is Value formatted for display; absent values yield "".
func (r Record) String(keys ...string) string {
	v, ok := r.Value(keys...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Merge returns a copy of r with fields overwritten. Identifier keys in fields are ignored.
func (r Record) Merge(fields map[string]any) Record {
	out := r.Clone()
	for k, v := range fields {
		if k == KeyID || k == KeyMongoID {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone deep-copies nested maps and slices.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// Snake converts createdAt to created_at.
func Snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Camel converts created_at to createdAt. A leading underscore (`_id`) is kept.
func Camel(s string) string {
	if !strings.Contains(strings.TrimPrefix(s, "_"), "_") {
		return s
	}
	prefix := ""
	if strings.HasPrefix(s, "_") {
		prefix, s = "_", s[1:]
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

// IDs collects identifiers of records.
func IDs(records []Record) []id.ID {
	out := make([]id.ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}
