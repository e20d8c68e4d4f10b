package metadata

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"rbadmin/internal/core/record"
)

// Inspect derives column definitions from a sample record. Identifier keys come
// first, the rest in name order. Scalar columns are sortable, text columns are
// searchable and identifiers are read-only.
func Inspect(sample record.Record) []FieldDef {
	names := make([]string, 0, len(sample))
	for k := range sample {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := idRank(names[i]), idRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	fields := make([]FieldDef, 0, len(names))
	for _, name := range names {
		fDef := FieldDef{
			Name:  name,
			Label: guessLabel(name),
			Type:  guessType(name, sample[name]),
		}
		switch fDef.Type {
		case TypeID:
			fDef.ReadOnly = true
			fDef.Sortable = true
			fDef.Searchable = true
		case TypeString:
			fDef.Sortable = true
			fDef.Searchable = true
		case TypeObject:
		default:
			fDef.Sortable = true
		}
		fields = append(fields, fDef)
	}
	return fields
}

func idRank(name string) int {
	switch name {
	case record.KeyID:
		return 0
	case record.KeyMongoID:
		return 1
	default:
		return 2
	}
}

func guessType(name string, v any) FieldType {
	if name == record.KeyID || name == record.KeyMongoID {
		return TypeID
	}
	switch t := v.(type) {
	case bool:
		return TypeBoolean
	case float64, int, int64:
		return TypeNumber
	case map[string]any, []any:
		return TypeObject
	case string:
		if _, err := time.Parse(time.RFC3339, t); err == nil {
			return TypeDate
		}
		// Money comes as decimal strings to keep precision.
		lower := strings.ToLower(name)
		if strings.Contains(lower, "amount") || strings.Contains(lower, "fee") || strings.Contains(lower, "price") {
			return TypeMoney
		}
		return TypeString
	default:
		return TypeString
	}
}

// guessLabel turns created_at or createdAt into "Created At".
func guessLabel(name string) string {
	name = strings.TrimLeft(name, "_")
	if name == "id" {
		return "ID"
	}

	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur = append(cur, r)
		default:
			if len(cur) == 0 {
				r = unicode.ToUpper(r)
			}
			cur = append(cur, r)
		}
	}
	flush()
	return strings.Join(words, " ")
}
