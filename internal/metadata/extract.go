package metadata

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/shopspring/decimal"

	"rbadmin/internal/core/record"
	"rbadmin/internal/domain/table"
)

// Columns are the compiled extractors of one resource.
type Columns struct {
	All    []table.Field[record.Record]
	Search []table.Field[record.Record]
	Sort   []table.Field[record.Record]
}

// Compile builds the column extractors of def. Each field reads its jq Path, or
// the field name with the snake_case/camelCase spelling as fallback, and
// converts the value according to its type.
func Compile(def ResourceDef) (Columns, error) {
	var cols Columns
	for _, f := range def.Fields {
		code, err := compilePath(f)
		if err != nil {
			return Columns{}, fmt.Errorf("resource %s field %s: %w", def.Name, f.Name, err)
		}
		typ := f.Type
		field := table.Field[record.Record]{
			Name: f.Name,
			Get: func(r record.Record) any {
				return convert(typ, run(code, r))
			},
			Convert: func(v any) any { return convert(typ, v) },
		}
		cols.All = append(cols.All, field)
		if f.Searchable {
			cols.Search = append(cols.Search, field)
		}
		if f.Sortable {
			cols.Sort = append(cols.Sort, field)
		}
	}
	return cols, nil
}

// DefaultPath is the jq expression used for a field without an explicit Path.
func DefaultPath(name string) string {
	variants := []string{name}
	for _, alt := range []string{record.Snake(name), record.Camel(name)} {
		if !slices.Contains(variants, alt) {
			variants = append(variants, alt)
		}
	}
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = fmt.Sprintf(".%q", v)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	// Not `//`, which would skip a false boolean.
	return "first((" + strings.Join(parts, ", ") + ") | values)"
}

func compilePath(f FieldDef) (*gojq.Code, error) {
	src := f.Path
	if src == "" {
		src = DefaultPath(f.Name)
	}
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, err
	}
	return gojq.Compile(q)
}

// run returns the first output of code for r, or nil.
func run(code *gojq.Code, r record.Record) any {
	if r == nil {
		return nil
	}
	iter := code.Run(map[string]any(r))
	v, ok := iter.Next()
	if !ok {
		return nil
	}
	if _, isErr := v.(error); isErr {
		return nil
	}
	return v
}

// convert normalizes a raw JSON value for comparison. Column values and filter
// operands both pass through it.
func convert(typ FieldType, v any) any {
	switch typ {
	case TypeMoney:
		switch t := v.(type) {
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
				return d
			}
		case float64:
			return decimal.NewFromFloat(t)
		case int:
			return decimal.NewFromInt(int64(t))
		}
	case TypeDate:
		if s, ok := v.(string); ok {
			for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
				if at, err := time.Parse(layout, s); err == nil {
					return at
				}
			}
		}
	}
	return v
}
