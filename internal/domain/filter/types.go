// Package filter provides advanced filters on top of the quick search box:
// per-column conditions and free-form CEL expressions.
package filter

// ComparisonType defines the kinds of comparison.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // case-insensitive substring
	NotContains    ComparisonType = "ncontains" // negated Contains

	IsNull    ComparisonType = "null"     // empty value
	IsNotNull ComparisonType = "not_null" // filled value
)

// Item is one filter row.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Predicate reports whether a record passes a filter.
type Predicate[T any] func(T) bool

// All combines predicates with AND. Nil predicates are skipped.
func All[T any](ps ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range ps {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}
