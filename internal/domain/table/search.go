package table

import "strings"

// Search keeps the items where any of fields contains query, case-insensitively.
// An empty query keeps everything; whitespace is matched like any other text.
// The result is a new slice.
func Search[T any](items []T, query string, fields []Field[T]) []T {
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q == "" || matches(item, q, fields) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, q string, fields []Field[T]) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(Text(f.Get(item))), q) {
			return true
		}
	}
	return false
}
