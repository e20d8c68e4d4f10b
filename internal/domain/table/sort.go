package table

import (
	"fmt"
	"slices"
	"strings"
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc"/"desc" in any case; empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// SortState is the active sort of a table. An empty Field means insertion order.
type SortState struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle applies a click on a column header: the same field flips direction,
// a new field starts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Direction == Desc {
			return SortState{Field: field, Direction: Asc}
		}
		return SortState{Field: field, Direction: Desc}
	}
	return SortState{Field: field, Direction: Asc}
}

// Sort returns a stably sorted copy. Items with equal keys keep their relative
// order in both directions. An unknown or empty field returns an unsorted copy.
func Sort[T any](items []T, state SortState, fields []Field[T]) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	f, ok := FieldByName(fields, state.Field)
	if !ok {
		return out
	}
	sign := 1
	if state.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * Compare(f.Get(a), f.Get(b))
	})
	return out
}
