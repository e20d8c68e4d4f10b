// Package id provides record identifiers.
// Remote resources use numeric ids (`id`) or opaque document ids (`_id`), so an ID
// keeps its textual form and exposes the numeric value when there is one.
package id

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a record within one collection. The zero value means "not assigned".
type ID string

// FromInt converts a numeric id.
func FromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// FromAny converts a decoded JSON/YAML value to an ID.
// Whole floats lose their fraction formatting ("3" not "3.0"); nil yields the zero ID.
func FromAny(v any) ID {
	switch t := v.(type) {
	case nil:
		return ""
	case ID:
		return t
	case string:
		return ID(strings.TrimSpace(t))
	case json.Number:
		return ID(t.String())
	case int:
		return FromInt(int64(t))
	case int32:
		return FromInt(int64(t))
	case int64:
		return FromInt(t)
	case uint:
		return ID(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return ID(strconv.FormatUint(t, 10))
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return ID(strconv.FormatFloat(t, 'f', -1, 64))
		}
		return ID(strconv.FormatFloat(t, 'g', -1, 64))
	case fmt.Stringer:
		return ID(t.String())
	default:
		return ID(fmt.Sprint(t))
	}
}

// String returns the textual form.
func (i ID) String() string {
	return string(i)
}

// IsZero reports whether no id has been assigned.
func (i ID) IsZero() bool {
	return i == ""
}

// Int returns the numeric value when the id is an integer.
func (i ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(i), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns max(numeric ids)+1. Non-numeric ids are ignored; with none it returns 1.
func Next(ids []ID) ID {
	var max int64
	for _, i := range ids {
		if n, ok := i.Int(); ok && n > max {
			max = n
		}
	}
	return FromInt(max + 1)
}

// Set is a set of ids, used for row selection.
type Set map[ID]struct{}

// Has reports membership.
func (s Set) Has(i ID) bool {
	_, ok := s[i]
	return ok
}

// Slice returns the members in unspecified order.
func (s Set) Slice() []ID {
	out := make([]ID, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	return out
}
