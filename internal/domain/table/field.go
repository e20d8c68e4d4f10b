// Package table provides the pure projections behind every resource table:
// search, sort and pagination. None of them mutate the collection they are given.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field extracts one column value from a record.
type Field[T any] struct {
	Name string
	Get  func(T) any
	// Convert, when set, applies Get's type conversion to a raw value such as
	// a filter operand.
	Convert func(any) any
}

// Operand converts v so it compares against values returned by Get.
func (f Field[T]) Operand(v any) any {
	if f.Convert == nil {
		return v
	}
	return f.Convert(v)
}

// FieldByName returns the field with the given name.
func FieldByName[T any](fields []Field[T], name string) (Field[T], bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Text renders a value for substring matching.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// kind orders values of different types: nil first, then numbers, then text.
type kind int

const (
	kindNil kind = iota
	kindNumber
	kindTime
	kindText
)

type key struct {
	kind kind
	num  decimal.Decimal
	at   time.Time
	text string
}

func keyOf(v any) key {
	switch t := v.(type) {
	case nil:
		return key{kind: kindNil}
	case bool:
		if t {
			return key{kind: kindNumber, num: decimal.NewFromInt(1)}
		}
		return key{kind: kindNumber, num: decimal.Zero}
	case int:
		return key{kind: kindNumber, num: decimal.NewFromInt(int64(t))}
	case int32:
		return key{kind: kindNumber, num: decimal.NewFromInt32(t)}
	case int64:
		return key{kind: kindNumber, num: decimal.NewFromInt(t)}
	case uint:
		return key{kind: kindNumber, num: decimal.RequireFromString(strconv.FormatUint(uint64(t), 10))}
	case uint64:
		return key{kind: kindNumber, num: decimal.RequireFromString(strconv.FormatUint(t, 10))}
	case float32:
		return keyOf(float64(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return key{kind: kindText, text: strings.ToLower(Text(t))}
		}
		return key{kind: kindNumber, num: decimal.NewFromFloat(t)}
	case decimal.Decimal:
		return key{kind: kindNumber, num: t}
	case time.Time:
		return key{kind: kindTime, at: t}
	case string:
		return key{kind: kindText, text: strings.ToLower(t)}
	default:
		return key{kind: kindText, text: strings.ToLower(Text(t))}
	}
}

// Compare orders two column values. Strings compare case-folded and
// lexicographically, numbers and decimals numerically, booleans as 0/1, times
// chronologically. Values of different kinds order nil < number < time < text.
func Compare(a, b any) int {
	ka, kb := keyOf(a), keyOf(b)
	if ka.kind != kb.kind {
		if ka.kind < kb.kind {
			return -1
		}
		return 1
	}
	switch ka.kind {
	case kindNumber:
		return ka.num.Cmp(kb.num)
	case kindTime:
		return ka.at.Compare(kb.at)
	case kindText:
		return strings.Compare(ka.text, kb.text)
	default:
		return 0
	}
}
