package filter

import (
	"fmt"
	"strings"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/domain/table"
)

// Compile turns filter rows into a predicate over fields.
// Only fields known to the table may be filtered on.
func Compile[T any](items []Item, fields []table.Field[T]) (Predicate[T], error) {
	preds := make([]Predicate[T], 0, len(items))
	for _, item := range items {
		f, ok := table.FieldByName(fields, item.Field)
		if !ok {
			return nil, apperror.NewValidation(fmt.Sprintf("invalid filter column: %s", item.Field)).
				WithDetail("field", item.Field)
		}
		p, err := compileItem(item, f)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return All(preds...), nil
}

func compileItem[T any](item Item, f table.Field[T]) (Predicate[T], error) {
	operand := f.Operand(item.Value)
	cmp := func(r T) int { return table.Compare(f.Get(r), operand) }
	switch item.Operator {
	case Equal:
		return func(r T) bool { return cmp(r) == 0 }, nil
	case NotEqual:
		return func(r T) bool { return cmp(r) != 0 }, nil
	case Less:
		return func(r T) bool { return cmp(r) < 0 }, nil
	case LessOrEqual:
		return func(r T) bool { return cmp(r) <= 0 }, nil
	case Greater:
		return func(r T) bool { return cmp(r) > 0 }, nil
	case GreaterOrEqual:
		return func(r T) bool { return cmp(r) >= 0 }, nil
	case InList, NotInList:
		raw, ok := item.Value.([]any)
		if !ok {
			return nil, apperror.NewValidation("filter value must be a list").WithDetail("field", item.Field)
		}
		list := make([]any, len(raw))
		for i, v := range raw {
			list[i] = f.Operand(v)
		}
		want := item.Operator == InList
		return func(r T) bool { return inList(f.Get(r), list) == want }, nil
	case Contains, NotContains:
		needle := strings.ToLower(table.Text(item.Value))
		want := item.Operator == Contains
		return func(r T) bool {
			return strings.Contains(strings.ToLower(table.Text(f.Get(r))), needle) == want
		}, nil
	case IsNull:
		return func(r T) bool { return isEmpty(f.Get(r)) }, nil
	case IsNotNull:
		return func(r T) bool { return !isEmpty(f.Get(r)) }, nil
	default:
		return nil, apperror.NewValidation(fmt.Sprintf("unknown filter operator: %s", item.Operator))
	}
}

func inList(v any, list []any) bool {
	for _, candidate := range list {
		if table.Compare(v, candidate) == 0 {
			return true
		}
	}
	return false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
