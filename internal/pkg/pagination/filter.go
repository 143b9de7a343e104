package pagination

import (
	"reflect"
	"strings"
)

// Operator is the comparison a Condition applies to its field.
type Operator string

const (
	OpEqual          Operator = "eq"
	OpGreaterOrEqual Operator = "gte"
	OpLessOrEqual    Operator = "lte"
	OpBetween        Operator = "between"
	OpSearch         Operator = "search"
)

// Condition is a single predicate on a logical field name. Sources translate
// field names to their own columns.
type Condition struct {
	Field  string
	Op     Operator
	Value  any
	Upper  any
	Fields []string
}

// Filter is an ordered conjunction of conditions. Operands that are nil or nil
// pointers count as "not specified" and are dropped by Conditions.
type Filter struct {
	conditions []Condition
}

func NewFilter() *Filter {
	return &Filter{}
}

// Equal adds field = value.
func (f *Filter) Equal(field string, value any) *Filter {
	f.conditions = append(f.conditions, Condition{Field: field, Op: OpEqual, Value: value})
	return f
}

// Range adds an inclusive range on field. Either bound may be nil.
func (f *Filter) Range(field string, from, to any) *Filter {
	f.conditions = append(f.conditions, Condition{Field: field, Op: OpBetween, Value: from, Upper: to})
	return f
}

// Search adds a case-insensitive substring match of term against any of fields.
func (f *Filter) Search(term any, fields ...string) *Filter {
	f.conditions = append(f.conditions, Condition{Op: OpSearch, Value: term, Fields: fields})
	return f
}

// Conditions returns the normalized predicate list.
func (f *Filter) Conditions() []Condition {
	if f == nil {
		return nil
	}

	out := make([]Condition, 0, len(f.conditions))
	for _, c := range f.conditions {
		value, hasValue := operand(c.Value)

		switch c.Op {
		case OpBetween:
			upper, hasUpper := operand(c.Upper)
			switch {
			case hasValue && hasUpper:
				out = append(out, Condition{Field: c.Field, Op: OpBetween, Value: value, Upper: upper})
			case hasValue:
				out = append(out, Condition{Field: c.Field, Op: OpGreaterOrEqual, Value: value})
			case hasUpper:
				out = append(out, Condition{Field: c.Field, Op: OpLessOrEqual, Value: upper})
			}
		case OpSearch:
			term, ok := value.(string)
			if !hasValue || !ok || strings.TrimSpace(term) == "" || len(c.Fields) == 0 {
				continue
			}
			out = append(out, Condition{Op: OpSearch, Value: strings.TrimSpace(term), Fields: c.Fields})
		default:
			if hasValue {
				out = append(out, Condition{Field: c.Field, Op: c.Op, Value: value})
			}
		}
	}
	return out
}

// operand dereferences pointer operands and reports whether the value is set.
func operand(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return v, true
}
