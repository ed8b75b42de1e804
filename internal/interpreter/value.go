package interpreter

import (
	"fmt"
	"strconv"
)

// Value is the closed set of runtime values: Number, String, Bool and Nil.
type Value interface {
	value()
}

type Number float64

type String string

type Bool bool

type Nil struct{}

func (Number) value() {}
func (String) value() {}
func (Bool) value()   {}
func (Nil) value()    {}

func (n Number) String() string { return Format(n) }
func (s String) String() string { return string(s) }
func (b Bool) String() string   { return Format(b) }
func (Nil) String() string      { return "nil" }

// FromLiteral converts a parsed literal payload into a runtime value.
func FromLiteral(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Nil{}, nil
	case float64:
		return Number(v), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	}
	return nil, fmt.Errorf("unsupported literal %T", v)
}

// Truthy reports whether v counts as true in a condition: only false and
// nil are falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	}
	return true
}

// Equal compares any two values. Values of different kinds are never
// equal; nil equals only nil.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Nil:
		_, ok := b.(Nil)
		return ok
	}
	return false
}

// Format renders a value the way print shows it.
func Format(v Value) string {
	switch v := v.(type) {
	case Number:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case String:
		return string(v)
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Nil:
		return "nil"
	}
	return fmt.Sprintf("<%T>", v)
}

// TypeName names the kind of v for diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case String:
		return "string"
	case Bool:
		return "boolean"
	case Nil:
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
