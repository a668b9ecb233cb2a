package defines

import "fmt"

// Value is a sealed interface over the types a definition may hold.
// Only Unset, Null, Bool, Int, Float, String, List, and Struct implement it.
type Value interface {
	defValue() // Sealed - only these types implement it
}

// Unset marks a name that was defined without a value (bare DEFINE).
// It is not an evaluation result: no expression can produce Unset, which is
// what makes a valueless definition distinguishable from any legitimate
// value, false-like values included.
type Unset struct{}

func (Unset) defValue() {}

// Null represents an explicit null evaluation result.
type Null struct{}

func (Null) defValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) defValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) defValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) defValue() {}

// String represents a string value.
type String string

func (String) defValue() {}

// List represents an ordered sequence of values.
type List []Value

func (List) defValue() {}

// Struct represents a map of string keys to values.
type Struct map[string]Value

func (Struct) defValue() {}

// Truthy reports whether a value counts as true under the host expression
// language's boolean coercion: Unset and Null are false, Bool is itself,
// numbers are false iff zero, and strings, lists, and structs are false iff
// empty.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Unset, Null:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case String:
		return len(val) > 0
	case List:
		return len(val) > 0
	case Struct:
		return len(val) > 0
	default:
		return false
	}
}

// ToGo converts a Value to a plain Go value suitable for encoding into an
// evaluation scope or a YAML document. Unset and Null both map to nil; the
// distinction only exists inside the mapping, never in serialized form.
func ToGo(v Value) any {
	switch val := v.(type) {
	case nil, Unset, Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	case Struct:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToGo(elem)
		}
		return out
	default:
		return nil
	}
}

// FromGo converts a plain Go value (as produced by YAML decoding or flag
// parsing) into a Value. nil maps to Unset so that a YAML "name: null" entry
// behaves like a bare DEFINE. Unsupported types are rejected.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Unset{}, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list[i] = converted
		}
		return list, nil
	case map[string]any:
		obj := make(Struct, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("struct[%q]: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported definition value type: %T", v)
	}
}
