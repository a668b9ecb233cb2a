package defines

import "fmt"

// Map is the mutable definition environment. The preprocessor reads it for
// membership tests and expression scopes and writes to it on DEFINE/UNDEF.
//
// A Map is owned by the caller and outlives a single preprocessing pass;
// reusing the same Map across passes carries definitions forward. Exactly one
// pass may run against a Map at a time - there is no internal locking.
type Map map[string]Value

// NotDefinedError is the lookup failure returned when removing a name that
// is not present in the mapping.
type NotDefinedError struct {
	Name string
}

func (e *NotDefinedError) Error() string {
	return fmt.Sprintf("name %q is not defined", e.Name)
}

// Define binds name to v, replacing any previous binding.
func (m Map) Define(name string, v Value) {
	m[name] = v
}

// Undef removes name from the mapping. Returns NotDefinedError if the name
// is absent.
func (m Map) Undef(name string) error {
	if _, ok := m[name]; !ok {
		return &NotDefinedError{Name: name}
	}
	delete(m, name)
	return nil
}

// Has reports whether name is defined, regardless of its value.
func (m Map) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Clone returns a shallow copy of the mapping. Used to snapshot the
// environment for expression evaluation so that evaluation can never mutate
// the caller's Map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ToGo converts the whole mapping to a plain map[string]any. Unset values
// appear as nil, matching their null rendering inside expression scopes.
func (m Map) ToGo() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = ToGo(v)
	}
	return out
}

// FromGoMap builds a Map from a plain map[string]any, as produced by decoding a
// YAML definitions file.
func FromGoMap(src map[string]any) (Map, error) {
	out := make(Map, len(src))
	for k, v := range src {
		converted, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", k, err)
		}
		out[k] = converted
	}
	return out, nil
}
