package core

import "fmt"

// enumNames maps the variants of a small closed enumeration to their wire
// names. Variants are dense from zero, so the name slice doubles as the table.
type enumNames[T ~uint8] struct {
	kind  string
	names []string
}

func (e enumNames[T]) text(v T) string {
	if int(v) < len(e.names) {
		return e.names[v]
	}
	return fmt.Sprintf("%s(%d)", e.kind, uint8(v))
}

func (e enumNames[T]) marshal(v T) ([]byte, error) {
	if int(v) >= len(e.names) {
		return nil, fmt.Errorf("%s: no name for value %d", e.kind, uint8(v))
	}
	return []byte(e.names[v]), nil
}

func (e enumNames[T]) parse(text []byte) (T, error) {
	s := string(text)
	for i, name := range e.names {
		if name == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%s: unknown value %q", e.kind, s)
}
