package ejson

import "fmt"

// UnsupportedTypeError is returned when a value matches none of the codec's
// recognized types, in either direction.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("ejson: unsupported type %T", e.Value)
}
