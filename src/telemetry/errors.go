package telemetry

import (
	"errors"
	"fmt"
)

// IOError reports an input that is missing or unreadable.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// DecodeError reports an input that is not valid in its expected encoding.
type DecodeError struct {
	Path     string
	Encoding Encoding
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s as %s: %v", e.Path, e.Encoding, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// ClassificationError reports a path whose extension or name matches no telemetry kind.
type ClassificationError struct {
	Path   string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %s: %s", e.Path, e.Reason)
}

// ErrMissingField marks a required field that is absent or empty.
var ErrMissingField = errors.New("missing")

// FieldError reports a field that could not be read as the expected type.
type FieldError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("field %q: missing", e.Field)
	}
	return fmt.Sprintf("field %q (value %v): %v", e.Field, e.Value, e.Err)
}
func (e *FieldError) Unwrap() error { return e.Err }
