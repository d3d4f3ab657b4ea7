package galaxy

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below
var (
	ErrConfiguration = errors.New("galaxy: configuration error")
	ErrResource      = errors.New("galaxy: resource error")
)

// ConfigurationError reports a parameter outside its declared range
// Raised at the Params boundary; never reaches the generation kernel
type ConfigurationError struct {
	Field string
	Value any
	Bound string
	Err   error // optional cause, e.g. a color parse failure
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("galaxy: %s=%v violates %s: %v", e.Field, e.Value, e.Bound, e.Err)
	}
	return fmt.Sprintf("galaxy: %s=%v violates %s", e.Field, e.Value, e.Bound)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ResourceError reports buffers that could not be admitted for a generation
type ResourceError struct {
	Count int
	Bytes int64
	Limit int64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("galaxy: %d points need %d buffer bytes, limit is %d", e.Count, e.Bytes, e.Limit)
}

func (e *ResourceError) Is(target error) bool { return target == ErrResource }

func rangeError(field string, value any, bound string) error {
	return &ConfigurationError{Field: field, Value: value, Bound: bound}
}
