// Package foundation provides small generic building blocks shared by the
// audit packages.
package foundation

// Result is the outcome of an operation: a value on success or an error on
// failure, never both. A failed Result carries no partial value.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail creates a failed Result. A nil err is replaced by ErrNoValue.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = ErrNoValue
	}
	return Result[T]{err: err}
}

// FromTuple creates a Result from the (value, error) pattern.
func FromTuple[T any](value T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}

// IsOk reports whether the operation succeeded.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value returns the value, or the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error { return r.err }
