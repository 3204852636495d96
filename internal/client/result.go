package client

// Result is the outcome of one remote call: either a value or the reason
// the remote service could not provide one. Callers pick their fallback by
// checking Ok.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Unavailable wraps the cause of a failed call. A nil cause is replaced by
// ErrUnavailable so the result never reads as Ok.
func Unavailable[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnavailable
	}
	return Result[T]{err: err}
}

func (r Result[T]) Ok() bool { return r.err == nil }

// Value returns the value; it is the zero value when !Ok().
func (r Result[T]) Value() T { return r.value }

// Err returns the cause of an Unavailable result.
func (r Result[T]) Err() error { return r.err }
