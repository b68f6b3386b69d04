package oracle

import "errors"

// Status tells callers whether an answer came from the oracle, from a
// fallback, or not at all.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusFailed   Status = "failed"
)

var (
	ErrUnavailable = errors.New("oracle unavailable")
	ErrEmptyOutput = errors.New("oracle returned empty output")
)

type Result[T any] struct {
	Value  T
	Status Status
	Source string
	Err    error
}

func OK[T any](v T, source string) Result[T] {
	return Result[T]{Value: v, Status: StatusOK, Source: source}
}

// Fallback records a degraded answer along with the error that forced it.
func Fallback[T any](v T, source string, cause error) Result[T] {
	return Result[T]{Value: v, Status: StatusFallback, Source: source, Err: cause}
}

func Failed[T any](cause error) Result[T] {
	var zero T
	return Result[T]{Value: zero, Status: StatusFailed, Err: cause}
}

func (r Result[T]) Degraded() bool {
	return r.Status != StatusOK
}
