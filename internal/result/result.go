// Package result provides a tri-state operation result.
//
// A Result is either a Success carrying a value, a Warning carrying a value
// and one or more non-fatal messages, or a Failure carrying only messages.
// Results are immutable: they are built once through Success, Warning or
// Failure and only read afterwards, so they may be shared between goroutines.
package result

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the state tag of a Result.
type Status int

const (
	// StatusSuccess means the operation produced a value without issues.
	StatusSuccess Status = iota
	// StatusWarning means the operation produced a value with non-fatal issues.
	StatusWarning
	// StatusFailure means the operation produced no value.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusWarning:
		return "warning"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Separator joins multiple messages of a single Result.
const Separator = "\n"

// Result is the outcome of an operation producing a T.
type Result[T any] struct {
	status  Status
	value   T
	message string
}

// Unit is the payload of results that carry no value.
type Unit struct{}

// Void is a Result without a payload.
type Void = Result[Unit]

// Success returns a successful result holding value.
func Success[T any](value T) Result[T] {
	return Result[T]{status: StatusSuccess, value: value}
}

// Warning returns a result holding value together with at least one message.
// It panics if the joined message is empty.
func Warning[T any](value T, message string, more ...string) Result[T] {
	return Result[T]{status: StatusWarning, value: value, message: join("Warning", message, more)}
}

// Failure returns a failed result. It panics if the joined message is empty.
func Failure[T any](message string, more ...string) Result[T] {
	return Result[T]{status: StatusFailure, message: join("Failure", message, more)}
}

// Failuref returns a failed result with a formatted message.
func Failuref[T any](format string, args ...any) Result[T] {
	return Failure[T](fmt.Sprintf(format, args...))
}

// Of converts a conventional (value, error) pair into a Result.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Failure[T](err.Error())
	}
	return Success(value)
}

// Ok returns a successful Void.
func Ok() Void {
	return Success(Unit{})
}

// Warn returns a Void warning.
func Warn(message string, more ...string) Void {
	return Warning(Unit{}, message, more...)
}

// Fail returns a failed Void.
func Fail(message string, more ...string) Void {
	return Failure[Unit](message, more...)
}

func join(kind, message string, more []string) string {
	joined := message
	if len(more) > 0 {
		joined = strings.Join(append([]string{message}, more...), Separator)
	}
	if strings.TrimSpace(joined) == "" {
		panic("result: " + kind + " requires a non-empty message")
	}
	return joined
}

// Status returns the state tag.
func (r Result[T]) Status() Status {
	return r.status
}

// IsSuccess reports whether r is a Success.
func (r Result[T]) IsSuccess() bool {
	return r.status == StatusSuccess
}

// IsWarning reports whether r is a Warning.
func (r Result[T]) IsWarning() bool {
	return r.status == StatusWarning
}

// IsFailure reports whether r is a Failure.
func (r Result[T]) IsFailure() bool {
	return r.status == StatusFailure
}

// Value returns the payload and whether one is present.
func (r Result[T]) Value() (T, bool) {
	if r.status == StatusFailure {
		var zero T
		return zero, false
	}
	return r.value, true
}

// ValueOrDefault returns the payload of a Success or Warning, or fallback.
func (r Result[T]) ValueOrDefault(fallback T) T {
	if r.status == StatusFailure {
		return fallback
	}
	return r.value
}

// Message returns the newline-joined message and whether one is present.
func (r Result[T]) Message() (string, bool) {
	return r.message, r.status != StatusSuccess
}

// Messages returns the individual message lines, or nil for a Success.
func (r Result[T]) Messages() []string {
	if r.status == StatusSuccess {
		return nil
	}
	return strings.Split(r.message, Separator)
}

// Err returns the message of a Failure as an error, nil otherwise.
func (r Result[T]) Err() error {
	if r.status != StatusFailure {
		return nil
	}
	return errors.New(r.message)
}

// Get mirrors the (value, error) convention. Warnings are returned as
// values with a nil error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.Err()
}

func (r Result[T]) String() string {
	switch r.status {
	case StatusSuccess:
		return fmt.Sprintf("success(%v)", r.value)
	case StatusWarning:
		return fmt.Sprintf("warning(%v): %s", r.value, r.message)
	default:
		return "failure: " + r.message
	}
}

// Discard drops the payload, keeping status and message.
func Discard[T any](r Result[T]) Void {
	return Result[Unit]{status: r.status, message: r.message}
}
