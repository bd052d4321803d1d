package result

// Map applies fn to the payload of a Success or Warning and keeps the
// original status and message. fn is never called for a Failure. Use Bind
// when the transformation itself can fail.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.status == StatusFailure {
		return Result[U]{status: StatusFailure, message: r.message}
	}
	return Result[U]{status: r.status, value: fn(r.value), message: r.message}
}

// Bind chains an operation that returns its own Result.
//
// A Failure passes through without calling fn. After a Success the result of
// fn is returned as is. After a Warning the warning sticks: a successful
// continuation becomes a Warning with the original message, a warning
// continuation joins both messages (original first), and a failed
// continuation wins outright, dropping the earlier warning.
func Bind[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.status == StatusFailure {
		return Result[U]{status: StatusFailure, message: r.message}
	}

	next := fn(r.value)
	if r.status != StatusWarning {
		return next
	}

	switch next.status {
	case StatusSuccess:
		return Result[U]{status: StatusWarning, value: next.value, message: r.message}
	case StatusWarning:
		return Result[U]{status: StatusWarning, value: next.value, message: r.message + Separator + next.message}
	default:
		return next
	}
}

// OnSuccess calls action with the payload of a Success and returns r.
func OnSuccess[T any](r Result[T], action func(T)) Result[T] {
	if r.status == StatusSuccess {
		action(r.value)
	}
	return r
}

// OnValue calls action with the payload of a Success or Warning and returns r.
func OnValue[T any](r Result[T], action func(T)) Result[T] {
	if r.status != StatusFailure {
		action(r.value)
	}
	return r
}

// OnWarning calls action with the message of a Warning and returns r.
func OnWarning[T any](r Result[T], action func(string)) Result[T] {
	if r.status == StatusWarning {
		action(r.message)
	}
	return r
}

// OnFailure calls action with the message of a Failure and returns r.
func OnFailure[T any](r Result[T], action func(string)) Result[T] {
	if r.status == StatusFailure {
		action(r.message)
	}
	return r
}
