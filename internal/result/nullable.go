package result

// DefaultNilMessage is used by FromPointer and FromOK when no message is given.
const DefaultNilMessage = "Value cannot be null"

// FromPointer returns Success(*p) when p is non-nil and Failure(message)
// otherwise.
func FromPointer[T any](p *T, message string) Result[T] {
	if p == nil {
		return Failure[T](nilMessage(message))
	}
	return Success(*p)
}

// FromOK converts a comma-ok pair, as returned by map lookups and type
// assertions, into a Result.
func FromOK[T any](value T, ok bool, message string) Result[T] {
	if !ok {
		return Failure[T](nilMessage(message))
	}
	return Success(value)
}

func nilMessage(message string) string {
	if message == "" {
		return DefaultNilMessage
	}
	return message
}
