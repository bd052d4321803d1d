package result

import "context"

// Future is a Result that may still be being produced. A Future resolves
// exactly once; readers never observe a partially built Result.
type Future[T any] struct {
	done chan struct{}
	res  Result[T]
}

// Go runs fn on a new goroutine and returns a Future for its Result. A panic
// in fn resolves the Future to a Failure instead of crashing the process.
// fn is responsible for honouring ctx; the Future itself has no cancellation.
func Go[T any](ctx context.Context, fn func(context.Context) Result[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if p := recover(); p != nil {
				f.res = Failuref[T]("Unexpected error: %v", p)
			}
		}()
		f.res = fn(ctx)
	}()
	return f
}

// Resolved wraps an already available Result.
func Resolved[T any](r Result[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), res: r}
	close(f.done)
	return f
}

// Await blocks until the Future resolves and returns its Result.
func (f *Future[T]) Await() Result[T] {
	<-f.done
	return f.res
}

// Done is closed once the Future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// ValueOrDefault awaits the Future and returns its payload or fallback.
func (f *Future[T]) ValueOrDefault(fallback T) T {
	return f.Await().ValueOrDefault(fallback)
}

// Then awaits f and applies fn to its Result on a new goroutine.
func Then[T, U any](f *Future[T], fn func(Result[T]) Result[U]) *Future[U] {
	return Go(context.Background(), func(context.Context) Result[U] {
		return fn(f.Await())
	})
}

// MapFuture is Map for a pending Result.
func MapFuture[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return Then(f, func(r Result[T]) Result[U] { return Map(r, fn) })
}

// BindFuture is Bind for a pending Result.
func BindFuture[T, U any](f *Future[T], fn func(T) Result[U]) *Future[U] {
	return Then(f, func(r Result[T]) Result[U] { return Bind(r, fn) })
}

// OnSuccessFuture is OnSuccess for a pending Result.
func OnSuccessFuture[T any](f *Future[T], action func(T)) *Future[T] {
	return Then(f, func(r Result[T]) Result[T] { return OnSuccess(r, action) })
}

// OnValueFuture is OnValue for a pending Result.
func OnValueFuture[T any](f *Future[T], action func(T)) *Future[T] {
	return Then(f, func(r Result[T]) Result[T] { return OnValue(r, action) })
}

// OnWarningFuture is OnWarning for a pending Result.
func OnWarningFuture[T any](f *Future[T], action func(string)) *Future[T] {
	return Then(f, func(r Result[T]) Result[T] { return OnWarning(r, action) })
}

// OnFailureFuture is OnFailure for a pending Result.
func OnFailureFuture[T any](f *Future[T], action func(string)) *Future[T] {
	return Then(f, func(r Result[T]) Result[T] { return OnFailure(r, action) })
}

// MapAsync runs fn on a new goroutine unless r is a Failure.
func MapAsync[T, U any](r Result[T], fn func(T) U) *Future[U] {
	if r.status == StatusFailure {
		return Resolved(Result[U]{status: StatusFailure, message: r.message})
	}
	return Go(context.Background(), func(context.Context) Result[U] { return Map(r, fn) })
}

// MapAsyncFuture is MapAsync for a pending Result.
func MapAsyncFuture[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return Then(f, func(r Result[T]) Result[U] { return MapAsync(r, fn).Await() })
}

// BindAsync chains an asynchronous operation with the same status rules as
// Bind. fn is not called for a Failure.
func BindAsync[T, U any](r Result[T], fn func(T) *Future[U]) *Future[U] {
	if r.status == StatusFailure {
		return Resolved(Result[U]{status: StatusFailure, message: r.message})
	}
	next := fn(r.value)
	return Then(next, func(n Result[U]) Result[U] {
		return Bind(r, func(T) Result[U] { return n })
	})
}

// BindAsyncFuture is BindAsync for a pending Result.
func BindAsyncFuture[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	return Then(f, func(r Result[T]) Result[U] { return BindAsync(r, fn).Await() })
}

// AwaitAll waits for every Future and returns their Results in order.
func AwaitAll[T any](futures ...*Future[T]) []Result[T] {
	out := make([]Result[T], len(futures))
	for i, f := range futures {
		out[i] = f.Await()
	}
	return out
}
