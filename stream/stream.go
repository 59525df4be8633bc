package stream

import (
	"context"
	"errors"
)

// errStop is the internal signal a wrapped yield returns to stop the
// producer loop early. It never escapes Run.
var errStop = errors.New("stream: stop")

// Stream is a re-runnable, lazily-evaluated description of an effectful
// sequence. Constructing a Stream performs no work; every Run re-executes
// the underlying effects. Producers push values into the consumer's yield
// in order; iteration is internal, so there is no pull handle to leak.
type Stream[T any] struct {
	produce func(ctx context.Context, yield func(T) error) error
}

// New creates a stream from raw production logic. The function must call
// yield once per element in order and propagate any error yield returns.
// This is the most general constructor: directory walks, file reads and
// subprocess output all implement the same shape.
func New[T any](produce func(ctx context.Context, yield func(T) error) error) Stream[T] {
	return Stream[T]{produce: produce}
}

// Single produces exactly one element.
func Single[T any](v T) Stream[T] {
	return Stream[T]{produce: func(_ context.Context, yield func(T) error) error {
		return yield(v)
	}}
}

// Empty produces zero elements.
func Empty[T any]() Stream[T] {
	return Stream[T]{produce: func(context.Context, func(T) error) error {
		return nil
	}}
}

// FromSlice produces each element of items in order.
func FromSlice[T any](items []T) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		for _, v := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := yield(v); err != nil {
				return err
			}
		}
		return nil
	}}
}

// FromChannel produces values received from ch until it is closed or the
// context is canceled. Like every stream the result is re-runnable, but a
// second run sees only what remains on the channel.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		for {
			select {
			case v, open := <-ch:
				if !open {
					return nil
				}
				if err := yield(v); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}}
}

// Guard produces one unit element when ok is true and none otherwise.
// Inside a Bind it acts as a filter: the failing branch produces nothing
// without disturbing sibling branches.
func Guard(ok bool) Stream[struct{}] {
	if ok {
		return Single(struct{}{})
	}
	return Empty[struct{}]()
}

// Run drives the stream against fn, calling it once per element in order.
// A non-nil error from fn aborts production and is returned, except for
// the internal stop signal which reports clean early termination.
func (s Stream[T]) Run(ctx context.Context, fn func(T) error) error {
	if s.produce == nil {
		return nil
	}
	err := s.produce(ctx, fn)
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// Feed drives the stream against yield without absorbing the early-stop
// signal, returning exactly what the producer returned. Adapters that
// must distinguish clean exhaustion from an abandoning consumer build on
// Feed and propagate its error unchanged; ordinary consumers use Run.
func (s Stream[T]) Feed(ctx context.Context, yield func(T) error) error {
	if s.produce == nil {
		return nil
	}
	return s.produce(ctx, yield)
}

// Fold is a driven fold: Begin opens the accumulator, Step folds one
// element, Done closes it. A stream run against a Fold calls Begin once,
// Step per element in order, then Done exactly once, including for
// streams that produce nothing.
type Fold[T, S, R any] struct {
	Begin func() S
	Step  func(S, T) (S, error)
	Done  func(S) (R, error)
}

// FoldStream runs s against the fold and returns the fold's result.
// The accumulator is owned by the production loop for the whole run.
func FoldStream[T, S, R any](ctx context.Context, s Stream[T], f Fold[T, S, R]) (R, error) {
	acc := f.Begin()
	err := s.Run(ctx, func(v T) error {
		next, err := f.Step(acc, v)
		if err != nil {
			return err
		}
		acc = next
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return f.Done(acc)
}

// Collect runs the stream and returns every produced element.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := s.Run(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// Drain runs the stream for its effects, discarding every element.
func Drain[T any](ctx context.Context, s Stream[T]) error {
	return s.Run(ctx, func(T) error { return nil })
}

// ForEach runs the stream and calls fn for each element. Unlike Run, fn
// receives the context.
func ForEach[T any](ctx context.Context, s Stream[T], fn func(context.Context, T) error) error {
	return s.Run(ctx, func(v T) error { return fn(ctx, v) })
}

// Count runs the stream and returns the number of produced elements.
func Count[T any](ctx context.Context, s Stream[T]) (int, error) {
	n := 0
	err := s.Run(ctx, func(T) error {
		n++
		return nil
	})
	return n, err
}

// Head runs the stream until the first element and returns it.
// ok is false when the stream produced nothing.
func Head[T any](ctx context.Context, s Stream[T]) (v T, ok bool, err error) {
	err = s.Run(ctx, func(x T) error {
		v, ok = x, true
		return errStop
	})
	return v, ok, err
}

// Last runs the stream to exhaustion and returns the final element.
// ok is false when the stream produced nothing.
func Last[T any](ctx context.Context, s Stream[T]) (v T, ok bool, err error) {
	err = s.Run(ctx, func(x T) error {
		v, ok = x, true
		return nil
	})
	return v, ok, err
}

// Reduce folds all elements into a single accumulator.
func Reduce[T, R any](ctx context.Context, s Stream[T], init R, fn func(R, T) R) (R, error) {
	acc := init
	err := s.Run(ctx, func(v T) error {
		acc = fn(acc, v)
		return nil
	})
	return acc, err
}
