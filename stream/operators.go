package stream

import (
	"context"
	"errors"
)

// Map transforms each element using fn.
func Map[I, O any](s Stream[I], fn func(I) O) Stream[O] {
	return Stream[O]{produce: func(ctx context.Context, yield func(O) error) error {
		return s.produce(ctx, func(v I) error {
			return yield(fn(v))
		})
	}}
}

// MapErr transforms each element using fn, aborting production on error.
func MapErr[I, O any](s Stream[I], fn func(context.Context, I) (O, error)) Stream[O] {
	return Stream[O]{produce: func(ctx context.Context, yield func(O) error) error {
		return s.produce(ctx, func(v I) error {
			o, err := fn(ctx, v)
			if err != nil {
				return err
			}
			return yield(o)
		})
	}}
}

// Bind sequences a dependent sub-stream after each element: for every
// element of s, in order, fn(element) is run to exhaustion against the
// same consumer before the next element of s is taken. Flattening is
// depth-first, never interleaved.
func Bind[I, O any](s Stream[I], fn func(I) Stream[O]) Stream[O] {
	return Stream[O]{produce: func(ctx context.Context, yield func(O) error) error {
		return s.produce(ctx, func(v I) error {
			inner := fn(v)
			if inner.produce == nil {
				return nil
			}
			return inner.produce(ctx, yield)
		})
	}}
}

// Alt concatenates two streams: a runs to exhaustion, then b. This is
// ordered fallback: a branch that produces nothing simply falls through
// to the next.
func Alt[T any](a, b Stream[T]) Stream[T] {
	return Concat(a, b)
}

// Concat joins streams sequentially, left to right.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		for _, s := range streams {
			if s.produce == nil {
				continue
			}
			if err := s.produce(ctx, yield); err != nil {
				return err
			}
		}
		return nil
	}}
}

// Filter keeps only elements satisfying the predicate. Expressed through
// Guard so a rejected element behaves as an empty branch.
func Filter[T any](s Stream[T], pred func(T) bool) Stream[T] {
	return Bind(s, func(v T) Stream[T] {
		return Bind(Guard(pred(v)), func(struct{}) Stream[T] {
			return Single(v)
		})
	})
}

// Tap calls fn as a side-effect for each element, then passes it through.
func Tap[T any](s Stream[T], fn func(context.Context, T) error) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		return s.produce(ctx, func(v T) error {
			if err := fn(ctx, v); err != nil {
				return err
			}
			return yield(v)
		})
	}}
}

// Limit passes through at most n elements, then stops driving the
// producer. Termination is decided inside the production loop (the
// wrapped yield simply stops delegating), so producers backed by live
// resources observe it as an abandoned run and release themselves.
func Limit[T any](s Stream[T], n int) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		if n <= 0 {
			return nil
		}
		stop := errors.New("stream: limit reached")
		remaining := n
		err := s.produce(ctx, func(v T) error {
			if err := yield(v); err != nil {
				return err
			}
			remaining--
			if remaining == 0 {
				return stop
			}
			return nil
		})
		if errors.Is(err, stop) {
			return nil
		}
		return err
	}}
}

// LimitWhile passes elements through while pred holds, then stops driving
// the producer.
func LimitWhile[T any](s Stream[T], pred func(T) bool) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, yield func(T) error) error {
		stop := errors.New("stream: limit predicate failed")
		err := s.produce(ctx, func(v T) error {
			if !pred(v) {
				return stop
			}
			return yield(v)
		})
		if errors.Is(err, stop) {
			return nil
		}
		return err
	}}
}
