package stream_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kbukum/shellkit/stream"
)

func TestConstructionIsEffectFree(t *testing.T) {
	ran := 0
	s := stream.New(func(_ context.Context, yield func(int) error) error {
		ran++
		return yield(1)
	})
	if ran != 0 {
		t.Fatalf("expected no effects before Run, got %d", ran)
	}
	for i := 1; i <= 2; i++ {
		if err := stream.Drain(context.Background(), s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ran != i {
			t.Fatalf("expected %d runs, got %d", i, ran)
		}
	}
}

func TestBindLeftIdentity(t *testing.T) {
	// Bind(Single(x), f) behaves exactly like f(x).
	f := func(n int) stream.Stream[int] {
		return stream.FromSlice([]int{n, n * 10})
	}
	ctx := context.Background()
	bound, err := stream.Collect(ctx, stream.Bind(stream.Single(3), f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct, err := stream.Collect(ctx, f(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(bound, direct) {
		t.Fatalf("expected %v, got %v", direct, bound)
	}
}

func TestBindRightIdentity(t *testing.T) {
	// Bind(s, Single) behaves exactly like s.
	ctx := context.Background()
	s := stream.FromSlice([]int{1, 2, 3})
	bound, err := stream.Collect(ctx, stream.Bind(s, stream.Single[int]))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct, err := stream.Collect(ctx, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(bound, direct) {
		t.Fatalf("expected %v, got %v", direct, bound)
	}
}

func TestBindAssociativity(t *testing.T) {
	// Bind(Bind(s, f), g) behaves exactly like Bind(s, x => Bind(f(x), g)).
	f := func(n int) stream.Stream[int] {
		return stream.FromSlice([]int{n, n + 1})
	}
	g := func(n int) stream.Stream[int] {
		return stream.FromSlice([]int{n * 10})
	}
	ctx := context.Background()
	s := stream.FromSlice([]int{1, 2})
	left, err := stream.Collect(ctx, stream.Bind(stream.Bind(s, f), g))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	right, err := stream.Collect(ctx, stream.Bind(s, func(n int) stream.Stream[int] {
		return stream.Bind(f(n), g)
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(left, right) {
		t.Fatalf("expected %v, got %v", right, left)
	}
}

func TestBindDepthFirstOrder(t *testing.T) {
	s := stream.FromSlice([]int{1, 2})
	out, err := stream.Collect(context.Background(), stream.Bind(s, func(n int) stream.Stream[int] {
		return stream.FromSlice([]int{n * 10, n*10 + 1})
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{10, 11, 20, 21}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
}

func TestAltOrderedConcatenation(t *testing.T) {
	a := stream.FromSlice([]string{"a1", "a2"})
	b := stream.FromSlice([]string{"b1"})
	out, err := stream.Collect(context.Background(), stream.Alt(a, b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a1", "a2", "b1"}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
}

func TestAltEmptyFallsThrough(t *testing.T) {
	out, err := stream.Collect(context.Background(), stream.Alt(stream.Empty[int](), stream.Single(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{7}) {
		t.Fatalf("expected [7], got %v", out)
	}
}

func TestGuardFiltersBranch(t *testing.T) {
	s := stream.FromSlice([]int{1, 2, 3, 4})
	evens := stream.Bind(s, func(n int) stream.Stream[int] {
		return stream.Bind(stream.Guard(n%2 == 0), func(struct{}) stream.Stream[int] {
			return stream.Single(n)
		})
	})
	out, err := stream.Collect(context.Background(), evens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{2, 4}) {
		t.Fatalf("expected [2 4], got %v", out)
	}
}

func TestFilter(t *testing.T) {
	s := stream.Filter(stream.FromSlice([]int{1, 2, 3, 4, 5}), func(n int) bool { return n > 2 })
	out, err := stream.Collect(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{3, 4, 5}) {
		t.Fatalf("expected [3 4 5], got %v", out)
	}
}

func TestLimitStopsProducer(t *testing.T) {
	produced := 0
	infinite := stream.New(func(_ context.Context, yield func(int) error) error {
		for i := 0; ; i++ {
			produced++
			if err := yield(i); err != nil {
				return err
			}
		}
	})
	out, err := stream.Collect(context.Background(), stream.Limit(infinite, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{0, 1, 2}) {
		t.Fatalf("expected [0 1 2], got %v", out)
	}
	if produced != 3 {
		t.Fatalf("expected producer stopped at 3, produced %d", produced)
	}
}

func TestLimitInsideConcat(t *testing.T) {
	// A limit on the left branch must not abort the right branch.
	a := stream.Limit(stream.FromSlice([]int{1, 2, 3}), 2)
	b := stream.Single(9)
	out, err := stream.Collect(context.Background(), stream.Concat(a, b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{1, 2, 9}) {
		t.Fatalf("expected [1 2 9], got %v", out)
	}
}

func TestLimitWhile(t *testing.T) {
	s := stream.LimitWhile(stream.FromSlice([]int{1, 2, 3, 2, 1}), func(n int) bool { return n < 3 })
	out, err := stream.Collect(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{1, 2}) {
		t.Fatalf("expected [1 2], got %v", out)
	}
}

func TestFoldStreamDoneCalledOnceOnEmpty(t *testing.T) {
	doneCalls := 0
	f := stream.Fold[int, int, int]{
		Begin: func() int { return 0 },
		Step:  func(acc, v int) (int, error) { return acc + v, nil },
		Done: func(acc int) (int, error) {
			doneCalls++
			return acc, nil
		},
	}
	sum, err := stream.FoldStream(context.Background(), stream.Empty[int](), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 0 || doneCalls != 1 {
		t.Fatalf("expected sum 0 and one Done call, got sum %d calls %d", sum, doneCalls)
	}
}

func TestFoldStreamSum(t *testing.T) {
	f := stream.Fold[int, int, int]{
		Begin: func() int { return 0 },
		Step:  func(acc, v int) (int, error) { return acc + v, nil },
		Done:  func(acc int) (int, error) { return acc, nil },
	}
	sum, err := stream.FoldStream(context.Background(), stream.FromSlice([]int{1, 2, 3, 4}), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 10 {
		t.Fatalf("expected 10, got %d", sum)
	}
}

func TestHeadAndLast(t *testing.T) {
	ctx := context.Background()
	s := stream.FromSlice([]string{"x", "y", "z"})

	v, ok, err := stream.Head(ctx, s)
	if err != nil || !ok || v != "x" {
		t.Fatalf("Head: got %q ok=%v err=%v", v, ok, err)
	}
	v, ok, err = stream.Last(ctx, s)
	if err != nil || !ok || v != "z" {
		t.Fatalf("Last: got %q ok=%v err=%v", v, ok, err)
	}
	_, ok, err = stream.Head(ctx, stream.Empty[string]())
	if err != nil || ok {
		t.Fatalf("Head of empty: ok=%v err=%v", ok, err)
	}
}

func TestErrorAbortsProduction(t *testing.T) {
	boom := errors.New("boom")
	seen := 0
	s := stream.MapErr(stream.FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	err := s.Run(context.Background(), func(int) error {
		seen++
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected 1 element before failure, got %d", seen)
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := stream.Drain(ctx, stream.FromSlice([]int{1, 2, 3}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
