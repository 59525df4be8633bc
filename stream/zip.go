package stream

import (
	"context"
	"errors"
	"sync"
)

// Pair holds one positionally-matched element from each zipped stream.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// errZipDone tells a producer the zip has finished and it should stop.
var errZipDone = errors.New("stream: zip done")

// mergePhase is the four-valued handshake state pairing elements from two
// independently scheduled producers. Exactly one phase holds at a time and
// every transition happens under the lock; once done, no further pairing
// occurs.
type mergePhase int

const (
	phaseEmpty mergePhase = iota
	phaseLeft
	phasePair
	phaseDone
)

type mergeState[A, B any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	phase mergePhase
	left  A
	right B
}

func newMergeState[A, B any]() *mergeState[A, B] {
	m := &mergeState[A, B]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// await blocks until pred holds for the current phase, then runs fn under
// the lock and broadcasts the transition. Returns errZipDone if the state
// reached done while waiting.
func (m *mergeState[A, B]) await(pred func(mergePhase) bool, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !pred(m.phase) && m.phase != phaseDone {
		m.cond.Wait()
	}
	if m.phase == phaseDone {
		return errZipDone
	}
	fn()
	m.cond.Broadcast()
	return nil
}

// finish transitions any non-done phase to done immediately. Used on
// consumer abandonment, where a pending pair is discarded.
func (m *mergeState[A, B]) finish() {
	m.mu.Lock()
	m.phase = phaseDone
	m.mu.Unlock()
	m.cond.Broadcast()
}

// finishDrained transitions to done once nothing claimable is pending. A
// completed pair is always waited out so the consumer never loses a pair
// it has yet to claim. waitLeft additionally waits out a posted-but-
// unpaired left: the left producer's own final element must be paired or
// proven unpairable before done is set, and only the right producer
// exhausting proves that, so only the right side drops a pending left.
// Truncation at the shorter input.
func (m *mergeState[A, B]) finishDrained(waitLeft bool) {
	m.mu.Lock()
	for m.phase == phasePair || (waitLeft && m.phase == phaseLeft) {
		m.cond.Wait()
	}
	m.phase = phaseDone
	m.mu.Unlock()
	m.cond.Broadcast()
}

// Zip pairs the two streams element by element. Each side is driven by its
// own goroutine; the handshake admits a left value only into an empty
// state and a right value only against a waiting left, so pairing is
// strictly positional. Either side exhausting its source transitions the
// state to done, truncating the result at the shorter input. Both producer
// goroutines are joined before the zip reports exhaustion.
func Zip[A, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	return Stream[Pair[A, B]]{produce: func(ctx context.Context, yield func(Pair[A, B]) error) error {
		st := newMergeState[A, B]()

		var wg sync.WaitGroup
		errs := make(chan error, 2)

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := a.produce(ctx, func(v A) error {
				return st.await(
					func(p mergePhase) bool { return p == phaseEmpty },
					func() { st.left = v; st.phase = phaseLeft },
				)
			})
			if err != nil && !errors.Is(err, errZipDone) {
				errs <- err
			}
			st.finishDrained(err == nil)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.produce(ctx, func(v B) error {
				return st.await(
					func(p mergePhase) bool { return p == phaseLeft },
					func() { st.right = v; st.phase = phasePair },
				)
			})
			if err != nil && !errors.Is(err, errZipDone) {
				errs <- err
			}
			st.finishDrained(false)
		}()

		// Consumer loop: claim each completed pair, reset the state, and
		// push the pair downstream. Stops when either producer finishes.
		var consumeErr error
		for {
			var p Pair[A, B]
			err := st.await(
				func(ph mergePhase) bool { return ph == phasePair },
				func() { p = Pair[A, B]{Left: st.left, Right: st.right}; st.phase = phaseEmpty },
			)
			if errors.Is(err, errZipDone) {
				break
			}
			if err := yield(p); err != nil {
				consumeErr = err
				break
			}
		}
		st.finish()
		wg.Wait()
		close(errs)

		if consumeErr != nil {
			return consumeErr
		}
		for err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	}}
}
