package proc

import (
	"io"
	"sync/atomic"
)

// CloseGuard wraps an OS handle shared by multiple tasks so it is closed
// at most once. Every path that might release the handle (normal drain
// completion, cancellation, error unwind) calls Close; exactly one call
// performs the physical close and the rest observe it as already done.
type CloseGuard struct {
	closed atomic.Bool
	c      io.Closer
}

// NewCloseGuard returns a guard for c. A nil closer yields a guard whose
// Close is a no-op.
func NewCloseGuard(c io.Closer) *CloseGuard {
	return &CloseGuard{c: c}
}

// Close closes the underlying handle on the first call and returns nil on
// every later call. Safe for concurrent use.
func (g *CloseGuard) Close() error {
	if g.closed.Swap(true) {
		return nil
	}
	if g.c == nil {
		return nil
	}
	return g.c.Close()
}

// Closed reports whether Close has been called.
func (g *CloseGuard) Closed() bool {
	return g.closed.Load()
}
