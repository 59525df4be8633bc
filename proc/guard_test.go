package proc_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/shellkit/proc"
)

type countingCloser struct {
	closes atomic.Int32
}

func (c *countingCloser) Close() error {
	c.closes.Add(1)
	return nil
}

func TestCloseGuardClosesOnce(t *testing.T) {
	var c countingCloser
	g := proc.NewCloseGuard(&c)
	if g.Closed() {
		t.Fatal("guard reported closed before Close")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if got := c.closes.Load(); got != 1 {
		t.Fatalf("expected exactly one physical close, got %d", got)
	}
	if !g.Closed() {
		t.Fatal("guard did not report closed")
	}
}

func TestCloseGuardConcurrentRace(t *testing.T) {
	var c countingCloser
	g := proc.NewCloseGuard(&c)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Close()
		}()
	}
	wg.Wait()

	if got := c.closes.Load(); got != 1 {
		t.Fatalf("expected exactly one physical close under race, got %d", got)
	}
}

func TestCloseGuardNilCloser(t *testing.T) {
	g := proc.NewCloseGuard(nil)
	if err := g.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Closed() {
		t.Fatal("guard did not report closed")
	}
}
