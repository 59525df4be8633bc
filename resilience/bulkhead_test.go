package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_AllowsRunsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 3,
	})

	var runs int32

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&runs, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}

	wg.Wait()

	if runs != 3 {
		t.Errorf("expected all 3 commands to run, got %d", runs)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 1,
		MaxWait:       0,
	})

	// A long-running command holds the only slot.
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	err := b.Execute(context.Background(), func() error {
		return nil
	})

	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}

	close(release)
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 1,
		MaxWait:       100 * time.Millisecond,
	})

	// A short command holds the slot briefly.
	started := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}()

	<-started

	// The second run waits for the slot to free up.
	start := time.Now()
	err := b.Execute(context.Background(), func() error {
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if elapsed < 10*time.Millisecond {
		t.Errorf("expected some wait time, got %v", elapsed)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 1,
		MaxWait:       10 * time.Millisecond,
	})

	// The slot stays held past MaxWait.
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	err := b.Execute(context.Background(), func() error {
		return nil
	})

	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}

	close(release)
}

func TestBulkhead_RespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 1,
		MaxWait:       1 * time.Second,
	})

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := b.Execute(ctx, func() error {
		return nil
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}

	close(release)
}

func TestBulkhead_Callbacks(t *testing.T) {
	var acquired, released, rejected int32

	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 1,
		MaxWait:       0,
		OnAcquire: func(name string) {
			atomic.AddInt32(&acquired, 1)
		},
		OnRelease: func(name string) {
			atomic.AddInt32(&released, 1)
		},
		OnReject: func(name string) {
			atomic.AddInt32(&rejected, 1)
		},
	})

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	_ = b.Execute(context.Background(), func() error {
		return nil
	})

	close(release)
	time.Sleep(10 * time.Millisecond)

	if acquired != 1 {
		t.Errorf("expected 1 acquire callback, got %d", acquired)
	}
	if released != 1 {
		t.Errorf("expected 1 release callback, got %d", released)
	}
	if rejected != 1 {
		t.Errorf("expected 1 reject callback, got %d", rejected)
	}
}

func TestBulkhead_AvailableAndInUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "fanout",
		MaxConcurrent: 3,
	})

	if b.Available() != 3 {
		t.Errorf("expected 3 available, got %d", b.Available())
	}
	if b.InUse() != 0 {
		t.Errorf("expected 0 in use, got %d", b.InUse())
	}

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	if b.Available() != 2 {
		t.Errorf("expected 2 available, got %d", b.Available())
	}
	if b.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", b.InUse())
	}

	close(release)
	time.Sleep(10 * time.Millisecond)

	if b.Available() != 3 {
		t.Errorf("expected 3 available after release, got %d", b.Available())
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("fanout"))

	exitCode, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 0, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
}
