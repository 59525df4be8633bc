package proc

import (
	"context"
	"errors"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/resilience"
)

// Runner wraps strict subprocess execution with an opt-in retry policy.
// Nothing in this package retries on its own: the caller decides by
// constructing a Runner and calling it. A zero config gets the resilience
// package defaults with retry restricted to retryable failures.
type Runner struct {
	cfg resilience.RetryConfig
	cb  *resilience.CircuitBreaker
}

// NewRunner creates a Runner with the given retry config. A nil RetryIf
// is replaced with one that consults the error's retryable classification
// and never retries a spawn failure.
func NewRunner(cfg resilience.RetryConfig) *Runner {
	if cfg.RetryIf == nil {
		cfg.RetryIf = retriable
	}
	return &Runner{cfg: cfg}
}

// WithBreaker installs a circuit breaker consulted around every attempt.
// Once the breaker opens, attempts fail fast without spawning anything.
func (r *Runner) WithBreaker(cb *resilience.CircuitBreaker) *Runner {
	r.cb = cb
	return r
}

// Run executes the command, retrying per the configured policy.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	return resilience.Retry(ctx, r.cfg, func() (*Result, error) {
		return r.attempt(ctx, cmd)
	})
}

func (r *Runner) attempt(ctx context.Context, cmd Command) (*Result, error) {
	if r.cb == nil {
		return Run(ctx, cmd)
	}
	var res *Result
	err := r.cb.Execute(func() error {
		var runErr error
		res, runErr = Run(ctx, cmd)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// retriable consults the structured error classification: process exits
// and I/O failures retry, spawn failures and cancellations do not.
func retriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return true
	}
	var appErr *goerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}
