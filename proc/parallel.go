package proc

import (
	"context"
	"errors"
	"sync"

	"github.com/kbukum/shellkit/resilience"
	"github.com/kbukum/shellkit/stream"
)

// RunAll runs every command concurrently, with admission bounded by the
// bulkhead, and returns results in input order. All commands run to
// completion regardless of individual failures; the returned error
// joins every per-command failure, and the result slot for a failed
// command is nil.
func RunAll(ctx context.Context, bh *resilience.Bulkhead, cmds []Command) ([]*Result, error) {
	results := make([]*Result, len(cmds))
	errs := make([]error, len(cmds))

	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func(i int, cmd Command) {
			defer wg.Done()
			results[i], errs[i] = resilience.ExecuteWithResult(bh, ctx, func() (*Result, error) {
				return Run(ctx, cmd)
			})
		}(i, cmd)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// Throttle paces a line stream against the rate limiter: each line
// waits for a token before being delivered downstream. Pacing happens
// per run, so a re-run is throttled afresh.
func Throttle(rl *resilience.RateLimiter, s stream.Stream[string]) stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) error {
		return s.Feed(ctx, func(line string) error {
			if err := rl.Wait(ctx); err != nil {
				return err
			}
			return yield(line)
		})
	})
}
