// Package resilience provides patterns for building fault-tolerant systems.
//
// This package includes:
//   - CircuitBreaker: Prevents cascading failures by failing fast
//   - Retry: Retries failed operations with exponential backoff
//   - Bulkhead: Limits concurrent access to isolate failures
//   - RateLimiter: Paces line and run throughput with a token bucket
//
// These patterns can be combined for comprehensive resilience:
//
//	// Example: flaky external command with all patterns
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("sync"))
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 4})
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 10, Burst: 2})
//
//	err := cb.Execute(func() error {
//	    return bh.Execute(ctx, func() error {
//	        return rl.ExecuteWait(ctx, func() error {
//	            return runSync(ctx)
//	        })
//	    })
//	})
package resilience
