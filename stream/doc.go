// Package stream provides a composable, push-style lazy sequence type.
//
// A Stream is a re-runnable description of an effectful sequence: building
// one performs no work, and every Run re-executes the effects underneath.
// Production is internal iteration (the producer drives the consumer's
// yield function), so sources backed by directory walks, file reads and
// subprocess pipes share one interface with in-memory slices.
//
// # Combinators
//
//   - Bind: depth-first ordered flattening of a dependent sub-stream
//   - Alt / Concat: ordered concatenation (run left to exhaustion, then right)
//   - Guard: zero-or-one unit stream, the filtering primitive
//   - Map, MapErr, Filter, Tap: per-element transforms
//   - Limit, LimitWhile: stop driving the producer after a prefix
//   - Zip: positional pairing of two concurrently-driven streams
//
// There is no implicit parallelism here: Bind and Concat are strictly
// ordered. Concurrency enters only through Zip and the proc package.
//
// # Usage
//
//	nums := stream.FromSlice([]int{1, 2, 3})
//	doubled := stream.Map(nums, func(n int) int { return n * 2 })
//	out, err := stream.Collect(ctx, doubled)
//
// Early termination runs through the production loop itself: Limit stops
// delegating to the producer, which observes an abandoned run and releases
// any live resources on its way out.
package stream
