// Package memo provides durable, file-backed memoization of streams.
//
// Memoize wraps a stream with an append-only cache file. The first
// complete run records every element plus a terminal sentinel; later
// runs replay the recording instead of re-executing the stream's
// effects. A run that fails or is abandoned leaves the file without the
// sentinel, so the next run recomputes from scratch. Files that exist
// but cannot be parsed are reported as corruption rather than silently
// discarded, since the cache may be the only surviving copy of an
// expensive computation.
package memo
