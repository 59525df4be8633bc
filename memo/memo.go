package memo

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
	"github.com/kbukum/shellkit/stream"
)

// Record layout: one line per element, "+" followed by the JSON-encoded
// value; a bare "." terminates a recording that completed without error.
// The format is deliberately human-inspectable.
const (
	presentPrefix = "+"
	sentinel      = "."
)

// Memoize wraps s with a durable replay cache at path.
//
// On each run: if the file exists, parses completely and ends with the
// terminal sentinel, the recorded values are replayed in order and s is
// not run. If the file is absent, or present without a trailing
// sentinel (a prior run never finished), s is re-run with every
// element appended to the file as it is produced, and the sentinel is
// written only after s exhausts without error. A failure mid-run leaves
// the file sentinel-less, so the next run recomputes. A file that cannot
// be parsed is a fatal error, never silently discarded.
func Memoize[T any](path string, s stream.Stream[T]) stream.Stream[T] {
	return stream.New(func(ctx context.Context, yield func(T) error) error {
		cached, ok, err := load[T](path)
		if err != nil {
			return err
		}
		if ok {
			ctx, span := observability.StartSpan(ctx, observability.SpanMemoReplay)
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrCachePath, path)
			recordOutcome(ctx, "replay")
			logger.Get("memo").Debug("replaying cached stream", logger.Fields(
				"path", path,
				"records", len(cached),
			))
			for _, v := range cached {
				if err := yield(v); err != nil {
					return err
				}
			}
			return nil
		}
		ctx, span := observability.StartSpan(ctx, observability.SpanMemoRecord)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrCachePath, path)
		recordOutcome(ctx, "record")
		return record(ctx, path, s, yield)
	})
}

// recordOutcome bumps the memo outcome counter when a metrics-bearing run
// context is present.
func recordOutcome(ctx context.Context, outcome string) {
	if rc := observability.RunContextFromContext(ctx); rc != nil && rc.Metrics != nil {
		rc.Metrics.RecordMemo(ctx, outcome)
	}
}

// load reads a cache file. ok is true only when every line parses and the
// last line is the sentinel; a missing or unfinished file returns
// ok=false with no error, and a malformed one returns a fatal error.
func load[T any](path string) ([]T, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, goerrors.IOFailure(path, err)
	}
	defer f.Close()

	var values []T
	finished := false
	lineNo := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if finished {
			// Content after the sentinel means the file was tampered with.
			return nil, false, goerrors.CacheCorrupt(path, lineNo)
		}
		switch {
		case line == sentinel:
			finished = true
		case strings.HasPrefix(line, presentPrefix):
			var v T
			if err := json.Unmarshal([]byte(line[len(presentPrefix):]), &v); err != nil {
				return nil, false, goerrors.CacheCorrupt(path, lineNo).WithCause(err)
			}
			values = append(values, v)
		default:
			return nil, false, goerrors.CacheCorrupt(path, lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, false, goerrors.IOFailure(path, err)
	}
	if !finished {
		// Prior run never completed; recompute.
		return nil, false, nil
	}
	return values, true, nil
}

// record re-runs s, appending each element to the file as it is produced
// and the sentinel after clean exhaustion. Each record is flushed as
// written so an interrupted run leaves a visibly unfinished file.
func record[T any](ctx context.Context, path string, s stream.Stream[T], yield func(T) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return goerrors.IOFailure(path, err)
	}
	defer f.Close()

	// Feed, not Run: an abandoning consumer must not be mistaken for
	// clean exhaustion, or the sentinel would bless a truncated file.
	w := bufio.NewWriter(f)
	runErr := s.Feed(ctx, func(v T) error {
		enc, err := json.Marshal(v)
		if err != nil {
			return goerrors.Internal(err)
		}
		if _, err := w.WriteString(presentPrefix + string(enc) + "\n"); err != nil {
			return goerrors.IOFailure(path, err)
		}
		if err := w.Flush(); err != nil {
			return goerrors.IOFailure(path, err)
		}
		return yield(v)
	})
	if runErr != nil {
		// No sentinel: the file stays marked unfinished.
		return runErr
	}
	if _, err := w.WriteString(sentinel + "\n"); err != nil {
		return goerrors.IOFailure(path, err)
	}
	if err := w.Flush(); err != nil {
		return goerrors.IOFailure(path, err)
	}
	return nil
}
