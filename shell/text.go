package shell

import (
	"strings"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/stream"
)

// Cat concatenates the given line streams in order, like multi-file cat.
func Cat(streams ...stream.Stream[string]) stream.Stream[string] {
	return stream.Concat(streams...)
}

// Grep keeps only the lines the matcher accepts.
func Grep(m Matcher, s stream.Stream[string]) stream.Stream[string] {
	return stream.Filter(s, func(line string) bool {
		return len(m.Match(line)) > 0
	})
}

// Sed rewrites each line by substituting replacement for the pattern's
// matches; lines without a match pass through unchanged. Patterns that
// match the empty string would substitute at every position forever, so
// they are rejected up front.
func Sed(m Matcher, replacement string, s stream.Stream[string]) (stream.Stream[string], error) {
	if len(m.Match("")) > 0 {
		return stream.Stream[string]{}, goerrors.InvalidPattern("pattern matches the empty string")
	}
	return stream.Map(s, func(line string) string {
		return substitute(m, line, replacement)
	}), nil
}

func substitute(m Matcher, line, replacement string) string {
	if r, ok := m.(Replacer); ok {
		return r.Replace(line, replacement)
	}
	matches := m.Match(line)
	if len(matches) == 0 {
		return line
	}
	return strings.ReplaceAll(line, matches[0], replacement)
}
