package shell

import (
	"regexp"
	"strings"

	goerrors "github.com/kbukum/shellkit/errors"
)

// Matcher is the narrow interface through which filtering and
// substitution consume text patterns. Match returns every candidate
// match of the pattern in text, in order; an empty result means the
// text is rejected.
type Matcher interface {
	Match(text string) []string
}

// Replacer is an optional upgrade a Matcher can implement to perform
// substitution natively. Sed prefers it over the generic
// replace-first-candidate fallback.
type Replacer interface {
	Replace(text, replacement string) string
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a Matcher backed by the standard regexp
// engine. The returned Matcher also implements Replacer.
func Regexp(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, goerrors.InvalidPattern(expr).WithCause(err)
	}
	return regexpMatcher{re: re}, nil
}

// MustRegexp is Regexp for patterns known valid at compile time.
// It panics on a malformed expression.
func MustRegexp(expr string) Matcher {
	m, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func (m regexpMatcher) Match(text string) []string {
	return m.re.FindAllString(text, -1)
}

func (m regexpMatcher) Replace(text, replacement string) string {
	return m.re.ReplaceAllString(text, replacement)
}

type containsMatcher struct {
	substr string
}

// Contains matches any text containing substr.
func Contains(substr string) Matcher {
	return containsMatcher{substr: substr}
}

func (m containsMatcher) Match(text string) []string {
	n := strings.Count(text, m.substr)
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = m.substr
	}
	return out
}

func (m containsMatcher) Replace(text, replacement string) string {
	return strings.ReplaceAll(text, m.substr, replacement)
}

type prefixMatcher struct {
	prefix string
}

// Prefix matches any text starting with prefix.
func Prefix(prefix string) Matcher {
	return prefixMatcher{prefix: prefix}
}

func (m prefixMatcher) Match(text string) []string {
	if strings.HasPrefix(text, m.prefix) {
		return []string{m.prefix}
	}
	return nil
}

type suffixMatcher struct {
	suffix string
}

// Suffix matches any text ending with suffix.
func Suffix(suffix string) Matcher {
	return suffixMatcher{suffix: suffix}
}

func (m suffixMatcher) Match(text string) []string {
	if strings.HasSuffix(text, m.suffix) {
		return []string{m.suffix}
	}
	return nil
}
