package util

import "strings"

// shellSafe reports whether every byte of s can appear unquoted in a
// POSIX shell word.
func shellSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case strings.ContainsRune("@%+=:,./_-", rune(c)):
		default:
			return false
		}
	}
	return true
}

// ShellQuote returns s in a form safe to embed in a POSIX shell command
// line. Safe words pass through untouched; everything else is wrapped in
// single quotes, with embedded single quotes escaped by closing and
// reopening the quoted region.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ShellQuoteAll quotes each word and joins them with single spaces.
func ShellQuoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = ShellQuote(w)
	}
	return strings.Join(quoted, " ")
}
