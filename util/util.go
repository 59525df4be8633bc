package util

import (
	"fmt"
	"strings"
)

// Unique returns items with exact duplicates removed, first occurrence
// kept. Used to collapse repeated env pairs and config key variants.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; !ok {
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

// Coalesce returns the first non-zero value, or the zero value if all
// are zero. Used for config defaults.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ValidateNonEmpty rejects a value that is empty after trimming
// whitespace. A whitespace-only binary name passes an == "" check but
// can never be spawned.
func ValidateNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	return nil
}
