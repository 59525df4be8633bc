// Package util provides small helpers shared across the library:
// shell-word quoting for command templating, slice de-duplication, and
// config default selection.
package util
