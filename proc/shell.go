package proc

import (
	"context"

	"github.com/kbukum/shellkit/stream"
)

// DefaultShell is the shell used by the *Shell helpers. Override it from
// configuration before building shell commands.
var DefaultShell = "sh"

// ShellCommand builds a Command that runs cmdline through the shell.
func ShellCommand(cmdline string, stdin *stream.Stream[string]) Command {
	return Command{
		Binary: DefaultShell,
		Args:   []string{"-c", cmdline},
		Stdin:  stdin,
	}
}

// RunShell runs cmdline through the shell and captures its output.
func RunShell(ctx context.Context, cmdline string, stdin *stream.Stream[string]) (*Result, error) {
	return Run(ctx, ShellCommand(cmdline, stdin))
}

// StreamShell returns a lazy stream of the shell command's stdout lines.
func StreamShell(cmdline string, stdin *stream.Stream[string]) stream.Stream[string] {
	return Stream(ShellCommand(cmdline, stdin))
}
