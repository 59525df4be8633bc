package proc

import (
	"fmt"
	"strings"

	"github.com/kbukum/shellkit/errors"
)

// ExitError reports a process that ran to completion with a non-zero
// status. It is raised only after the process's output has been fully
// drained to the consumer.
type ExitError struct {
	// Binary is the executable that was run.
	Binary string
	// Args are the arguments it was run with.
	Args []string
	// Code is the non-zero exit status.
	Code int
}

func (e *ExitError) Error() string {
	if len(e.Args) == 0 {
		return fmt.Sprintf("proc: %s exited with status %d", e.Binary, e.Code)
	}
	return fmt.Sprintf("proc: %s %s exited with status %d", e.Binary, strings.Join(e.Args, " "), e.Code)
}

// spawnError wraps an immediate spawn failure (executable missing,
// permission denied). No background tasks exist when it is returned.
func spawnError(binary string, cause error) error {
	return errors.SpawnFailed(binary).WithCause(cause)
}
