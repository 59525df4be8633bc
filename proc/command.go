package proc

import (
	"time"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/stream"
	"github.com/kbukum/shellkit/util"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin is a stream of lines fed to the process's standard input by a
	// background task. Nil means no stdin pipe is opened.
	Stdin *stream.Stream[string]
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Validate reports whether the command names something spawnable. A
// blank or whitespace-only binary is rejected before any pipe is opened.
func (c Command) Validate() error {
	if err := util.ValidateNonEmpty("binary", c.Binary); err != nil {
		return goerrors.MissingField("binary")
	}
	return nil
}

func (c Command) grace() time.Duration {
	if c.GracePeriod == 0 {
		return 5 * time.Second
	}
	return c.GracePeriod
}
