package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
	"github.com/kbukum/shellkit/stream"
)

// Run executes a subprocess and waits for it to complete, capturing stdout
// and stderr in full. A Stdin stream on the command is fed to the process
// by a background task running opposite the output readers; all of them
// are joined before Run returns. If the context is canceled, SIGTERM is
// sent to the process group first, then SIGKILL after GracePeriod.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "proc.Run")
	defer span.End()
	observability.SetSpanAttribute(ctx, "proc.binary", cmd.Binary)

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	// Use process group so the entire tree can be killed together.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately.
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.grace()

	var in io.WriteCloser
	if cmd.Stdin != nil {
		pipe, err := c.StdinPipe()
		if err != nil {
			return nil, goerrors.Internal(err)
		}
		in = pipe
	}

	start := time.Now()
	if err := c.Start(); err != nil {
		// No background tasks exist yet on this path.
		return nil, spawnError(cmd.Binary, err)
	}

	feedCtx, cancelFeed := context.WithCancel(ctx)
	defer cancelFeed()
	feedDone := make(chan error, 1)
	if in != nil {
		guard := NewCloseGuard(in)
		go func() {
			err := feedLines(feedCtx, *cmd.Stdin, in)
			if cerr := guard.Close(); err == nil {
				err = cerr
			}
			feedDone <- err
		}()
	} else {
		feedDone <- nil
	}

	werr := c.Wait()
	cancelFeed()
	feedErr := <-feedDone
	duration := time.Since(start)

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: duration,
	}
	observability.SetSpanAttribute(ctx, "proc.exit_code", result.ExitCode)

	if werr != nil {
		// Context cancellation is the expected way to kill a process.
		if ctx.Err() != nil {
			observability.SetSpanError(ctx, ctx.Err())
			return result, goerrors.Canceled("proc.Run").WithCause(ctx.Err())
		}
		exitErr := &ExitError{Binary: cmd.Binary, Args: cmd.Args, Code: result.ExitCode}
		observability.SetSpanError(ctx, exitErr)
		return result, exitErr
	}
	if !benignFeedErr(feedErr) {
		observability.SetSpanError(ctx, feedErr)
		return result, feedErr
	}

	logger.Get("proc").Debug("process completed", logger.Fields(
		"binary", cmd.Binary,
		"exit_code", result.ExitCode,
		"duration_ms", duration.Milliseconds(),
	))
	return result, nil
}

// Output runs the command and returns its stdout as a string.
func Output(ctx context.Context, cmd Command) (string, error) {
	res, err := Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	return string(res.Stdout), nil
}

// Lines runs the command and returns its stdout split into lines.
func Lines(ctx context.Context, cmd Command) ([]string, error) {
	res, err := Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return splitLines(res.Stdout), nil
}

// feedLines writes each line of src to w, flushing per line so the child
// sees input as it is produced.
func feedLines(ctx context.Context, src stream.Stream[string], w io.Writer) error {
	bw := bufio.NewWriter(w)
	err := src.Run(ctx, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		return bw.Flush()
	})
	if ferr := bw.Flush(); err == nil && !isClosedPipe(ferr) {
		err = ferr
	}
	return err
}

// benignFeedErr reports feeder failures that simply mean the run ended
// before the input stream did: the child stopped reading, or the feeder
// was canceled during cleanup. Anything else is re-raised to the caller.
func benignFeedErr(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return isClosedPipe(err)
}

func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var lines []string
	s := bufio.NewScanner(bytes.NewReader(b))
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines
}
