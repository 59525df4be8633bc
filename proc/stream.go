package proc

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/stream"
)

// maxLineSize bounds a single output line. 1 MiB matches bufio defaults
// scaled for tool output like find or grep on long paths.
const maxLineSize = 1024 * 1024

// Source tags a combined-output line with the pipe it came from.
type Source int

const (
	// SourceStdout marks a line read from standard output.
	SourceStdout Source = iota
	// SourceStderr marks a line read from standard error.
	SourceStderr
)

func (s Source) String() string {
	if s == SourceStderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of combined subprocess output tagged by origin.
type Line struct {
	Text   string
	Source Source
}

// Stream returns a lazy stream of the command's stdout lines. Nothing is
// spawned until the stream is run. On each run the process is started
// fresh, its Stdin stream is fed by a background task, and stdout is
// drained one line per yield: the consumer's pace is the read pace, and
// the OS pipe provides backpressure to the child. Stderr is inherited.
//
// Whenever consumption ends, exhausted or abandoned early or failed, the
// driver stops and joins the feeder, force-closes all pipe guards,
// terminates the process if still alive, and reaps it. A non-zero exit
// status is raised only after stdout has been fully drained.
func Stream(cmd Command) stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) (err error) {
		r, err := spawn(ctx, cmd, false)
		if err != nil {
			return err
		}
		// The consuming loop blocks in pipe reads, so cancellation races
		// alongside it: a canceled context force-closes the pipes and
		// terminates the process, unblocking the read.
		stopWatch := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				r.abort()
			case <-stopWatch:
			}
		}()
		defer func() {
			close(stopWatch)
			err = r.cleanup(err)
		}()

		sc := bufio.NewScanner(r.stdout)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			if err := yield(sc.Text()); err != nil {
				return err
			}
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if serr := sc.Err(); serr != nil {
			return goerrors.IOFailure("", serr)
		}
		return nil
	})
}

// StreamWithErr returns a lazy stream of the command's stdout and stderr
// lines merged in arrival order and tagged by origin. Each pipe is drained
// by its own forwarding task onto one rendezvous channel; each task pushes
// a terminal marker when its pipe is exhausted, and the consuming loop
// stops after seeing both. Lines from one pipe stay in order; the relative
// interleaving of the two pipes is whatever the process produced.
func StreamWithErr(cmd Command) stream.Stream[Line] {
	return stream.New(func(ctx context.Context, yield func(Line) error) (err error) {
		r, err := spawn(ctx, cmd, true)
		if err != nil {
			return err
		}

		type forwarded struct {
			line Line
			err  error
			eof  bool
		}
		ch := make(chan forwarded)
		fwdCtx, cancelFwd := context.WithCancel(ctx)

		var wg sync.WaitGroup
		// Release order matters: stop the forwarders' sends, force their
		// pipe reads to return, join them, then run the shared cleanup.
		defer func() {
			cancelFwd()
			r.outGuard.Close()
			r.errGuard.Close()
			wg.Wait()
			err = r.cleanup(err)
		}()
		forward := func(pipe io.Reader, src Source) {
			defer wg.Done()
			sc := bufio.NewScanner(pipe)
			sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
			for sc.Scan() {
				select {
				case ch <- forwarded{line: Line{Text: sc.Text(), Source: src}}:
				case <-fwdCtx.Done():
					return
				}
			}
			serr := sc.Err()
			if isClosedPipe(serr) {
				// Guard force-closed the pipe during cleanup.
				serr = nil
			}
			select {
			case ch <- forwarded{err: serr, eof: true}:
			case <-fwdCtx.Done():
			}
		}
		wg.Add(2)
		go forward(r.stdout, SourceStdout)
		go forward(r.stderr, SourceStderr)

		markers := 0
		for markers < 2 {
			var f forwarded
			select {
			case f = <-ch:
			case <-ctx.Done():
				return ctx.Err()
			}
			switch {
			case f.eof:
				markers++
				if f.err != nil {
					return goerrors.IOFailure("", f.err)
				}
			default:
				if err := yield(f.line); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// running holds one spawned process and the tasks and guards attached to
// it for the duration of a single stream run.
type running struct {
	cmd    Command
	c      *exec.Cmd
	stdout io.Reader
	stderr io.Reader

	inGuard  *CloseGuard
	outGuard *CloseGuard
	errGuard *CloseGuard

	cancelFeed context.CancelFunc
	feedDone   chan error

	log *logger.Logger
}

// spawn starts the process with the requested pipes and launches the
// stdin feeder. A spawn failure is returned immediately with no
// background tasks started.
func spawn(ctx context.Context, cmd Command, mergeStderr bool) (*running, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c := exec.Command(cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, goerrors.Internal(err)
	}
	var stderr io.ReadCloser
	if mergeStderr {
		stderr, err = c.StderrPipe()
		if err != nil {
			return nil, goerrors.Internal(err)
		}
	} else {
		c.Stderr = os.Stderr
	}
	var stdin io.WriteCloser
	if cmd.Stdin != nil {
		stdin, err = c.StdinPipe()
		if err != nil {
			return nil, goerrors.Internal(err)
		}
	}

	if err := c.Start(); err != nil {
		return nil, spawnError(cmd.Binary, err)
	}

	r := &running{
		cmd:      cmd,
		c:        c,
		stdout:   stdout,
		stderr:   stderr,
		outGuard: NewCloseGuard(stdout),
		errGuard: NewCloseGuard(stderr),
		feedDone: make(chan error, 1),
		log: logger.Get("proc").WithFields(logger.Fields(
			"run_id", uuid.NewString()[:8],
			"binary", cmd.Binary,
			"pid", c.Process.Pid,
		)),
	}

	feedCtx, cancelFeed := context.WithCancel(ctx)
	r.cancelFeed = cancelFeed
	if stdin != nil {
		r.inGuard = NewCloseGuard(stdin)
		go func() {
			err := feedLines(feedCtx, *cmd.Stdin, stdin)
			// The input handle is released whether the write loop finished,
			// was canceled, or failed.
			if cerr := r.inGuard.Close(); err == nil {
				err = cerr
			}
			r.feedDone <- err
		}()
	} else {
		r.inGuard = NewCloseGuard(nil)
		r.feedDone <- nil
	}

	r.log.Debug("process started")
	return r, nil
}

// cleanup runs the unconditional release sequence: stop and join the
// feeder, force the pipe guards closed, terminate the process if still
// alive, and reap it. It runs identically on the exhausted, abandoned,
// and error paths. The primary error is never masked by cleanup errors;
// with no primary error, a feeder failure is re-raised first and a
// non-zero exit status second.
func (r *running) cleanup(primary error) error {
	r.cancelFeed()
	feedErr := <-r.feedDone

	r.inGuard.Close()
	r.outGuard.Close()
	r.errGuard.Close()

	waitErr := r.reap()
	r.log.Debug("process cleanup complete")

	if primary != nil {
		return primary
	}
	if !benignFeedErr(feedErr) {
		return feedErr
	}
	return waitErr
}

// abort force-closes the output pipes and terminates the process group,
// unblocking any task stuck in a pipe read. Safe against a run that is
// completing naturally; guards and signals are both idempotent.
func (r *running) abort() {
	r.outGuard.Close()
	r.errGuard.Close()
	if r.c.Process != nil {
		_ = syscall.Kill(-r.c.Process.Pid, syscall.SIGTERM)
	}
}

// reap terminates the process group if still running and waits for exit.
// SIGKILL follows after the grace period if SIGTERM is not enough. The
// non-zero-exit error is only meaningful on the fully-drained path;
// cleanup discards it when a primary error is already in flight.
func (r *running) reap() error {
	if r.c.Process != nil {
		// Ignored when the process already exited; signaling is idempotent
		// with respect to natural completion.
		_ = syscall.Kill(-r.c.Process.Pid, syscall.SIGTERM)
	}
	done := make(chan error, 1)
	go func() { done <- r.c.Wait() }()

	var werr error
	select {
	case werr = <-done:
	case <-time.After(r.cmd.grace()):
		if r.c.Process != nil {
			_ = syscall.Kill(-r.c.Process.Pid, syscall.SIGKILL)
		}
		werr = <-done
	}
	if werr == nil {
		return nil
	}
	code := -1
	if r.c.ProcessState != nil {
		code = r.c.ProcessState.ExitCode()
	}
	return &ExitError{Binary: r.cmd.Binary, Args: r.cmd.Args, Code: code}
}
