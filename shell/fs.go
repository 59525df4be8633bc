package shell

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/stream"
)

// maxLineSize bounds a single scanned line. Matches the limit used for
// subprocess output.
const maxLineSize = 1024 * 1024

func scanLines(ctx context.Context, r *bufio.Scanner, path string, yield func(string) error) error {
	r.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for r.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := yield(r.Text()); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		return goerrors.IOFailure(path, err)
	}
	return nil
}

// Input streams the lines of the file at path. The file is opened on
// each run and closed when the run ends, however it ends.
func Input(path string) stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) error {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return goerrors.NotFound(path)
			}
			return goerrors.IOFailure(path, err)
		}
		defer f.Close()
		return scanLines(ctx, bufio.NewScanner(f), path, yield)
	})
}

// Stdin streams lines from the process's standard input.
func Stdin() stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) error {
		return scanLines(ctx, bufio.NewScanner(os.Stdin), "stdin", yield)
	})
}

func sink(ctx context.Context, path string, flags int, s stream.Stream[string]) error {
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return goerrors.IOFailure(path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	err = s.Run(ctx, func(line string) error {
		if _, werr := w.WriteString(line + "\n"); werr != nil {
			return goerrors.IOFailure(path, werr)
		}
		return nil
	})
	if err != nil {
		// Lines already accepted still belong in the file; the stream
		// error stays the reported one.
		_ = w.Flush()
		return err
	}
	if err := w.Flush(); err != nil {
		return goerrors.IOFailure(path, err)
	}
	return nil
}

// Output runs s and writes each line to the file at path, replacing any
// previous content.
func Output(ctx context.Context, path string, s stream.Stream[string]) error {
	return sink(ctx, path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s)
}

// AppendTo runs s and appends each line to the file at path.
func AppendTo(ctx context.Context, path string, s stream.Stream[string]) error {
	return sink(ctx, path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, s)
}

// Stdout runs s and writes each line to the process's standard output.
func Stdout(ctx context.Context, s stream.Stream[string]) error {
	return s.Run(ctx, func(line string) error {
		_, err := fmt.Fprintln(os.Stdout, line)
		return err
	})
}

// Ls streams the immediate children of the directory at path, as paths
// joined onto path. Listing order follows the directory read order.
func Ls(path string) stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) error {
		entries, err := os.ReadDir(path)
		if err != nil {
			if os.IsNotExist(err) {
				return goerrors.NotFound(path)
			}
			return goerrors.IOFailure(path, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := yield(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
		return nil
	})
}

// LsTree streams the transitive children of the directory at path:
// each child is produced before its own descendants. Symbolic links are
// produced but never followed.
func LsTree(path string) stream.Stream[string] {
	return stream.Bind(Ls(path), func(child string) stream.Stream[string] {
		return stream.Alt(stream.Single(child), descend(child))
	})
}

func descend(path string) stream.Stream[string] {
	return stream.New(func(ctx context.Context, yield func(string) error) error {
		info, err := os.Lstat(path)
		if err != nil {
			return goerrors.IOFailure(path, err)
		}
		if !info.IsDir() {
			return nil
		}
		return LsTree(path).Feed(ctx, yield)
	})
}

// Find streams every path under dir whose text the matcher accepts.
func Find(m Matcher, dir string) stream.Stream[string] {
	return Grep(m, LsTree(dir))
}
