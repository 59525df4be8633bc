// Package proc drives external processes as stream producers and
// consumers.
//
// Three forms of execution are provided:
//
//   - Run: strict. Feed a stdin stream, capture stdout and stderr whole,
//     return a Result with the exit code.
//   - Stream: lazy. Stdout becomes a stream of lines, drained at the
//     consumer's pace while a background task feeds stdin.
//   - StreamWithErr: lazy with stderr merged in. Stdout and stderr lines
//     arrive on one stream, tagged by origin, in true arrival order.
//
// Every run owns its process exclusively. Whenever consumption ends,
// whether exhausted, abandoned early (a Limit upstream) or failed, the driver
// stops and joins its background tasks, closes every pipe through a
// CloseGuard, terminates the process group if still alive (SIGTERM, then
// SIGKILL after the grace period), and reaps it. Nothing is leaked and
// nothing is left running.
//
// Error contract: spawn failures surface immediately with no tasks
// started; a non-zero exit surfaces as *ExitError only after all output
// has been drained; background-task failures are re-raised to the
// consumer, never swallowed.
//
//	lines := proc.Stream(proc.Command{Binary: "find", Args: []string{"."}})
//	first, _, err := stream.Head(ctx, lines) // process reaped before Head returns
package proc
