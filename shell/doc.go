// Package shell provides file, directory and text sources and sinks
// over the stream engine, in the shape of their Unix namesakes.
//
// Producers (Input, Stdin, Ls, LsTree, Find) are lazy: opening the
// underlying file or directory happens on each run, and the handle is
// released when the run ends. Sinks (Output, AppendTo, Stdout) drive a
// stream to exhaustion for its effects. Grep and Sed consume patterns
// through the Matcher interface, keeping the pattern language itself
// pluggable.
package shell
