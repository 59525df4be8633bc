package shell

import (
	"fmt"

	"github.com/kbukum/shellkit/proc"
	"github.com/kbukum/shellkit/stream"
	"github.com/kbukum/shellkit/util"
)

// SSH builds a command that runs cmdline on host through the local ssh
// client. This is plain string templating into a local shell
// invocation; it adds no remote execution machinery of its own.
func SSH(host, cmdline string, stdin *stream.Stream[string]) proc.Command {
	remote := fmt.Sprintf("ssh %s %s", util.ShellQuote(host), util.ShellQuote(cmdline))
	return proc.ShellCommand(remote, stdin)
}

// StreamSSH returns a lazy stream of the remote command's output lines.
func StreamSSH(host, cmdline string, stdin *stream.Stream[string]) stream.Stream[string] {
	return proc.Stream(SSH(host, cmdline, stdin))
}
