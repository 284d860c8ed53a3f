// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is a validated QEMU command, ready to be started.
type Command struct {
	name    string
	args    []string
	verbose bool
}

// NewCommand builds the QEMU command for the given spec.
//
// The spec is validated and its argument list compiled. No process is
// started yet, use [Command.Start] for that.
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		name:    spec.Executable,
		args:    args,
		verbose: spec.Verbose,
	}

	return cmd, nil
}

// Args returns the complete argument strings the process is started with.
func (c *Command) Args() []string {
	return c.args
}

// String implements [fmt.Stringer].
func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// Start spawns the machine process.
//
// The machine's serial console is attached to an extra file descriptor and
// scanned for fatal guest events. If the command was built with Verbose set,
// console lines are relayed to consoleOut. The QEMU process' own error
// output goes to stderr.
//
// The returned [Machine] must be released with [Machine.Stop].
func (c *Command) Start(consoleOut, stderr io.Writer) (*Machine, error) {
	consoleRead, consoleWrite, err := os.Pipe()
	if err != nil {
		return nil, &CommandError{
			Err:      fmt.Errorf("console pipe: %w", err),
			ExitCode: -1,
		}
	}

	relay := consoleOut
	if !c.verbose {
		relay = nil
	}

	console := newConsoleScanner(consoleRead, relay)

	cmd := exec.Command(c.name, c.args...)
	cmd.Stderr = stderr
	cmd.ExtraFiles = []*os.File{consoleWrite}

	err = cmd.Start()
	if err != nil {
		_ = consoleRead.Close()
		_ = consoleWrite.Close()

		return nil, &CommandError{
			Err:      fmt.Errorf("start: %w", err),
			ExitCode: -1,
		}
	}

	machine := newMachine(cmd, console, consoleWrite)

	return machine, nil
}
