// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Machine is a running QEMU process.
type Machine struct {
	cmd          *exec.Cmd
	console      *consoleScanner
	consoleWrite *os.File
	consoleGroup errgroup.Group

	waitErr error
	done    chan struct{}
}

func newMachine(
	cmd *exec.Cmd,
	console *consoleScanner,
	consoleWrite *os.File,
) *Machine {
	machine := &Machine{
		cmd:          cmd,
		console:      console,
		consoleWrite: consoleWrite,
		done:         make(chan struct{}),
	}

	machine.consoleGroup.Go(console.run)
	go machine.watch()

	return machine
}

// watch collects the process and console results. It runs for the lifetime
// of the machine process.
func (m *Machine) watch() {
	err := m.cmd.Wait()

	// The process held the last writer of the console pipe. Closing our
	// copy lets the scanner see EOF.
	_ = m.consoleWrite.Close()

	scanErr := m.consoleGroup.Wait()

	m.waitErr = wrapCommandError(errors.Join(err, scanErr))
	close(m.done)
}

// Done returns a channel that is closed once the machine process has exited.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// Err returns the process result. It must not be called before the channel
// returned by [Machine.Done] is closed. It returns nil if the process exited
// with code 0.
func (m *Machine) Err() error {
	return m.waitErr
}

// BootDiagnosis returns a fatal guest event found in the console stream,
// like a kernel panic, or nil. It must not be called before the channel
// returned by [Machine.Done] is closed.
func (m *Machine) BootDiagnosis() error {
	return m.console.diagnosis()
}

// Wait blocks until the machine process has exited or the context is done.
func (m *Machine) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-m.done:
		return m.waitErr
	}
}

// Stop terminates the machine process and blocks until it has exited.
//
// The process is asked to terminate first and killed once the grace period
// has passed. Stop is safe to call on an already exited machine.
func (m *Machine) Stop(grace time.Duration) error {
	select {
	case <-m.done:
		return nil
	default:
	}

	err := m.cmd.Process.Signal(unix.SIGTERM)
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("terminate: %w", err)
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-m.done:
		return nil
	case <-timer.C:
	}

	err = m.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill: %w", err)
	}

	<-m.done

	return nil
}

// wrapCommandError turns the result of [exec.Cmd.Wait] into a
// [CommandError], keeping the process exit code accessible.
func wrapCommandError(err error) error {
	if err == nil {
		return nil
	}

	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &CommandError{
		Err:      err,
		ExitCode: exitCode,
	}
}
