// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/aibor/guestrun/internal/exitcode"
)

// ExecSpec describes a program invocation on the guest.
type ExecSpec struct {
	// Path of the program to run.
	Path string

	// Dir is the working directory the program is run in. Empty means the
	// login directory of the user.
	Dir string

	// Args are passed to the program as given.
	Args []string

	// Env holds additional environment variables as "KEY=VALUE" pairs.
	Env []string
}

// command renders the invocation into a single shell command line.
//
// Environment variables are set with env(1) instead of the SSH env request,
// which sshd accepts only for names listed in its AcceptEnv directive.
func (s *ExecSpec) command() string {
	words := make([]string, 0, len(s.Env)+len(s.Args)+2)

	if len(s.Env) > 0 {
		words = append(words, "env")
		for _, pair := range s.Env {
			words = append(words, shellQuote(pair))
		}
	}

	words = append(words, shellQuote(s.Path))

	for _, arg := range s.Args {
		words = append(words, shellQuote(arg))
	}

	cmd := "exec " + strings.Join(words, " ")

	if s.Dir != "" {
		cmd = "cd " + shellQuote(s.Dir) + " && " + cmd
	}

	return cmd
}

// shellQuote wraps s in single quotes so the remote shell passes it through
// verbatim. Embedded single quotes end the quoted string, emit a literal
// quote and start a new quoted string.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Exec runs the program described by spec on the guest.
//
// The program's standard streams are attached to the given ones for the
// lifetime of the session. Output is relayed as it arrives.
//
// A non-zero remote exit code is returned as [exitcode.Error]. If the
// session ends without delivering an exit status, the returned error wraps
// [ErrExitStatusLost]. A canceled context tears the session down and its
// cause is returned.
func (c *Client) Exec(
	ctx context.Context,
	spec ExecSpec,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	session, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer session.Close()

	session.Stdin = stdin
	session.Stdout = stdout
	session.Stderr = stderr

	stop := context.AfterFunc(ctx, func() {
		_ = session.Close()
	})
	defer stop()

	err = session.Run(spec.command())
	if err == nil {
		return nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitcode.Error(exitErr.ExitStatus())
	}

	if ctx.Err() != nil {
		return ctx.Err() //nolint:wrapcheck
	}

	// Covers [ssh.ExitMissingError] as well as transport errors. Either
	// way the result of the run is gone.
	return fmt.Errorf("%w: %w", ErrExitStatusLost, err)
}
