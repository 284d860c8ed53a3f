// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode defines how guest process exit codes travel through the
// program and which codes are reserved for reporting harness failures.
package exitcode

import (
	"errors"
	"fmt"
)

// Reserved exit codes. They identify failures of the harness itself, as
// opposed to exit codes of the guest binary, which are passed through
// verbatim. The band sits directly below the shell's 127/128+ conventions;
// 124 matches timeout(1), 125 and 126 keep their "tool broke" and "could not
// be invoked" meanings.
//
// A guest binary exiting with one of these codes is indistinguishable from
// the corresponding harness failure by exit code alone. Callers that need
// certainty must consult the error logging on stderr.
const (
	// DeployFailure means the binary could not be uploaded into the guest.
	DeployFailure = 121

	// ConnectionLost means the connection to the guest was lost before the
	// exit status of the binary was received.
	ConnectionLost = 122

	// SpawnFailure means the virtual machine could not be started or it
	// terminated before the guest system became reachable.
	SpawnFailure = 123

	// BootTimeout means the guest system did not accept connections within
	// the configured boot timeout.
	BootTimeout = 124

	// Internal is used for any harness failure that has no more specific
	// reserved code.
	Internal = 125

	// AuthFailure means the guest system rejected the configured
	// credentials.
	AuthFailure = 126
)

// Error is an exit code of the guest binary that is considered an error.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("non-zero exit code: %d", int(e))
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is 0. If the error is an [Error] the
// exit code is the return value of [Error.Code]. Otherwise the exit code is
// [Internal].
func From(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Internal, false
}
