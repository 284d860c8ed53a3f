// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"errors"
	"fmt"
)

var (
	// ErrBootTimeout-wrapped errors are returned when the guest's SSH
	// server did not accept a connection within the boot timeout.
	ErrBootTimeout = errors.New("guest not ready within boot timeout")

	// ErrMachineExited is returned when the machine process terminated
	// while waiting for the guest to become ready.
	ErrMachineExited = errors.New("machine exited before guest was ready")

	// ErrExitStatusLost-wrapped errors are returned when the session ended
	// before the remote exit status was received.
	ErrExitStatusLost = errors.New("exit status lost")
)

// AuthError wraps a handshake error caused by failed authentication.
//
// It is terminal. Retrying with the same key cannot succeed.
type AuthError struct {
	Err error
}

// Error implements the [error] interface.
func (e *AuthError) Error() string {
	return "authentication: " + e.Err.Error()
}

// Is implements the interface required by [errors.Is]. It matches any
// error of this type.
func (e *AuthError) Is(other error) bool {
	_, ok := other.(*AuthError)
	return ok
}

// Unwrap implements the interface required by [errors.Unwrap].
func (e *AuthError) Unwrap() error {
	return e.Err
}

// DeployError wraps errors that occurred while copying the program to the
// guest.
type DeployError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *DeployError) Error() string {
	return fmt.Sprintf("deploy %s: %v", e.Path, e.Err)
}

// Is implements the interface required by [errors.Is]. It matches any
// error of this type.
func (e *DeployError) Is(other error) bool {
	_, ok := other.(*DeployError)
	return ok
}

// Unwrap implements the interface required by [errors.Unwrap].
func (e *DeployError) Unwrap() error {
	return e.Err
}
