// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WaitReady connects to the SSH server of a booting guest.
//
// Connection attempts are made immediately and then once per interval until
// one succeeds or timeout has passed. A closed exited channel aborts the
// wait, there is no point in probing a machine that is gone. [AuthError] is
// terminal as well and returned right away.
//
// On timeout the returned error wraps [ErrBootTimeout] and the error of the
// last attempt.
func WaitReady(
	ctx context.Context,
	cfg Config,
	interval time.Duration,
	timeout time.Duration,
	exited <-chan struct{},
) (*Client, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		client, err := Dial(cfg)
		if err == nil {
			return client, nil
		}

		if errors.Is(err, &AuthError{}) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err() //nolint:wrapcheck
		case <-exited:
			return nil, ErrMachineExited
		case <-deadline.C:
			return nil, fmt.Errorf("%w: last attempt: %w", ErrBootTimeout, err)
		case <-ticker.C:
		}
	}
}
