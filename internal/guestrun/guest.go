// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import "time"

const (
	userDefault         = "root"
	bootTimeoutDefault  = 60 * time.Second
	pollIntervalDefault = time.Second
	dialTimeoutDefault  = 10 * time.Second
)

// Guest describes how to reach the guest system once it is booted.
type Guest struct {
	// User is the guest user to authenticate as.
	User string

	// KeyFile is the path of the SSH private key for User.
	KeyFile string

	// BootTimeout bounds the time from machine start to the guest
	// accepting SSH connections.
	BootTimeout time.Duration

	// PollInterval is the pause between connection attempts while waiting
	// for the guest.
	PollInterval time.Duration

	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration
}

func (g *Guest) addDefaults() {
	if g.User == "" {
		g.User = userDefault
	}

	if g.BootTimeout == 0 {
		g.BootTimeout = bootTimeoutDefault
	}

	if g.PollInterval == 0 {
		g.PollInterval = pollIntervalDefault
	}

	if g.DialTimeout == 0 {
		g.DialTimeout = dialTimeoutDefault
	}
}
