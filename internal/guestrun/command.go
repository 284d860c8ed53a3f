// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import "time"

const deployDirDefault = "/tmp"

// Command describes the program to run in the guest system.
type Command struct {
	// Binary is the host path of the program to upload and run.
	Binary string

	// Args are passed to the program as given.
	Args []string

	// Env holds additional environment variables for the program as
	// "KEY=VALUE" pairs.
	Env []string

	// DeployDir is the guest directory the program is uploaded below. Each
	// run uses its own unique sub directory.
	DeployDir string

	// Timeout bounds the execution of the program in the guest. It does
	// not cover machine boot and deployment. Zero means no bound.
	Timeout time.Duration
}

func (c *Command) addDefaults() {
	if c.DeployDir == "" {
		c.DeployDir = deployDirDefault
	}
}
