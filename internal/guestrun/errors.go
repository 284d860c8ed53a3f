// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import "errors"

var (
	ErrNoKernel       = errors.New("no kernel configured")
	ErrNoRootfs       = errors.New("no root file system configured")
	ErrNoSSHKey       = errors.New("no ssh key configured")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrArchMismatch   = errors.New("binary architecture mismatch")
)
