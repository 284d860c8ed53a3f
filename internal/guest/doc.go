// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guest talks to the SSH server inside a running machine.
//
// It probes the forwarded SSH port until the guest is ready, uploads the
// program to run and executes it with the caller's standard streams
// attached, relaying the remote exit code.
package guest
