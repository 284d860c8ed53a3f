// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guestrun ties machine, readiness probe, binary deployment and
// execution together into a single run of a program inside an ephemeral
// guest system.
package guestrun
