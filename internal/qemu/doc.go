// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu builds and supervises QEMU full system emulation processes
// that host a short lived guest system. The guest's SSH port is forwarded to
// a loopback port on the host and its serial console is scanned for fatal
// boot events. The guest disk image is always attached in snapshot mode, so
// machines never modify it.
package qemu
