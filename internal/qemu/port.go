// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"net"
)

// FreePort reserves an ephemeral loopback TCP port and returns its number.
//
// The port is released again before returning, so another process may claim
// it in the meantime. QEMU fails to start in that case, which surfaces as a
// spawn failure instead of a silent conflict.
func FreePort() (uint16, error) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("reserve port: %w", err)
	}
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address %q", listener.Addr())
	}

	return uint16(addr.Port), nil
}
