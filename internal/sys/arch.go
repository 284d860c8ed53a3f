// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"
)

// Arch is a guest architecture, named like GOARCH.
type Arch string

// Supported guest architectures.
const (
	AMD64   Arch = "amd64"
	ARM64   Arch = "arm64"
	RISCV64 Arch = "riscv64"
)

// Native is the architecture of the host. Using the same architecture for the
// guest allows using KVM, if available. Use [Arch.KVMAvailable] to check.
const Native Arch = Arch(runtime.GOARCH)

var ErrArchNotSupported = errors.New("architecture not supported")

// targetAliases maps machine names as they appear in target triples to the
// architecture they identify.
var targetAliases = map[string]Arch{
	"amd64":     AMD64,
	"x86_64":    AMD64,
	"arm64":     ARM64,
	"aarch64":   ARM64,
	"riscv64":   RISCV64,
	"riscv64gc": RISCV64,
}

// ParseTarget resolves a target name into an [Arch].
//
// The name may be an architecture name (amd64, arm64, riscv64), a machine
// alias (x86_64, aarch64, riscv64gc), or a full target triple like
// "aarch64-unknown-linux-gnu". For triples, only the machine field before the
// first dash is significant.
func ParseTarget(name string) (Arch, error) {
	machine, _, _ := strings.Cut(name, "-")

	arch, exists := targetAliases[machine]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrArchNotSupported, name)
	}

	return arch, nil
}

// String implements [fmt.Stringer].
func (a Arch) String() string {
	return string(a)
}

// IsNative returns whether the architecture is the host's architecture.
func (a Arch) IsNative() bool {
	return Native == a
}

// KVMAvailable checks if KVM support is available for the architecture.
func (a Arch) KVMAvailable() bool {
	if !a.IsNative() {
		return false
	}

	return unix.Access("/dev/kvm", unix.R_OK|unix.W_OK) == nil
}
