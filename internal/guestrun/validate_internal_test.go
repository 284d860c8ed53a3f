// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"debug/elf"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aibor/guestrun/internal/sys"
)

// validTestSpec returns a [Spec] that passes [ValidateSpec]: all input files
// exist, the QEMU executable resolves in PATH and the binary is an ELF file
// matching the spec's architecture.
func validTestSpec(t *testing.T) *Spec {
	t.Helper()

	dir := t.TempDir()

	kernel := filepath.Join(dir, "vmlinuz")
	rootfs := filepath.Join(dir, "rootfs.qcow2")
	keyFile := filepath.Join(dir, "id_ed25519")
	binary := filepath.Join(dir, "bin.test")

	for _, path := range []string{kernel, rootfs, keyFile} {
		err := os.WriteFile(path, []byte("test file"), 0o600)
		require.NoError(t, err)
	}

	sys.WriteTestELF(t, binary, elf.EM_X86_64)

	return &Spec{
		Arch: sys.AMD64,
		Qemu: Qemu{
			// Validation only resolves the executable in PATH, so any
			// present program works here.
			Executable: "sh",
			Kernel:     kernel,
			Rootfs:     rootfs,
		},
		Guest: Guest{
			KeyFile: keyFile,
		},
		Command: Command{
			Binary: binary,
		},
	}
}

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(t *testing.T, spec *Spec)
		expectedErr error
	}{
		{
			name:   "valid",
			mutate: func(_ *testing.T, _ *Spec) {},
		},
		{
			name: "no kernel",
			mutate: func(_ *testing.T, spec *Spec) {
				spec.Qemu.Kernel = ""
			},
			expectedErr: ErrNoKernel,
		},
		{
			name: "no rootfs",
			mutate: func(_ *testing.T, spec *Spec) {
				spec.Qemu.Rootfs = ""
			},
			expectedErr: ErrNoRootfs,
		},
		{
			name: "no ssh key",
			mutate: func(_ *testing.T, spec *Spec) {
				spec.Guest.KeyFile = ""
			},
			expectedErr: ErrNoSSHKey,
		},
		{
			name: "qemu executable not found",
			mutate: func(_ *testing.T, spec *Spec) {
				spec.Qemu.Executable = "qemu-system-none"
			},
			expectedErr: exec.ErrNotFound,
		},
		{
			name: "kernel file missing",
			mutate: func(t *testing.T, spec *Spec) {
				t.Helper()
				spec.Qemu.Kernel = filepath.Join(t.TempDir(), "absent")
			},
			expectedErr: fs.ErrNotExist,
		},
		{
			name: "rootfs is a directory",
			mutate: func(t *testing.T, spec *Spec) {
				t.Helper()
				spec.Qemu.Rootfs = t.TempDir()
			},
			expectedErr: ErrNotRegularFile,
		},
		{
			name: "binary is not an ELF file",
			mutate: func(t *testing.T, spec *Spec) {
				t.Helper()

				binary := filepath.Join(t.TempDir(), "script.sh")

				err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755)
				require.NoError(t, err)

				spec.Command.Binary = binary
			},
			expectedErr: sys.ErrNotELFFile,
		},
		{
			name: "binary for other architecture",
			mutate: func(t *testing.T, spec *Spec) {
				t.Helper()

				binary := filepath.Join(t.TempDir(), "bin.test")
				sys.WriteTestELF(t, binary, elf.EM_AARCH64)

				spec.Command.Binary = binary
			},
			expectedErr: ErrArchMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validTestSpec(t)
			tt.mutate(t, spec)

			err := ValidateSpec(spec)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
