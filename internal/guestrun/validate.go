// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/aibor/guestrun/internal/sys"
)

// ValidateSpec checks that all required files of the given [Spec] are
// present and that the binary is an ELF file for the target architecture.
//
// It resolves architecture defaults for the check, so it gives the same
// verdict [Run] would.
func ValidateSpec(spec *Spec) error {
	cmdSpec, err := spec.Qemu.toCommandSpec(spec.Arch)
	if err != nil {
		return err
	}

	if cmdSpec.Kernel == "" {
		return fmt.Errorf("%w (use -kernel or a machine catalog)", ErrNoKernel)
	}

	if cmdSpec.Rootfs == "" {
		return fmt.Errorf("%w (use -rootfs or a machine catalog)", ErrNoRootfs)
	}

	if spec.Guest.KeyFile == "" {
		return fmt.Errorf("%w (use -ssh-key or a machine catalog)", ErrNoSSHKey)
	}

	_, err = exec.LookPath(cmdSpec.Executable)
	if err != nil {
		return fmt.Errorf("qemu executable: %w", err)
	}

	err = validateRegularFile(cmdSpec.Kernel)
	if err != nil {
		return fmt.Errorf("kernel file: %w", err)
	}

	err = validateRegularFile(cmdSpec.Rootfs)
	if err != nil {
		return fmt.Errorf("rootfs file: %w", err)
	}

	err = validateRegularFile(spec.Guest.KeyFile)
	if err != nil {
		return fmt.Errorf("ssh key file: %w", err)
	}

	err = validateRegularFile(spec.Command.Binary)
	if err != nil {
		return fmt.Errorf("binary file: %w", err)
	}

	binaryArch, err := sys.ReadELFArch(spec.Command.Binary)
	if err != nil {
		return fmt.Errorf("binary file: %w", err)
	}

	if binaryArch != spec.Arch {
		return fmt.Errorf(
			"%w: binary is %s, target is %s",
			ErrArchMismatch,
			binaryArch,
			spec.Arch,
		)
	}

	return nil
}

func validateRegularFile(name string) error {
	stat, err := os.Stat(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !stat.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	return nil
}
