// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"errors"
	"fmt"
)

var (
	ErrOSABINotSupported   = errors.New("OSABI not supported")
	ErrMachineNotSupported = errors.New("machine not supported")
)

// ValidateELF validates that ELF attributes match the requested architecture.
func ValidateELF(hdr elf.FileHeader, arch Arch) error {
	switch hdr.OSABI {
	case elf.ELFOSABI_NONE, elf.ELFOSABI_LINUX:
		// supported, pass
	default:
		return fmt.Errorf("%w: %s", ErrOSABINotSupported, hdr.OSABI)
	}

	archReq, err := archFor(hdr.Machine)
	if err != nil {
		return err
	}

	if archReq != arch {
		return fmt.Errorf(
			"%w: %s on %s",
			ErrMachineNotSupported,
			hdr.Machine,
			arch,
		)
	}

	return nil
}

// ReadELFArch reads the target architecture from the ELF file header of the
// file at the given path.
func ReadELFArch(path string) (Arch, error) {
	file, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return "", fmt.Errorf("%w: %v", ErrNotELFFile, err)
		}

		return "", fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return archFor(file.Machine)
}

func archFor(machine elf.Machine) (Arch, error) {
	switch machine {
	case elf.EM_X86_64:
		return AMD64, nil
	case elf.EM_AARCH64:
		return ARM64, nil
	case elf.EM_RISCV:
		return RISCV64, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMachineNotSupported, machine)
	}
}
