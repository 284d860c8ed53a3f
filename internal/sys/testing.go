// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func MustAbsPath(tb testing.TB, path string) string {
	tb.Helper()

	abs, err := filepath.Abs(path)
	if err != nil {
		tb.Fatalf("failed to get absolute path %s: %v", path, err)
	}

	return abs
}

// WriteTestELF writes a minimal ELF executable header for the given machine
// type to the given path. The result parses with [debug/elf] but is not
// runnable.
func WriteTestELF(tb testing.TB, path string, machine elf.Machine) {
	tb.Helper()

	ident := [16]byte{
		0x7f, 'E', 'L', 'F',
		byte(elf.ELFCLASS64),
		byte(elf.ELFDATA2LSB),
		byte(elf.EV_CURRENT),
		byte(elf.ELFOSABI_NONE),
	}

	hdr := elf.Header64{
		Ident:     ident,
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		Ehsize:    64,
		Phentsize: 56,
		Shentsize: 64,
	}

	file, err := os.Create(path)
	if err != nil {
		tb.Fatalf("failed to create ELF file %s: %v", path, err)
	}
	defer file.Close()

	err = binary.Write(file, binary.LittleEndian, hdr)
	if err != nil {
		tb.Fatalf("failed to write ELF header: %v", err)
	}
}
