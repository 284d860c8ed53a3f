// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"fmt"
	"log/slog"

	"github.com/aibor/guestrun/internal/qemu"
	"github.com/aibor/guestrun/internal/sys"
)

const (
	cpuDefault    = "max"
	memoryDefault = 256
	smpDefault    = 1
)

// Qemu specifies the input for creating a new [qemu.Command].
type Qemu struct {
	Executable      string
	Kernel          string
	Rootfs          string
	RootDevice      string
	Machine         string
	CPU             string
	SMP             uint64
	Memory          uint64
	NoKVM           bool
	TransportType   qemu.TransportType
	Console         string
	Port            uint16
	ExtraKernelArgs []string
	ExtraArgs       []qemu.Argument
	Verbose         bool
}

func (q *Qemu) addDefaults() {
	if q.CPU == "" {
		q.CPU = cpuDefault
	}

	if q.Memory == 0 {
		q.Memory = memoryDefault
	}

	if q.SMP == 0 {
		q.SMP = smpDefault
	}
}

// toCommandSpec maps the config to a [qemu.CommandSpec] with architecture
// defaults applied.
func (q *Qemu) toCommandSpec(arch sys.Arch) (qemu.CommandSpec, error) {
	cmdSpec := qemu.CommandSpec{
		Executable:      q.Executable,
		Kernel:          q.Kernel,
		Rootfs:          q.Rootfs,
		RootDevice:      q.RootDevice,
		Machine:         q.Machine,
		CPU:             q.CPU,
		SMP:             q.SMP,
		Memory:          q.Memory,
		NoKVM:           q.NoKVM,
		TransportType:   q.TransportType,
		Console:         q.Console,
		SSHPort:         q.Port,
		ExtraArgs:       q.ExtraArgs,
		ExtraKernelArgs: q.ExtraKernelArgs,
		Verbose:         q.Verbose,
	}

	err := cmdSpec.AddDefaultsFor(arch)
	if err != nil {
		return qemu.CommandSpec{}, fmt.Errorf("qemu defaults: %w", err)
	}

	return cmdSpec, nil
}

// NewQemuCommand creates a new [qemu.Command] for the given config and
// target architecture.
func NewQemuCommand(cfg Qemu, arch sys.Arch) (*qemu.Command, error) {
	cmdSpec, err := cfg.toCommandSpec(arch)
	if err != nil {
		return nil, err
	}

	cmd, err := qemu.NewCommand(cmdSpec)
	if err != nil {
		return nil, fmt.Errorf("new qemu command: %w", err)
	}

	slog.Debug("QEMU command", slog.String("command", cmd.String()))

	return cmd, nil
}
