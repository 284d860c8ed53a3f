// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aibor/guestrun/internal/sys"
)

// consoleFileDescriptor is the file descriptor the guest's serial console is
// written to. FDs 0, 1, 2 are standard in, out, err, so the console pipe is
// passed as the first extra file.
const consoleFileDescriptor = 3

const (
	machineTypeMicroVM = "microvm"
	machineTypePC      = "pc"
	machineTypeQ35     = "q35"
	machineTypeVirt    = "virt"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the kernel to boot. The kernel must have VirtIO support for
	// the chosen transport type compiled in.
	Kernel string

	// Path to the root file system disk image. It must contain an SSH
	// daemon listening on port 22 that accepts the configured key. The
	// image is attached in snapshot mode and never modified.
	Rootfs string

	// Guest device the root file system is mounted from.
	RootDevice string

	// QEMU machine type to use. Depends on the QEMU binary used.
	Machine string

	// CPU type to use. Depends on machine type and QEMU binary used.
	CPU string

	// Number of CPUs for the guest.
	SMP uint64

	// Memory for the machine in MB.
	Memory uint64

	// Disable KVM support.
	NoKVM bool

	// Transport type for the VirtIO network device. This depends on machine
	// type and the kernel.
	TransportType TransportType

	// Guest kernel console device, used for host side boot diagnostics.
	Console string

	// Host loopback port the guest's SSH port is forwarded to.
	SSHPort uint16

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not interfere with the essential arguments set by the
	// command itself or an error will be returned on [NewCommand].
	ExtraArgs []Argument

	// Additional kernel cmdline parameters.
	ExtraKernelArgs []string

	// Increase guest kernel logging and relay the guest console.
	Verbose bool
}

// AddDefaultsFor adds architecture specific default values to the spec if
// the fields are not set yet.
func (s *CommandSpec) AddDefaultsFor(arch sys.Arch) error {
	var (
		executable    string
		machine       string
		transportType TransportType
		console       string
	)

	switch arch {
	case sys.AMD64:
		executable = "qemu-system-x86_64"
		machine = machineTypeQ35
		transportType = TransportTypePCI
		console = "ttyS0"
	case sys.ARM64:
		executable = "qemu-system-aarch64"
		machine = machineTypeVirt
		transportType = TransportTypeMMIO
		console = "ttyAMA0"
	case sys.RISCV64:
		executable = "qemu-system-riscv64"
		machine = machineTypeVirt
		transportType = TransportTypeMMIO
		console = "ttyS0"
	default:
		return sys.ErrArchNotSupported
	}

	if s.Executable == "" {
		s.Executable = executable
	}

	if s.Machine == "" {
		s.Machine = machine
	}

	if s.TransportType == "" {
		s.TransportType = transportType
	}

	if s.Console == "" {
		s.Console = console
	}

	if s.RootDevice == "" {
		s.RootDevice = "/dev/vda"
	}

	if !s.NoKVM {
		s.NoKVM = !arch.KVMAvailable()
	}

	return nil
}

// Validate checks for known incompatibilities.
func (s *CommandSpec) Validate() error {
	if !s.TransportType.isKnown() {
		return &ArgumentError{
			"unknown transport type: " + string(s.TransportType),
		}
	}

	if s.SSHPort == 0 {
		return &ArgumentError{"ssh forward port not set"}
	}

	switch s.Machine {
	case machineTypeMicroVM:
		if s.TransportType == TransportTypePCI {
			return &ArgumentError{"microvm does not support pci transport"}
		}
	case machineTypeQ35, machineTypePC:
		if s.TransportType == TransportTypeMMIO {
			return &ArgumentError{
				s.Machine + " does not work with virtio-mmio",
			}
		}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("kernel", s.Kernel),
		UniqueArg("drive", "file="+s.Rootfs+",format="+s.diskFormat()+
			",if=virtio,media=disk"),
		// Guest writes go to a throwaway overlay. The image stays pristine
		// and concurrent machines can share it.
		UniqueArg("snapshot"),
	}

	if s.Machine != "" {
		args = append(args, UniqueArg("machine", s.Machine))
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	if s.SMP != 0 {
		args = append(args, UniqueArg("smp", strconv.FormatUint(s.SMP, 10)))
	}

	if s.Memory != 0 {
		args = append(args, UniqueArg("m", strconv.FormatUint(s.Memory, 10)))
	}

	if !s.NoKVM {
		args = append(args, UniqueArg("enable-kvm"))
	}

	// The guest's SSH port is reachable only via the loopback forward.
	hostfwd := fmt.Sprintf(
		"user,id=net0,hostfwd=tcp:127.0.0.1:%d-:22",
		s.SSHPort,
	)
	args = append(args,
		RepeatableArg("netdev", hostfwd),
		RepeatableArg("device", s.TransportType.NetDeviceName()+",netdev=net0"),
	)

	// Serial console on an extra file descriptor for host side scanning.
	args = append(args,
		RepeatableArg("chardev",
			"file,id=console,path="+fdPath(consoleFileDescriptor)),
		RepeatableArg("serial", "chardev:console"),
	)

	args = append(args,
		// Disable video output.
		UniqueArg("display", "none"),
		// Disable QEMU monitor.
		UniqueArg("monitor", "none"),
		// Guest must not reboot.
		UniqueArg("no-reboot"),
		// Disable all default devices.
		UniqueArg("nodefaults"),
		// Do not load any user config files.
		UniqueArg("no-user-config"),
	)

	args = append(args, s.ExtraArgs...)

	kernelCmdline := strings.Join(s.kernelCmdlineArgs(), " ")
	args = append(args, RepeatableArg("append", kernelCmdline))

	return args
}

// kernelCmdlineArgs returns the kernel cmdline arguments.
func (s *CommandSpec) kernelCmdlineArgs() []string {
	cmdline := []string{
		"console=" + s.Console,
		"root=" + s.RootDevice,
		"rw",
		"panic=-1",
		"mitigations=off",
	}

	if s.Verbose {
		cmdline = append(cmdline, "debug")
	} else {
		cmdline = append(cmdline, "quiet")
	}

	cmdline = append(cmdline, s.ExtraKernelArgs...)

	return cmdline
}

// diskFormat infers the QEMU disk format from the image file name.
func (s *CommandSpec) diskFormat() string {
	if strings.HasSuffix(s.Rootfs, ".qcow2") {
		return "qcow2"
	}

	return "raw"
}

func fdPath(fd int) string {
	return fmt.Sprintf("/dev/fd/%d", fd)
}
