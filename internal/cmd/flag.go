// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/aibor/guestrun/internal/guestrun"
	"github.com/aibor/guestrun/internal/sys"
)

const (
	name = "guestrun"

	memMin = 128
	memMax = 16384

	smpMin = 1
	smpMax = 16

	bootTimeoutMin  = time.Second
	bootTimeoutMax  = 30 * time.Minute
	pollIntervalMin = 100 * time.Millisecond
	pollIntervalMax = time.Minute
	dialTimeoutMin  = time.Second
	dialTimeoutMax  = 5 * time.Minute
	runTimeoutMin   = time.Second

	usageMessage = `Usage of 'guestrun':
    guestrun [flags...] target binary [args...]

The target is the architecture the binary was built for, either as GOARCH
name (amd64, arm64, riscv64) or as target triple, like
"aarch64-unknown-linux-gnu". The binary is copied into a fresh virtual
machine for that architecture and run there. Its output is relayed and
guestrun exits with the binary's exit code.

Using it directly:
	guestrun -kernel=/img/vmlinuz -rootfs=/img/root.qcow2 \
		-ssh-key=/img/id_ed25519 arm64 ./my_binary -flagForBinary=3

Using it with go test:
	go test -exec 'guestrun arm64' ./...

Using it as cargo target runner:
	runner = "guestrun aarch64-unknown-linux-gnu"

Image flags can be replaced by a machine catalog file that maps
architectures to provisioned images (see -images).

All guestrun flags can also be provided via environment variable
GUESTRUN_ARGS:
	GUESTRUN_ARGS="-images=/img/guestrun.yaml -debug" \
		go test -exec 'guestrun arm64' ./...

All guestrun flags can also be provided via file ./.guestrun-args, with one
argument per line.
`
)

type flags struct {
	spec    guestrun.Spec
	flagSet *flag.FlagSet

	imagesFile string
	version    bool
	debug      bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{}

	flags.initFlagset(output)

	return flags
}

// parseArgs parses the given arguments into a new [flags].
//
// Parse errors have been printed to output when it returns, together with
// the usage message where that helps.
func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	// First positional argument is the target architecture the machine is
	// started for.
	if len(positionalArgs) < 1 {
		return f.fail("no target given", nil)
	}

	arch, err := sys.ParseTarget(positionalArgs[0])
	if err != nil {
		return f.fail("target", err)
	}

	f.spec.Arch = arch

	// Second positional argument is the binary to run in the guest.
	if len(positionalArgs) < 2 {
		return f.fail("no binary given", nil)
	}

	binary, err := sys.AbsolutePath(positionalArgs[1])
	if err != nil {
		return f.fail("binary path", err)
	}

	f.spec.Command.Binary = binary

	// All further positional arguments are passed to the binary in the
	// guest as given.
	f.spec.Command.Args = positionalArgs[2:]

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.spec.Qemu.Executable,
		"qemu-bin",
		f.spec.Qemu.Executable,
		"QEMU binary to use (default depends on target: qemu-system-*)",
	)

	flagSet.Var(
		(*FilePath)(&f.spec.Qemu.Kernel),
		"kernel",
		"path of the kernel to boot",
	)

	flagSet.Var(
		(*FilePath)(&f.spec.Qemu.Rootfs),
		"rootfs",
		"path of the root file system image with the SSH daemon. The image "+
			"is attached in snapshot mode and never modified.",
	)

	flagSet.StringVar(
		&f.spec.Qemu.RootDevice,
		"root-device",
		f.spec.Qemu.RootDevice,
		"guest device the root file system is mounted from "+
			"(default /dev/vda)",
	)

	flagSet.StringVar(
		&f.spec.Qemu.Machine,
		"machine",
		f.spec.Qemu.Machine,
		"QEMU machine type to use (default depends on target)",
	)

	flagSet.StringVar(
		&f.spec.Qemu.CPU,
		"cpu",
		f.spec.Qemu.CPU,
		"QEMU CPU type to use (default max)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.spec.Qemu.SMP,
			Lower: smpMin,
			Upper: smpMax,
		},
		"smp",
		"number of CPUs for the machine (default 1)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.spec.Qemu.Memory,
			Lower: memMin,
			Upper: memMax,
		},
		"memory",
		"memory (in MB) for the machine (default 256)",
	)

	flagSet.TextVar(
		&f.spec.Qemu.TransportType,
		"transport",
		f.spec.Qemu.TransportType,
		"virtio transport type: pci, mmio (default depends on target)",
	)

	flagSet.BoolVar(
		&f.spec.Qemu.NoKVM,
		"nokvm",
		f.spec.Qemu.NoKVM,
		"disable hardware support (default is enabled if present and the "+
			"target matches the host arch)",
	)

	flagSet.StringVar(
		&f.spec.Qemu.Console,
		"console",
		f.spec.Qemu.Console,
		"guest kernel console device (default depends on target)",
	)

	flagSet.Var(
		(*StringList)(&f.spec.Qemu.ExtraKernelArgs),
		"append",
		"extra kernel cmdline parameter. Flag may be used more than once. "+
			"Empty value clears the list.",
	)

	flagSet.Var(
		&PortValue{Value: &f.spec.Qemu.Port},
		"port",
		"host port the guest's SSH port is forwarded to "+
			"(default is a free ephemeral port)",
	)

	flagSet.StringVar(
		&f.spec.Guest.User,
		"user",
		f.spec.Guest.User,
		"guest user to authenticate as (default root)",
	)

	flagSet.Var(
		(*FilePath)(&f.spec.Guest.KeyFile),
		"ssh-key",
		"path of the SSH private key authorized in the guest",
	)

	flagSet.Var(
		&LimitedDurationValue{
			Value: &f.spec.Guest.BootTimeout,
			Lower: bootTimeoutMin,
			Upper: bootTimeoutMax,
		},
		"boot-timeout",
		"bound for the guest to accept SSH connections after machine start "+
			"(default 1m0s)",
	)

	flagSet.Var(
		&LimitedDurationValue{
			Value: &f.spec.Guest.PollInterval,
			Lower: pollIntervalMin,
			Upper: pollIntervalMax,
		},
		"poll-interval",
		"pause between SSH connection attempts while the guest boots "+
			"(default 1s)",
	)

	flagSet.Var(
		&LimitedDurationValue{
			Value: &f.spec.Guest.DialTimeout,
			Lower: dialTimeoutMin,
			Upper: dialTimeoutMax,
		},
		"dial-timeout",
		"bound for a single SSH connection attempt (default 10s)",
	)

	flagSet.StringVar(
		&f.spec.Command.DeployDir,
		"deploy-dir",
		f.spec.Command.DeployDir,
		"guest directory the binary is uploaded below (default /tmp)",
	)

	flagSet.Var(
		(*EnvList)(&f.spec.Command.Env),
		"env",
		"environment variable for the binary as KEY=VALUE, or as KEY to "+
			"copy the host value. Flag may be used more than once. Empty "+
			"value clears the list.",
	)

	flagSet.Var(
		&LimitedDurationValue{
			Value: &f.spec.Command.Timeout,
			Lower: runTimeoutMin,
		},
		"timeout",
		"bound for the execution of the binary in the guest "+
			"(default is no bound)",
	)

	flagSet.StringVar(
		&f.imagesFile,
		"images",
		f.imagesFile,
		"path of a machine catalog file mapping targets to provisioned "+
			"images (default $GUESTRUN_IMAGES, then ./guestrun.yaml)",
	)

	flagSet.BoolVar(
		&f.spec.Qemu.Verbose,
		"verbose",
		f.spec.Qemu.Verbose,
		"enable verbose guest system output",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
