// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aibor/guestrun/internal/guest"
	"github.com/aibor/guestrun/internal/qemu"
	"github.com/aibor/guestrun/internal/sys"
)

// stopGracePeriod is how long the machine gets to terminate on its own
// before it is killed.
const stopGracePeriod = 5 * time.Second

// Spec describes a single [Run].
type Spec struct {
	Arch    sys.Arch
	Qemu    Qemu
	Guest   Guest
	Command Command
}

// Run boots the machine for the given [Spec], runs the command's binary in
// the guest system and tears the machine down again.
//
// The binary's standard streams are attached to the given ones while it
// runs. Run returns no error if the binary exits with code 0. A non-zero
// exit code is returned as [exitcode.Error]. The root file system image is
// never written to, the machine operates on an ephemeral snapshot of it.
func Run(
	ctx context.Context,
	spec *Spec,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	spec.Qemu.addDefaults()
	spec.Guest.addDefaults()
	spec.Command.addDefaults()

	if spec.Qemu.Port == 0 {
		port, err := qemu.FreePort()
		if err != nil {
			return fmt.Errorf("ssh port: %w", err)
		}

		spec.Qemu.Port = port
	}

	signer, err := guest.LoadKey(spec.Guest.KeyFile)
	if err != nil {
		return fmt.Errorf("ssh key: %w", err)
	}

	cmd, err := NewQemuCommand(spec.Qemu, spec.Arch)
	if err != nil {
		return err
	}

	machine, err := cmd.Start(stderr, stderr)
	if err != nil {
		return fmt.Errorf("start machine: %w", err)
	}

	defer stopMachine(machine)

	guestCfg := guest.Config{
		Addr: net.JoinHostPort(
			"127.0.0.1",
			strconv.Itoa(int(spec.Qemu.Port)),
		),
		User:        spec.Guest.User,
		Signer:      signer,
		DialTimeout: spec.Guest.DialTimeout,
	}

	client, err := guest.WaitReady(
		ctx,
		guestCfg,
		spec.Guest.PollInterval,
		spec.Guest.BootTimeout,
		machine.Done(),
	)
	if err != nil {
		return fmt.Errorf("wait for guest: %w", diagnose(machine, err))
	}
	defer client.Close() //nolint:errcheck

	slog.Debug("Guest ready", slog.String("addr", guestCfg.Addr))

	remotePath := deployPath(spec.Command)

	err = upload(client, spec.Command.Binary, remotePath)
	if err != nil {
		return err
	}

	execSpec := guest.ExecSpec{
		Path: remotePath,
		Dir:  path.Dir(remotePath),
		Args: spec.Command.Args,
		Env:  spec.Command.Env,
	}

	execCtx := ctx

	if spec.Command.Timeout > 0 {
		var cancel context.CancelFunc

		execCtx, cancel = context.WithTimeout(ctx, spec.Command.Timeout)
		defer cancel()
	}

	err = client.Exec(execCtx, execSpec, stdin, stdout, stderr)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}

// deployPath returns a unique guest path for the binary, so concurrent
// runs sharing a deploy dir never collide.
func deployPath(command Command) string {
	return path.Join(
		command.DeployDir,
		"guestrun-"+uuid.NewString(),
		filepath.Base(command.Binary),
	)
}

func upload(client *guest.Client, binary, remotePath string) error {
	source, err := os.Open(binary)
	if err != nil {
		return fmt.Errorf("open binary: %w", err)
	}
	defer source.Close() //nolint:errcheck

	slog.Debug("Uploading binary", slog.String("path", remotePath))

	err = client.Upload(source, remotePath)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	return nil
}

// stopMachine releases the machine. Errors are logged only. A failed
// teardown must not override the result of the run.
func stopMachine(machine *qemu.Machine) {
	err := machine.Stop(stopGracePeriod)
	if err != nil {
		slog.Error("Failed to stop machine", slog.Any("error", err))
	}
}

// diagnose enriches a probe error with what is known about the machine
// once it has exited.
func diagnose(machine *qemu.Machine, err error) error {
	if !errors.Is(err, guest.ErrMachineExited) {
		return err
	}

	return errors.Join(err, machine.Err(), machine.BootDiagnosis())
}
