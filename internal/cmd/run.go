// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/guestrun/internal/exitcode"
	"github.com/aibor/guestrun/internal/guest"
	"github.com/aibor/guestrun/internal/guestrun"
	"github.com/aibor/guestrun/internal/qemu"
)

const localConfigFile = ".guestrun-args"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// mergedFlags parses flags from all argument sources.
func mergedFlags(args []string, output io.Writer) (*flags, error) {
	merged, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	return parseArgs(merged, output)
}

// applyCatalog fills unset image fields of the spec from the machine
// catalog, if there is one.
func applyCatalog(spec *guestrun.Spec, explicit string) error {
	path := guestrun.FindCatalogFile(explicit)
	if path == "" {
		return nil
	}

	catalog, err := guestrun.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("machine catalog: %w", err)
	}

	slog.Debug("Applying machine catalog", slog.String("path", path))

	err = catalog.Apply(spec)
	if err != nil {
		return fmt.Errorf("machine catalog %s: %w", path, err)
	}

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	spec := &flags.spec

	err := applyCatalog(spec, flags.imagesFile)
	if err != nil {
		return err
	}

	err = guestrun.ValidateSpec(spec)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return guestrun.Run(ctx, spec, cfg.Stdin, cfg.Stdout, cfg.Stderr)
}

// handleRunError resolves any error of a run into the exit code for the
// process.
//
// An [exitcode.Error] carries the guest binary's own exit code. It passes
// through verbatim and is not reported as an error, the caller must be able
// to treat it exactly like a local run. Harness failures are printed to
// stderr and mapped to the reserved exit codes.
func handleRunError(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	// Help and version requests exit without error.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// Parse errors have been printed already, together with the usage.
	if errors.Is(err, &ParseArgsError{}) {
		return exitcode.Internal
	}

	if code, fromGuest := exitcode.From(err); fromGuest {
		return code
	}

	fmt.Fprintf(stderr, "Error [%s]: %v\n", name, err)

	return reservedExitCode(err)
}

// reservedExitCode maps a harness failure to its reserved exit code.
//
// A deadline expiring is reported like a boot timeout. Both share the
// conventional timeout(1) code.
func reservedExitCode(err error) int {
	switch {
	case errors.Is(err, &guest.AuthError{}):
		return exitcode.AuthFailure
	case errors.Is(err, guest.ErrBootTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return exitcode.BootTimeout
	case errors.Is(err, &guest.DeployError{}):
		return exitcode.DeployFailure
	case errors.Is(err, guest.ErrExitStatusLost):
		return exitcode.ConnectionLost
	case errors.Is(err, guest.ErrMachineExited),
		errors.Is(err, &qemu.CommandError{}):
		return exitcode.SpawnFailure
	default:
		return exitcode.Internal
	}
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := mergedFlags(args, cfg.Stderr)
	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	setupLogging(cfg.Stderr, flags.debug)

	err = run(ctx, flags, cfg)

	return handleRunError(err, cfg.Stderr)
}
