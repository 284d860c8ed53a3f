// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log"
	"log/slog"
)

// setupLogging directs all logging to writer.
//
// Output of the guest binary is relayed on the standard streams, so harness
// logging stays on stderr and is quiet unless debug is set.
func setupLogging(writer io.Writer, debug bool) {
	log.SetOutput(writer)
	log.SetFlags(log.Lmicroseconds)
	log.SetPrefix("GUESTRUN: ")

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)))
}
