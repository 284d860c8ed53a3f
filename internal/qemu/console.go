// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bufio"
	"io"
	"regexp"
)

var (
	panicRE = regexp.MustCompile(`^\[[0-9. ]+\] Kernel panic - not syncing: `)
	oomRE   = regexp.MustCompile(`^\[[0-9. ]+\] Out of memory: `)
)

// consoleScanner consumes the guest's serial console stream.
//
// It watches for fatal kernel events so boot failures can be diagnosed on
// the host. If relay is set, every line is forwarded to it.
type consoleScanner struct {
	src   io.ReadCloser
	relay io.Writer

	diag error
}

func newConsoleScanner(src io.ReadCloser, relay io.Writer) *consoleScanner {
	return &consoleScanner{
		src:   src,
		relay: relay,
	}
}

// run consumes the console stream until it is closed. Lines following a
// fatal event are still processed, so kernel messages that enhance the
// context are relayed as well.
func (s *consoleScanner) run() error {
	defer s.src.Close()

	scanner := bufio.NewScanner(s.src)
	for scanner.Scan() {
		line := scanner.Bytes()

		switch {
		case oomRE.Match(line):
			s.diag = ErrGuestOom
		case panicRE.Match(line):
			s.diag = ErrGuestPanic
		}

		if s.relay != nil {
			err := writeLn(s.relay, line)
			if err != nil {
				return err
			}
		}
	}

	return scanner.Err() //nolint:wrapcheck
}

// diagnosis returns the fatal guest event found in the stream, if any. It
// must not be called before run has returned.
func (s *consoleScanner) diagnosis() error {
	return s.diag
}

func writeLn(dst io.Writer, line []byte) error {
	_, err := dst.Write(line)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = dst.Write([]byte("\n"))

	return err //nolint:wrapcheck
}
