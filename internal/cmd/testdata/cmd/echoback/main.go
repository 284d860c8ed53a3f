// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io"
	"os"
)

func main() {
	// Relay everything read from stdin back on stdout.
	_, err := io.Copy(os.Stdout, os.Stdin)
	if err != nil {
		panic(err)
	}
}
