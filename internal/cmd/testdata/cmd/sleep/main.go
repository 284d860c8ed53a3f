// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"time"
)

func main() {
	// Use first argument as duration to sleep.
	duration, err := time.ParseDuration(os.Args[1])
	if err != nil {
		panic("invalid input")
	}

	time.Sleep(duration)

	fmt.Fprintln(os.Stdout, "slept for", duration)
}
