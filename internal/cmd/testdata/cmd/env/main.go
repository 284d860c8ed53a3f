// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"os"
)

func main() {
	// Use first argument as name of the environment variable to print.
	value, exists := os.LookupEnv(os.Args[1])
	if !exists {
		fmt.Fprintln(os.Stderr, "not set:", os.Args[1])
		os.Exit(1)
	}

	fmt.Fprintln(os.Stdout, value)
}
