// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"strconv"
)

const maxByte = 256

func main() {
	// Use first argument as line length.
	length, err := strconv.Atoi(os.Args[1])
	if err != nil {
		panic("invalid input")
	}

	// Use second argument as number of lines.
	lines, err := strconv.Atoi(os.Args[2])
	if err != nil {
		panic("invalid input")
	}

	// Write incrementing byte values repeatedly.
	output := make([]byte, length)
	for i := range output {
		output[i] = byte(i % maxByte)
	}

	for range lines {
		_, _ = os.Stdout.Write(output)
		_, _ = os.Stdout.Write([]byte{'\n'})
	}

	fmt.Fprintln(os.Stdout, "lines written:", lines)
}
