// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
	"strings"
)

// StringList is a repeatable string flag value.
//
// Each Set call appends one element verbatim. There is no separator
// handling, so elements may contain commas, like kernel cmdline parameters
// do. An empty value clears the list.
type StringList []string

// String implements [flag.Value].
func (l *StringList) String() string {
	return strings.Join(*l, " ")
}

// Set implements [flag.Value].
func (l *StringList) Set(s string) error {
	if s == "" {
		*l = nil

		return nil
	}

	*l = append(*l, s)

	return nil
}

// EnvList is a repeatable flag value collecting environment variables as
// "KEY=VALUE" pairs.
//
// A bare "KEY" without value copies the variable from the host environment
// and fails if it is not set there. An empty value clears the list.
type EnvList []string

// String implements [flag.Value].
func (e *EnvList) String() string {
	return strings.Join(*e, ",")
}

// Set implements [flag.Value].
func (e *EnvList) Set(s string) error {
	if s == "" {
		*e = nil

		return nil
	}

	name, _, hasValue := strings.Cut(s, "=")
	if name == "" {
		return fmt.Errorf("%w: %q", ErrEnvNameEmpty, s)
	}

	if hasValue {
		*e = append(*e, s)

		return nil
	}

	value, exists := os.LookupEnv(name)
	if !exists {
		return fmt.Errorf("%w: %s", ErrEnvVarNotSet, name)
	}

	*e = append(*e, name+"="+value)

	return nil
}
