// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"time"
)

// LimitedDurationValue is a duration flag value with optional bounds.
//
// Input is parsed with [time.ParseDuration]. A zero Lower or Upper bound is
// ignored.
type LimitedDurationValue struct {
	Value        *time.Duration
	Lower, Upper time.Duration
}

// String implements [flag.Value].
func (d *LimitedDurationValue) String() string {
	if d.Value == nil {
		return "0s"
	}

	return d.Value.String()
}

// Set implements [flag.Value].
func (d *LimitedDurationValue) Set(s string) error {
	value, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if d.Lower > 0 && value < d.Lower {
		return fmt.Errorf("%s < %s: %w", value, d.Lower, ErrValueOutOfRange)
	}

	if d.Upper > 0 && value > d.Upper {
		return fmt.Errorf("%s > %s: %w", value, d.Upper, ErrValueOutOfRange)
	}

	*d.Value = value

	return nil
}
