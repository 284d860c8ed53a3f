// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrValueOutOfRange = errors.New("value is outside of range")

// LimitedUintValue is an unsigned integer flag value with optional bounds.
//
// A zero Lower or Upper bound is ignored.
type LimitedUintValue struct {
	Value        *uint64
	Lower, Upper uint64
}

// String implements [flag.Value].
func (u *LimitedUintValue) String() string {
	if u.Value == nil {
		return "0"
	}

	return strconv.FormatUint(*u.Value, 10)
}

// Set implements [flag.Value].
func (u *LimitedUintValue) Set(s string) error {
	value, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if u.Lower > 0 && value < u.Lower {
		return fmt.Errorf("%d < %d: %w", value, u.Lower, ErrValueOutOfRange)
	}

	if u.Upper > 0 && value > u.Upper {
		return fmt.Errorf("%d > %d: %w", value, u.Upper, ErrValueOutOfRange)
	}

	*u.Value = value

	return nil
}

// PortValue is a TCP port number flag value.
type PortValue struct {
	Value *uint16
}

// String implements [flag.Value].
func (p *PortValue) String() string {
	if p.Value == nil {
		return "0"
	}

	return strconv.FormatUint(uint64(*p.Value), 10)
}

// Set implements [flag.Value].
func (p *PortValue) Set(s string) error {
	value, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	*p.Value = uint16(value)

	return nil
}
