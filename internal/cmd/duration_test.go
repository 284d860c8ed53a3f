// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/guestrun/internal/cmd"
)

func TestLimitedDurationValue_Set(t *testing.T) {
	ptr := func(d time.Duration) *time.Duration {
		return &d
	}

	tests := []struct {
		name        string
		value       cmd.LimitedDurationValue
		input       string
		expected    *time.Duration
		expectedErr assert.ErrorAssertionFunc
	}{
		{
			name:        "empty",
			expectedErr: assert.Error,
		},
		{
			name:        "not a duration",
			input:       "60",
			expectedErr: assert.Error,
		},
		{
			name:     "valid",
			input:    "90s",
			value:    cmd.LimitedDurationValue{Value: ptr(0)},
			expected: ptr(90 * time.Second),
		},
		{
			name:  "is lower",
			input: "1s",
			value: cmd.LimitedDurationValue{
				Value: ptr(0),
				Lower: time.Second,
				Upper: time.Minute,
			},
			expected: ptr(time.Second),
		},
		{
			name:  "is upper",
			input: "1m",
			value: cmd.LimitedDurationValue{
				Value: ptr(0),
				Lower: time.Second,
				Upper: time.Minute,
			},
			expected: ptr(time.Minute),
		},
		{
			name:  "is below",
			input: "500ms",
			value: cmd.LimitedDurationValue{
				Value: ptr(0),
				Lower: time.Second,
			},
			expected:    ptr(0),
			expectedErr: errorIsOutOfRange,
		},
		{
			name:  "is above",
			input: "2m",
			value: cmd.LimitedDurationValue{
				Value: ptr(0),
				Upper: time.Minute,
			},
			expected:    ptr(0),
			expectedErr: errorIsOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Set(tt.input)

			if tt.expectedErr == nil {
				require.NoError(t, err)
			} else {
				tt.expectedErr(t, err)
			}

			assert.Equal(t, tt.expected, tt.value.Value)
		})
	}
}

func errorIsOutOfRange(
	t assert.TestingT,
	err error,
	args ...any,
) bool {
	return assert.ErrorIs(t, err, cmd.ErrValueOutOfRange, args...)
}

func TestLimitedDurationValue_String(t *testing.T) {
	duration := 90 * time.Second
	value := cmd.LimitedDurationValue{Value: &duration}

	assert.Equal(t, "1m30s", value.String())
}
