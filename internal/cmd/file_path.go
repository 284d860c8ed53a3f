// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"github.com/aibor/guestrun/internal/sys"
)

// FilePath is a file path flag value. It resolves input to an absolute path
// on [FilePath.Set].
type FilePath string

// String implements [flag.Value].
func (f *FilePath) String() string {
	return string(*f)
}

// Set implements [flag.Value].
func (f *FilePath) Set(s string) error {
	path, err := sys.AbsolutePath(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*f = FilePath(path)

	return nil
}
