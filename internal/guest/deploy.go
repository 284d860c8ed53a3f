// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"fmt"
	"io"
	"path"

	"github.com/pkg/sftp"
)

// executableMode is the file mode the uploaded program gets.
const executableMode = 0o755

// Upload copies src to dstPath on the guest and makes it executable.
//
// Missing parent directories are created. An existing file at dstPath is
// truncated, so repeated uploads to the same path converge on the last
// written content.
func (c *Client) Upload(src io.Reader, dstPath string) error {
	sftpClient, err := sftp.NewClient(c.conn)
	if err != nil {
		return &DeployError{
			Path: dstPath,
			Err:  fmt.Errorf("sftp: %w", err),
		}
	}
	defer sftpClient.Close()

	err = sftpClient.MkdirAll(path.Dir(dstPath))
	if err != nil {
		return &DeployError{
			Path: dstPath,
			Err:  fmt.Errorf("mkdir %s: %w", path.Dir(dstPath), err),
		}
	}

	dst, err := sftpClient.Create(dstPath)
	if err != nil {
		return &DeployError{
			Path: dstPath,
			Err:  fmt.Errorf("create: %w", err),
		}
	}

	_, err = io.Copy(dst, src)

	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return &DeployError{
			Path: dstPath,
			Err:  fmt.Errorf("write: %w", err),
		}
	}

	err = sftpClient.Chmod(dstPath, executableMode)
	if err != nil {
		return &DeployError{
			Path: dstPath,
			Err:  fmt.Errorf("chmod: %w", err),
		}
	}

	return nil
}
