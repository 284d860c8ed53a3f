// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// x/crypto/ssh does not export a typed error for failed authentication, so
// the handshake error message is classified by its stable prefix.
const authFailureMarker = "unable to authenticate"

// Config describes how to reach the SSH server of the guest.
type Config struct {
	// Addr is the host side of the forwarded SSH port, as "host:port".
	Addr string

	// User is the guest user to authenticate as.
	User string

	// Signer holds the private key matching an authorized key of User.
	Signer ssh.Signer

	// DialTimeout bounds a single connection attempt, including the
	// protocol handshake.
	DialTimeout time.Duration
}

// LoadKey reads and parses the SSH private key at path.
func LoadKey(path string) (ssh.Signer, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key %s: %w", path, err)
	}

	return signer, nil
}

// Client is an authenticated SSH connection to a guest.
type Client struct {
	conn *ssh.Client
}

// Dial connects to the SSH server of the guest and authenticates.
//
// The host key is not verified. The guest is a throwaway machine and its
// host keys are usually generated fresh on first boot.
//
// Failed authentication is returned as [AuthError].
func Dial(cfg Config) (*Client, error) {
	conn, err := net.DialTimeout("tcp", cfg.Addr, cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}

	// The ClientConfig timeout covers only the TCP dial. The handshake
	// needs its own bound, since a forwarded port accepts connections even
	// while nothing is listening in the guest yet.
	err = conn.SetDeadline(time.Now().Add(cfg.DialTimeout))
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("set deadline: %w", err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(cfg.Signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, cfg.Addr, clientConfig)
	if err != nil {
		_ = conn.Close()

		if strings.Contains(err.Error(), authFailureMarker) {
			return nil, &AuthError{Err: err}
		}

		return nil, fmt.Errorf("handshake: %w", err)
	}

	err = conn.SetDeadline(time.Time{})
	if err != nil {
		_ = sshConn.Close()

		return nil, fmt.Errorf("clear deadline: %w", err)
	}

	client := &Client{
		conn: ssh.NewClient(sshConn, chans, reqs),
	}

	return client, nil
}

// Close terminates the connection to the guest.
func (c *Client) Close() error {
	return c.conn.Close() //nolint:wrapcheck
}
