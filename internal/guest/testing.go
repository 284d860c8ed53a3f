// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guest

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// NewTestKey generates an ed25519 key for tests.
func NewTestKey(tb testing.TB) ssh.Signer {
	tb.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(tb, err)

	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(tb, err)

	return signer
}

// WriteTestKey generates an ed25519 key for tests and writes it to path in
// OpenSSH PEM format.
func WriteTestKey(tb testing.TB, path string) ssh.Signer {
	tb.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(tb, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(tb, err)

	err = os.WriteFile(path, pem.EncodeToMemory(block), 0o600)
	require.NoError(tb, err)

	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(tb, err)

	return signer
}

// TestServer is an in-process SSH server for tests. It accepts a single
// generated key pair, runs exec requests with the local shell and serves
// the sftp subsystem on the real filesystem.
type TestServer struct {
	Addr   string
	User   string
	Signer ssh.Signer

	// KeyFile is the path of the authorized private key, for tests that
	// load the key from disk like the real program does.
	KeyFile string

	wg sync.WaitGroup
}

// StartTestServer starts a [TestServer] on the loopback interface. It is
// shut down on test cleanup.
func StartTestServer(tb testing.TB) *TestServer {
	tb.Helper()

	hostKey := NewTestKey(tb)

	keyFile := filepath.Join(tb.TempDir(), "id_ed25519")
	clientKey := WriteTestKey(tb, keyFile)

	authorized := clientKey.PublicKey().Marshal()

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(
			_ ssh.ConnMetadata,
			key ssh.PublicKey,
		) (*ssh.Permissions, error) {
			if !bytes.Equal(key.Marshal(), authorized) {
				return nil, errors.New("unknown public key")
			}

			return &ssh.Permissions{}, nil
		},
	}
	config.AddHostKey(hostKey)

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(tb, err)

	server := &TestServer{
		Addr:    listener.Addr().String(),
		User:    "root",
		Signer:  clientKey,
		KeyFile: keyFile,
	}

	server.wg.Add(1)

	go func() {
		defer server.wg.Done()
		server.acceptLoop(listener, config)
	}()

	tb.Cleanup(func() {
		_ = listener.Close()
		server.wg.Wait()
	})

	return server
}

// ClientConfig returns a [Config] that connects to the server.
func (s *TestServer) ClientConfig() Config {
	return Config{
		Addr:        s.Addr,
		User:        s.User,
		Signer:      s.Signer,
		DialTimeout: 10 * time.Second,
	}
}

// Port returns the TCP port the server listens on.
func (s *TestServer) Port(tb testing.TB) uint16 {
	tb.Helper()

	_, portStr, err := net.SplitHostPort(s.Addr)
	require.NoError(tb, err)

	port, err := strconv.ParseUint(portStr, 10, 16)
	require.NoError(tb, err)

	return uint16(port)
}

func (s *TestServer) acceptLoop(
	listener net.Listener,
	config *ssh.ServerConfig,
) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}

		s.wg.Add(1)

		go func() {
			defer s.wg.Done()
			s.handleConn(conn, config)
		}()
	}
}

func (s *TestServer) handleConn(conn net.Conn, config *ssh.ServerConfig) {
	serverConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		_ = conn.Close()

		return
	}
	defer serverConn.Close()

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ssh.DiscardRequests(reqs)
	}()

	// Programs spawned for this connection are killed through this context
	// once the connection is gone.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		_ = serverConn.Wait()
		cancel()
	}()

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "only sessions")

			continue
		}

		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}

		s.wg.Add(1)

		go func() {
			defer s.wg.Done()
			s.handleSession(ctx, channel, requests)
		}()
	}
}

func (s *TestServer) handleSession(
	ctx context.Context,
	channel ssh.Channel,
	requests <-chan *ssh.Request,
) {
	defer channel.Close()

	for req := range requests {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }

			err := ssh.Unmarshal(req.Payload, &payload)
			if err != nil {
				_ = req.Reply(false, nil)

				continue
			}

			_ = req.Reply(true, nil)
			s.exec(ctx, channel, payload.Command)

			return
		case "subsystem":
			var payload struct{ Name string }

			err := ssh.Unmarshal(req.Payload, &payload)
			if err != nil || payload.Name != "sftp" {
				_ = req.Reply(false, nil)

				continue
			}

			_ = req.Reply(true, nil)
			s.sftp(channel)

			return
		default:
			if req.WantReply {
				_ = req.Reply(false, nil)
			}
		}
	}
}

func (s *TestServer) exec(
	ctx context.Context,
	channel ssh.Channel,
	command string,
) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = channel
	cmd.Stdout = channel
	cmd.Stderr = channel.Stderr()
	cmd.WaitDelay = time.Second

	err := cmd.Run()

	var status uint32

	var exitErr *exec.ExitError

	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		status = uint32(exitErr.ExitCode())
	default:
		status = 255
	}

	payload := ssh.Marshal(struct{ Status uint32 }{Status: status})
	_, _ = channel.SendRequest("exit-status", false, payload)
}

func (s *TestServer) sftp(channel ssh.Channel) {
	server, err := sftp.NewServer(channel)
	if err != nil {
		return
	}

	_ = server.Serve()
	_ = server.Close()
}
