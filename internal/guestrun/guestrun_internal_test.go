// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeployPath(t *testing.T) {
	command := Command{
		Binary:    "/home/user/some.test",
		DeployDir: "/var/tmp",
	}

	first := deployPath(command)
	second := deployPath(command)

	assert.True(t, strings.HasPrefix(first, "/var/tmp/guestrun-"),
		"path should be below the deploy dir: %s", first)
	assert.True(t, strings.HasSuffix(first, "/some.test"),
		"path should keep the binary name: %s", first)
	assert.NotEqual(t, first, second,
		"each run should get its own directory")
}

func TestGuestAddDefaults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		guest := Guest{}
		guest.addDefaults()

		expected := Guest{
			User:         "root",
			BootTimeout:  60 * time.Second,
			PollInterval: time.Second,
			DialTimeout:  10 * time.Second,
		}
		assert.Equal(t, expected, guest)
	})

	t.Run("set fields kept", func(t *testing.T) {
		guest := Guest{
			User:         "tester",
			KeyFile:      "/images/id_ed25519",
			BootTimeout:  2 * time.Minute,
			PollInterval: 200 * time.Millisecond,
			DialTimeout:  time.Second,
		}

		expected := guest
		guest.addDefaults()

		assert.Equal(t, expected, guest)
	})
}

func TestCommandAddDefaults(t *testing.T) {
	command := Command{Binary: "/some.test"}
	command.addDefaults()

	assert.Equal(t, "/tmp", command.DeployDir)
	assert.Zero(t, command.Timeout, "no default execution bound")
}

func TestQemuAddDefaults(t *testing.T) {
	cfg := Qemu{}
	cfg.addDefaults()

	expected := Qemu{
		CPU:    "max",
		SMP:    1,
		Memory: 256,
	}
	assert.Equal(t, expected, cfg)
}
