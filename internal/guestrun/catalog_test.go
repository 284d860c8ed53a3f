// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/guestrun/internal/guestrun"
	"github.com/aibor/guestrun/internal/qemu"
	"github.com/aibor/guestrun/internal/sys"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "machines.yaml")

	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)

	return path
}

func TestFindCatalogFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("GUESTRUN_IMAGES", "/from/env.yaml")

		actual := guestrun.FindCatalogFile("/explicit.yaml")
		assert.Equal(t, "/explicit.yaml", actual)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("GUESTRUN_IMAGES", "/from/env.yaml")

		actual := guestrun.FindCatalogFile("")
		assert.Equal(t, "/from/env.yaml", actual)
	})

	t.Run("working directory", func(t *testing.T) {
		t.Setenv("GUESTRUN_IMAGES", "")

		dir := t.TempDir()

		err := os.WriteFile(
			filepath.Join(dir, "guestrun.yaml"),
			[]byte("amd64:\n  kernel: vmlinuz\n"),
			0o644,
		)
		require.NoError(t, err)

		t.Chdir(dir)

		actual := guestrun.FindCatalogFile("")
		assert.Equal(t, "guestrun.yaml", actual)
	})

	t.Run("no catalog", func(t *testing.T) {
		t.Setenv("GUESTRUN_IMAGES", "")
		t.Chdir(t.TempDir())

		actual := guestrun.FindCatalogFile("")
		assert.Empty(t, actual)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("resolves relative paths", func(t *testing.T) {
		path := writeCatalog(t, `
amd64:
  kernel: images/vmlinuz-amd64
  rootfs: /var/images/rootfs.qcow2
  ssh_key: keys/id_ed25519
  user: admin
  memory: 512
  transport: pci
arm64:
  kernel: /boot/vmlinuz-arm64
  rootfs: rootfs-arm64.qcow2
  ssh_key: /keys/id_ed25519
`)

		catalog, err := guestrun.LoadCatalog(path)
		require.NoError(t, err)

		dir := filepath.Dir(path)

		expected := guestrun.Catalog{
			"amd64": guestrun.CatalogEntry{
				Kernel:    filepath.Join(dir, "images/vmlinuz-amd64"),
				Rootfs:    "/var/images/rootfs.qcow2",
				SSHKey:    filepath.Join(dir, "keys/id_ed25519"),
				User:      "admin",
				Memory:    512,
				Transport: "pci",
			},
			"arm64": guestrun.CatalogEntry{
				Kernel: "/boot/vmlinuz-arm64",
				Rootfs: filepath.Join(dir, "rootfs-arm64.qcow2"),
				SSHKey: "/keys/id_ed25519",
			},
		}

		assert.Equal(t, expected, catalog)
	})

	t.Run("file missing", func(t *testing.T) {
		_, err := guestrun.LoadCatalog(filepath.Join(t.TempDir(), "absent"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeCatalog(t, "amd64: [\n")

		_, err := guestrun.LoadCatalog(path)
		require.ErrorContains(t, err, "parse catalog")
	})
}

func TestCatalogApply(t *testing.T) {
	catalog := guestrun.Catalog{
		"amd64": guestrun.CatalogEntry{
			Kernel:          "/images/vmlinuz",
			Rootfs:          "/images/rootfs.qcow2",
			SSHKey:          "/images/id_ed25519",
			User:            "admin",
			Machine:         "pc",
			CPU:             "host",
			SMP:             4,
			Memory:          1024,
			Transport:       "mmio",
			Console:         "hvc0",
			RootDevice:      "/dev/sda",
			ExtraKernelArgs: []string{"quiet"},
		},
	}

	t.Run("fills unset fields", func(t *testing.T) {
		spec := guestrun.Spec{Arch: sys.AMD64}

		err := catalog.Apply(&spec)
		require.NoError(t, err)

		expected := guestrun.Spec{
			Arch: sys.AMD64,
			Qemu: guestrun.Qemu{
				Kernel:          "/images/vmlinuz",
				Rootfs:          "/images/rootfs.qcow2",
				RootDevice:      "/dev/sda",
				Machine:         "pc",
				CPU:             "host",
				SMP:             4,
				Memory:          1024,
				TransportType:   qemu.TransportTypeMMIO,
				Console:         "hvc0",
				ExtraKernelArgs: []string{"quiet"},
			},
			Guest: guestrun.Guest{
				User:    "admin",
				KeyFile: "/images/id_ed25519",
			},
		}

		assert.Equal(t, expected, spec)
	})

	t.Run("set fields win", func(t *testing.T) {
		spec := guestrun.Spec{
			Arch: sys.AMD64,
			Qemu: guestrun.Qemu{
				Kernel:          "/cli/vmlinuz",
				Rootfs:          "/cli/rootfs.qcow2",
				RootDevice:      "/dev/vda",
				Machine:         "q35",
				CPU:             "max",
				SMP:             2,
				Memory:          256,
				TransportType:   qemu.TransportTypePCI,
				Console:         "ttyS0",
				ExtraKernelArgs: []string{"debug"},
			},
			Guest: guestrun.Guest{
				User:    "root",
				KeyFile: "/cli/id_ed25519",
			},
		}

		expected := spec

		err := catalog.Apply(&spec)
		require.NoError(t, err)

		assert.Equal(t, expected, spec)
	})

	t.Run("no entry for arch", func(t *testing.T) {
		spec := guestrun.Spec{Arch: sys.RISCV64}

		err := catalog.Apply(&spec)
		require.NoError(t, err)

		assert.Equal(t, guestrun.Spec{Arch: sys.RISCV64}, spec)
	})

	t.Run("invalid transport", func(t *testing.T) {
		broken := guestrun.Catalog{
			"amd64": guestrun.CatalogEntry{Transport: "isa"},
		}

		spec := guestrun.Spec{Arch: sys.AMD64}

		err := broken.Apply(&spec)
		require.ErrorIs(t, err, qemu.ErrTransportTypeInvalid)
	})

	t.Run("invalid transport ignored when set", func(t *testing.T) {
		broken := guestrun.Catalog{
			"amd64": guestrun.CatalogEntry{Transport: "isa"},
		}

		spec := guestrun.Spec{
			Arch: sys.AMD64,
			Qemu: guestrun.Qemu{TransportType: qemu.TransportTypePCI},
		}

		err := broken.Apply(&spec)
		require.NoError(t, err)

		assert.Equal(t, qemu.TransportTypePCI, spec.Qemu.TransportType)
	})
}
