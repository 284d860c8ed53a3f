// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestrun

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	catalogEnvVar      = "GUESTRUN_IMAGES"
	catalogDefaultFile = "guestrun.yaml"
)

// Catalog maps target architecture names to provisioned machine images.
//
// It saves the caller from repeating image flags for every run. Values from
// the catalog fill only fields that are not set yet, so flags always win.
type Catalog map[string]CatalogEntry

// CatalogEntry describes one provisioned machine image set.
//
// Transport is kept as plain string since yaml.v3 does not use
// [encoding.TextUnmarshaler] and is converted on [Catalog.Apply].
type CatalogEntry struct {
	Kernel          string   `yaml:"kernel"`
	Rootfs          string   `yaml:"rootfs"`
	SSHKey          string   `yaml:"ssh_key"`
	User            string   `yaml:"user"`
	Machine         string   `yaml:"machine"`
	CPU             string   `yaml:"cpu"`
	SMP             uint64   `yaml:"smp"`
	Memory          uint64   `yaml:"memory"`
	Transport       string   `yaml:"transport"`
	Console         string   `yaml:"console"`
	RootDevice      string   `yaml:"root_device"`
	ExtraKernelArgs []string `yaml:"extra_kernel_args"`
}

// FindCatalogFile returns the path of the machine catalog to use.
//
// An explicitly given path wins over the environment variable
// GUESTRUN_IMAGES, which wins over a guestrun.yaml file in the working
// directory. Empty means there is no catalog.
func FindCatalogFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if path := os.Getenv(catalogEnvVar); path != "" {
		return path
	}

	_, err := os.Stat(catalogDefaultFile)
	if err == nil {
		return catalogDefaultFile
	}

	return ""
}

// LoadCatalog reads the machine catalog file at path.
//
// Relative image paths in the catalog are resolved relative to the catalog
// file's directory, not the working directory.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var catalog Catalog

	err = yaml.Unmarshal(data, &catalog)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}

	for arch, entry := range catalog {
		entry.Kernel = resolvePath(baseDir, entry.Kernel)
		entry.Rootfs = resolvePath(baseDir, entry.Rootfs)
		entry.SSHKey = resolvePath(baseDir, entry.SSHKey)
		catalog[arch] = entry
	}

	return catalog, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}

// Apply fills unset fields of the spec from the catalog entry for the
// spec's architecture. A spec without a matching entry is left untouched.
func (c Catalog) Apply(spec *Spec) error {
	entry, ok := c[spec.Arch.String()]
	if !ok {
		return nil
	}

	applyString(&spec.Qemu.Kernel, entry.Kernel)
	applyString(&spec.Qemu.Rootfs, entry.Rootfs)
	applyString(&spec.Qemu.RootDevice, entry.RootDevice)
	applyString(&spec.Qemu.Machine, entry.Machine)
	applyString(&spec.Qemu.CPU, entry.CPU)
	applyString(&spec.Qemu.Console, entry.Console)
	applyString(&spec.Guest.KeyFile, entry.SSHKey)
	applyString(&spec.Guest.User, entry.User)

	if spec.Qemu.SMP == 0 {
		spec.Qemu.SMP = entry.SMP
	}

	if spec.Qemu.Memory == 0 {
		spec.Qemu.Memory = entry.Memory
	}

	if len(spec.Qemu.ExtraKernelArgs) == 0 {
		spec.Qemu.ExtraKernelArgs = entry.ExtraKernelArgs
	}

	if spec.Qemu.TransportType == "" && entry.Transport != "" {
		err := spec.Qemu.TransportType.UnmarshalText([]byte(entry.Transport))
		if err != nil {
			return fmt.Errorf("catalog transport: %w", err)
		}
	}

	return nil
}

func applyString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
