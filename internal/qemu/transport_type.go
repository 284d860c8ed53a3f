// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "slices"

const (
	// TransportTypePCI is VirtIO PCI transport. Requires a kernel built with
	// CONFIG_VIRTIO_PCI and a machine type with a PCI bus, like q35.
	TransportTypePCI TransportType = "pci"
	// TransportTypeMMIO is VirtIO MMIO transport. Requires a kernel built
	// with CONFIG_VIRTIO_MMIO.
	TransportTypeMMIO TransportType = "mmio"
)

// TransportType represents a QEMU VirtIO transport type.
type TransportType string

func (t *TransportType) isKnown() bool {
	knownTransportTypes := []TransportType{
		TransportTypePCI,
		TransportTypeMMIO,
	}

	return slices.Contains(knownTransportTypes, *t)
}

// String implements [fmt.Stringer].
func (t *TransportType) String() string {
	if !t.isKnown() {
		return ""
	}

	return string(*t)
}

// MarshalText implements [encoding.TextMarshaler].
func (t TransportType) MarshalText() ([]byte, error) {
	s := t.String()
	if s == "" {
		return nil, ErrTransportTypeInvalid
	}

	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *TransportType) UnmarshalText(text []byte) error {
	tt := TransportType(text)

	if !tt.isKnown() {
		return ErrTransportTypeInvalid
	}

	*t = tt

	return nil
}

// NetDeviceName returns the name of the VirtIO network device for the
// transport.
func (t *TransportType) NetDeviceName() string {
	switch *t {
	case TransportTypePCI:
		return "virtio-net-pci"
	case TransportTypeMMIO:
		return "virtio-net-device"
	default:
		return ""
	}
}
