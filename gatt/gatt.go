// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gatt defines the Bluetooth central capability that device
// drivers in this module depend on, and provides an implementation
// backed by tinygo.org/x/bluetooth.
//
// UUIDs cross this boundary as strings; implementations parse them.
package gatt

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Central.FindDevice when no advertising
// device matched before the scan ended.
var ErrNotFound = errors.New("device not found")

// Central is a Bluetooth central radio.
type Central interface {
	// Enable powers on the central. It must be called before any
	// other method.
	Enable() error

	// FindDevice scans for a device advertising the given local
	// name, returning its link address. The scan runs until a
	// device is found or ctx is done; ErrNotFound is returned when
	// the scan ends without a match.
	FindDevice(ctx context.Context, name string) (addr string, err error)

	// Open returns a handle to the device at addr. The handle does
	// not retain service metadata across connections.
	Open(addr string) (Handle, error)
}

// Handle is a connection-oriented handle to a single device. A Handle
// is bound to the address it was opened with.
type Handle interface {
	// Connect establishes the link.
	Connect(ctx context.Context) error

	// Disconnect drops the link. Disconnecting a handle that is
	// not connected is a no-op.
	Disconnect() error

	// Connected reports whether the link is currently live.
	Connected() bool

	// ServiceIDs returns the UUIDs of the services exposed by the
	// connected device.
	ServiceIDs() ([]string, error)

	// Read returns the value of the characteristic with the given
	// UUID.
	Read(charID string) ([]byte, error)

	// Write writes p to the characteristic with the given UUID.
	Write(charID string, p []byte) error
}
