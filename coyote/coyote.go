// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coyote implements a driver for the DG-LAB Coyote 2.0
// two-channel electro-stimulation device.
//
// The device is controlled over BLE GATT. The driver owns a single
// transport handle per device address and guards every protocol
// operation behind a live, verified connection; byte-level encoding
// is handled by the pwm and battery packages.
package coyote

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kortschak/coyote/battery"
	"github.com/kortschak/coyote/gatt"
	"github.com/kortschak/coyote/pwm"
)

const (
	// DeviceName is the local name the device advertises.
	DeviceName = "D-LAB ESTIM01"

	// ServiceID is the primary service a Coyote 2.0 must expose.
	// Connection attempts to devices lacking it are torn down.
	ServiceID = "955A180A-0FE2-F5AA-A094-84B8D4F3E8AD"
)

var (
	// ErrDeviceNotFound indicates that no advertising Coyote was
	// found during discovery.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrNoAddress indicates a connection attempt without a known
	// device address.
	ErrNoAddress = errors.New("no device address")
	// ErrAlreadyConnected indicates a connection attempt on a live
	// session.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrNotConnected indicates a protocol operation attempted
	// while disconnected.
	ErrNotConnected = errors.New("not connected")
	// ErrWrongDevice indicates a connected peer that does not
	// expose the Coyote primary service.
	ErrWrongDevice = errors.New("device is not a coyote 2.0")
	// ErrAddressFixed indicates an address change after the
	// transport handle was opened; handles are bound to the
	// address they were created with.
	ErrAddressFixed = errors.New("address fixed by open transport handle")
)

// State is the connection state of a Device.
type State int

//go:generate go tool golang.org/x/tools/cmd/stringer -type State

const (
	Disconnected State = iota
	Connected
)

// Device is a logical session with a single Coyote 2.0.
//
// A Device is not safe for concurrent use; callers must serialise
// operations. The driver does not retry failed transport operations
// and imposes no timeouts of its own.
type Device struct {
	central gatt.Central
	addr    string
	handle  gatt.Handle
}

// New returns a Device using the provided central. addr may be empty,
// in which case it must be populated by Find or SetAddress before
// connecting.
func New(central gatt.Central, addr string) *Device {
	return &Device{central: central, addr: addr}
}

// Address returns the device's link address, or the empty string if
// it is not yet known.
func (d *Device) Address() string { return d.addr }

// SetAddress sets the device's link address. It returns
// ErrAddressFixed if the transport handle has already been opened.
func (d *Device) SetAddress(addr string) error {
	if d.handle != nil {
		return ErrAddressFixed
	}
	d.addr = addr
	return nil
}

// Find scans for a device advertising the Coyote local name and
// stores its address. It returns ErrDeviceNotFound if the scan ends
// without a match.
func (d *Device) Find(ctx context.Context) error {
	addr, err := d.central.FindDevice(ctx, DeviceName)
	if err != nil {
		if errors.Is(err, gatt.ErrNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}
	return d.SetAddress(addr)
}

// transport returns the device's transport handle, opening it on
// first use. The handle is reused across connections.
func (d *Device) transport() (gatt.Handle, error) {
	if d.handle != nil {
		return d.handle, nil
	}
	if d.addr == "" {
		return nil, ErrNoAddress
	}
	h, err := d.central.Open(d.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport to %s: %w", d.addr, err)
	}
	d.handle = h
	return h, nil
}

// Connect connects to the device and confirms that it exposes the
// Coyote primary service. A peer advertising the right name but
// lacking the service is disconnected before Connect returns
// ErrWrongDevice.
func (d *Device) Connect(ctx context.Context) error {
	if d.addr == "" {
		return ErrNoAddress
	}
	if d.Connected() {
		return ErrAlreadyConnected
	}
	h, err := d.transport()
	if err != nil {
		return err
	}
	err = h.Connect(ctx)
	if err != nil {
		return err
	}
	ids, err := h.ServiceIDs()
	if err != nil {
		h.Disconnect()
		return fmt.Errorf("failed to enumerate services: %w", err)
	}
	if !slices.ContainsFunc(ids, func(id string) bool { return strings.EqualFold(id, ServiceID) }) {
		h.Disconnect()
		return ErrWrongDevice
	}
	return nil
}

// Disconnect drops the connection. It is safe to call on a device
// that is not connected.
func (d *Device) Disconnect() error {
	if d.handle == nil {
		return nil
	}
	return d.handle.Disconnect()
}

// Connected reports whether the device's link is live. The transport
// is queried on each call since the link can drop at any time.
func (d *Device) Connected() bool {
	return d.handle != nil && d.handle.Connected()
}

// State returns the device's connection state.
func (d *Device) State() State {
	if d.Connected() {
		return Connected
	}
	return Disconnected
}

// Session runs fn against a connected device, discovering the
// device's address first if none is known. The connection is dropped
// when fn returns, whether or not it failed.
func (d *Device) Session(ctx context.Context, fn func(*Device) error) error {
	if d.addr == "" {
		err := d.Find(ctx)
		if err != nil {
			return err
		}
	}
	err := d.Connect(ctx)
	if err != nil {
		return err
	}
	defer d.Disconnect()
	return fn(d)
}

// checkConnection returns ErrNotConnected if the device's link is not
// live. Every protocol operation performs this check before touching
// the transport.
func (d *Device) checkConnection() error {
	if !d.Connected() {
		return ErrNotConnected
	}
	return nil
}

// BatteryLevel returns the device's battery charge percentage.
func (d *Device) BatteryLevel() (int, error) {
	err := d.checkConnection()
	if err != nil {
		return 0, err
	}
	return battery.Level(d.handle)
}

// RawStrength returns the applied channel output strengths as raw
// magnitudes.
func (d *Device) RawStrength() (a, b int, err error) {
	err = d.checkConnection()
	if err != nil {
		return 0, 0, err
	}
	p, err := d.handle.Read(pwm.StrengthCharacteristicID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read strength: %w", err)
	}
	return pwm.DecodeStrength(p)
}

// Strength returns the applied channel output strengths as fractions
// of the [0, 1] scale.
func (d *Device) Strength() (a, b float64, err error) {
	ra, rb, err := d.RawStrength()
	if err != nil {
		return 0, 0, err
	}
	return pwm.Strength(ra), pwm.Strength(rb), nil
}

// SetRawStrength sets the channel output strengths from raw
// magnitudes, each 0–2047.
func (d *Device) SetRawStrength(a, b int) error {
	err := d.checkConnection()
	if err != nil {
		return err
	}
	p, err := pwm.EncodeStrength(a, b)
	if err != nil {
		return err
	}
	err = d.handle.Write(pwm.StrengthCharacteristicID, p)
	if err != nil {
		return fmt.Errorf("failed to write strength: %w", err)
	}
	return nil
}

// SetStrength sets the channel output strengths as fractions in
// [0, 1]. Values quantise to sevenths, truncating toward zero.
func (d *Device) SetStrength(a, b float64) error {
	return d.SetRawStrength(pwm.RawStrength(a), pwm.RawStrength(b))
}

// WaveA returns the pulse wave parameters applied to channel A.
func (d *Device) WaveA() (pwm.Wave, error) {
	return d.wave(pwm.WaveACharacteristicID)
}

// SetWaveA sets the pulse wave parameters for channel A.
func (d *Device) SetWaveA(w pwm.Wave) error {
	return d.setWave(pwm.WaveACharacteristicID, w)
}

// WaveB returns the pulse wave parameters applied to channel B.
func (d *Device) WaveB() (pwm.Wave, error) {
	return d.wave(pwm.WaveBCharacteristicID)
}

// SetWaveB sets the pulse wave parameters for channel B.
func (d *Device) SetWaveB(w pwm.Wave) error {
	return d.setWave(pwm.WaveBCharacteristicID, w)
}

func (d *Device) wave(charID string) (pwm.Wave, error) {
	err := d.checkConnection()
	if err != nil {
		return pwm.Wave{}, err
	}
	p, err := d.handle.Read(charID)
	if err != nil {
		return pwm.Wave{}, fmt.Errorf("failed to read wave: %w", err)
	}
	x, y, z, err := pwm.DecodeWave(p)
	if err != nil {
		return pwm.Wave{}, err
	}
	return pwm.Wave{X: x, Y: y, Z: z}, nil
}

func (d *Device) setWave(charID string, w pwm.Wave) error {
	err := d.checkConnection()
	if err != nil {
		return err
	}
	p, err := pwm.EncodeWave(w.X, w.Y, w.Z)
	if err != nil {
		return err
	}
	err = d.handle.Write(charID, p)
	if err != nil {
		return fmt.Errorf("failed to write wave: %w", err)
	}
	return nil
}
