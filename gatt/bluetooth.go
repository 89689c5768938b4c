// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gatt

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"tinygo.org/x/bluetooth"
)

// Adapter is a Central backed by the platform Bluetooth adapter.
type Adapter struct {
	adapter *bluetooth.Adapter

	mu      sync.Mutex
	handles map[string]*handle
}

// NewAdapter returns a Central using tinygo.org/x/bluetooth's default
// adapter.
func NewAdapter() *Adapter {
	return &Adapter{
		adapter: bluetooth.DefaultAdapter,
		handles: make(map[string]*handle),
	}
}

// Enable powers on the adapter and registers the link status handler
// that keeps open handles' connection state current.
func (a *Adapter) Enable() error {
	err := a.adapter.Enable()
	if err != nil {
		return fmt.Errorf("failed to enable adapter: %w", err)
	}
	a.adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
		a.mu.Lock()
		h, ok := a.handles[dev.Address.String()]
		a.mu.Unlock()
		if ok {
			h.connected.Store(connected)
		}
	})
	return nil
}

// FindDevice scans for a device advertising the given local name.
func (a *Adapter) FindDevice(ctx context.Context, name string) (string, error) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			a.adapter.StopScan()
		case <-done:
		}
	}()
	var addr string
	err := a.adapter.Scan(func(adapter *bluetooth.Adapter, found bluetooth.ScanResult) {
		if found.LocalName() != name {
			return
		}
		addr = found.Address.String()
		adapter.StopScan()
	})
	close(done)
	if err != nil && ctx.Err() == nil {
		return "", fmt.Errorf("failed to scan for %q: %w", name, err)
	}
	if addr == "" {
		return "", ErrNotFound
	}
	return addr, nil
}

// Open returns a handle to the device at addr. Service and
// characteristic metadata is rediscovered for each operation rather
// than held over from previous connections.
func (a *Adapter) Open(addr string) (Handle, error) {
	var mac bluetooth.Address
	err := mac.UnmarshalText([]byte(addr))
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	h := &handle{adapter: a.adapter, addr: mac}
	a.mu.Lock()
	a.handles[mac.String()] = h
	a.mu.Unlock()
	return h, nil
}

var _ Central = (*Adapter)(nil)

type handle struct {
	adapter *bluetooth.Adapter
	addr    bluetooth.Address

	dev       *bluetooth.Device
	connected atomic.Bool
}

func (h *handle) Connect(ctx context.Context) error {
	// The underlying Connect blocks with its own timeout; wrap it
	// so ctx cancellation returns control to the caller.
	type result struct {
		dev bluetooth.Device
		err error
	}
	ch := make(chan result, 1)
	go func() {
		dev, err := h.adapter.Connect(h.addr, bluetooth.ConnectionParams{})
		ch <- result{dev, err}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("failed to connect to %s: %w", h.addr, r.err)
		}
		h.dev = &r.dev
		h.connected.Store(true)
		return nil
	}
}

func (h *handle) Disconnect() error {
	if h.dev == nil {
		return nil
	}
	err := h.dev.Disconnect()
	if err != nil {
		return fmt.Errorf("failed to disconnect from %s: %w", h.addr, err)
	}
	h.connected.Store(false)
	return nil
}

func (h *handle) Connected() bool {
	return h.dev != nil && h.connected.Load()
}

func (h *handle) ServiceIDs() ([]string, error) {
	srvs, err := h.dev.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}
	ids := make([]string, len(srvs))
	for i, s := range srvs {
		ids[i] = s.UUID().String()
	}
	return ids, nil
}

func (h *handle) Read(charID string) ([]byte, error) {
	char, err := h.characteristic(charID)
	if err != nil {
		return nil, err
	}
	mtu, err := char.GetMTU()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain mtu of characteristic: %w", err)
	}
	buf := make([]byte, mtu)
	n, err := char.Read(buf)
	if err != nil && err != io.EOF {
		return buf[:n], fmt.Errorf("failed to read characteristic %s: %w", charID, err)
	}
	return buf[:n], nil
}

func (h *handle) Write(charID string, p []byte) error {
	char, err := h.characteristic(charID)
	if err != nil {
		return err
	}
	_, err = char.WriteWithoutResponse(p)
	if err != nil {
		return fmt.Errorf("failed to write characteristic %s: %w", charID, err)
	}
	return nil
}

// characteristic returns the device characteristic with the given
// UUID from any of the device's services.
func (h *handle) characteristic(charID string) (bluetooth.DeviceCharacteristic, error) {
	id, err := bluetooth.ParseUUID(charID)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("invalid characteristic %q: %w", charID, err)
	}
	srvs, err := h.dev.DiscoverServices(nil)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("failed to discover services: %w", err)
	}
	for _, s := range srvs {
		chars, err := s.DiscoverCharacteristics([]bluetooth.UUID{id})
		if err != nil {
			continue
		}
		if len(chars) != 0 {
			return chars[0], nil
		}
	}
	return bluetooth.DeviceCharacteristic{}, fmt.Errorf("characteristic %s not found", charID)
}

var _ Handle = (*handle)(nil)
