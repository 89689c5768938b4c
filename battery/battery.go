// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package battery implements reading of the Coyote 2.0's vendor
// battery level characteristic.
package battery

import (
	"errors"
	"fmt"

	"github.com/kortschak/coyote/gatt"
)

// LevelCharacteristicID is the battery level characteristic of the
// Coyote primary service. The value is a single byte holding the
// charge percentage.
const LevelCharacteristicID = "955A1500-0FE2-F5AA-A094-84B8D4F3E8AD"

// ErrPayload indicates a battery level payload of unexpected length.
var ErrPayload = errors.New("malformed payload")

// Level returns the battery charge percentage for the device behind
// the provided handle.
func Level(h gatt.Handle) (int, error) {
	p, err := h.Read(LevelCharacteristicID)
	if err != nil {
		return 0, fmt.Errorf("failed to read battery level: %w", err)
	}
	return Decode(p)
}

// Decode returns the battery charge percentage held in a battery
// level characteristic payload.
func Decode(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("empty battery level payload: %w", ErrPayload)
	}
	return int(p[0]), nil
}
