// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pwm implements the packed binary layouts used by the
// pulse generation characteristics of the DG-LAB Coyote 2.0.
//
// All layouts share the same shape: a 24-bit value stored as three
// little-endian bytes, fields packed from the most significant bit
// down, with the two lowest bits reserved and always zero.
package pwm

import (
	"errors"
	"fmt"
)

// Characteristic identifiers for the pulse generation
// characteristics of the Coyote primary service.
//
// Channel A of the driver API maps to the ...1506 characteristic and
// channel B to ...1505. The device's own application uses this
// mapping, so it is preserved here for interoperability even though
// the suffixes read as swapped.
const (
	StrengthCharacteristicID = "955A1504-0FE2-F5AA-A094-84B8D4F3E8AD"
	WaveACharacteristicID    = "955A1506-0FE2-F5AA-A094-84B8D4F3E8AD"
	WaveBCharacteristicID    = "955A1505-0FE2-F5AA-A094-84B8D4F3E8AD"
)

var (
	// ErrRange indicates a value outside a field's valid range.
	ErrRange = errors.New("value out of range")
	// ErrPayload indicates a payload of unexpected length.
	ErrPayload = errors.New("malformed payload")
)

// Resolution is the number of strength steps spanned by the [0, 1]
// fractional strength scale.
const Resolution = 7

// Strength returns the fractional strength for a raw strength
// magnitude.
func Strength(raw int) float64 { return float64(raw) / Resolution }

// RawStrength returns the raw strength magnitude for a fractional
// strength in [0, 1]. The conversion truncates toward zero; this is
// the device's quantisation behaviour, not rounding.
func RawStrength(v float64) int { return int(v * Resolution) }

// Field limits.
const (
	MaxStrength = 1<<11 - 1 // per channel

	MaxWaveX = 1<<5 - 1
	MaxWaveY = 1<<10 - 1
	MaxWaveZ = 1<<5 - 1
)

const payloadSize = 3

// EncodeStrength packs the channel A and B raw strength magnitudes,
// each 0–2047, into a strength characteristic payload.
func EncodeStrength(a, b int) ([]byte, error) {
	if uint(a) > MaxStrength {
		return nil, fmt.Errorf("channel a strength %d: %w", a, ErrRange)
	}
	if uint(b) > MaxStrength {
		return nil, fmt.Errorf("channel b strength %d: %w", b, ErrRange)
	}
	return leUint24(uint32(a)<<13 | uint32(b)<<2), nil
}

// DecodeStrength unpacks a strength characteristic payload into the
// channel A and B raw strength magnitudes.
func DecodeStrength(p []byte) (a, b int, err error) {
	if len(p) != payloadSize {
		return 0, 0, fmt.Errorf("strength payload length %d: %w", len(p), ErrPayload)
	}
	v := leValue24(p)
	return int(v >> 13), int(v >> 2 & MaxStrength), nil
}

// Wave is one channel's pulse wave descriptor.
type Wave struct {
	X int // 0–31
	Y int // 0–1023
	Z int // 0–31
}

// EncodeWave packs pulse wave parameters into a wave characteristic
// payload.
func EncodeWave(x, y, z int) ([]byte, error) {
	if uint(x) > MaxWaveX {
		return nil, fmt.Errorf("wave x %d: %w", x, ErrRange)
	}
	if uint(y) > MaxWaveY {
		return nil, fmt.Errorf("wave y %d: %w", y, ErrRange)
	}
	if uint(z) > MaxWaveZ {
		return nil, fmt.Errorf("wave z %d: %w", z, ErrRange)
	}
	return leUint24(((uint32(x)<<10|uint32(y))<<5 | uint32(z)) << 2), nil
}

// DecodeWave unpacks a wave characteristic payload into pulse wave
// parameters.
func DecodeWave(p []byte) (x, y, z int, err error) {
	if len(p) != payloadSize {
		return 0, 0, 0, fmt.Errorf("wave payload length %d: %w", len(p), ErrPayload)
	}
	v := leValue24(p)
	return int(v >> 19), int(v >> 9 & MaxWaveY), int(v >> 2 & MaxWaveZ), nil
}

func leUint24(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

func leValue24(p []byte) uint32 {
	_ = p[2] // bounds check hint to compiler; see golang.org/issue/14808
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
}
