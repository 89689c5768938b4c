// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pwm

import (
	"bytes"
	"errors"
	"testing"
)

func TestStrengthRoundTrip(t *testing.T) {
	for a := 0; a <= MaxStrength; a += 31 {
		for b := 0; b <= MaxStrength; b += 31 {
			p, err := EncodeStrength(a, b)
			if err != nil {
				t.Fatalf("unexpected error encoding (%d, %d): %v", a, b, err)
			}
			if len(p) != 3 {
				t.Fatalf("unexpected payload length for (%d, %d): %d", a, b, len(p))
			}
			if p[0]&0x3 != 0 {
				t.Fatalf("reserved bits set for (%d, %d): %#x", a, b, p)
			}
			gotA, gotB, err := DecodeStrength(p)
			if err != nil {
				t.Fatalf("unexpected error decoding %#x: %v", p, err)
			}
			if gotA != a || gotB != b {
				t.Fatalf("round trip mismatch: got (%d, %d) want (%d, %d)", gotA, gotB, a, b)
			}
		}
	}
}

func TestWaveRoundTrip(t *testing.T) {
	for x := 0; x <= MaxWaveX; x++ {
		for y := 0; y <= MaxWaveY; y += 7 {
			for z := 0; z <= MaxWaveZ; z++ {
				p, err := EncodeWave(x, y, z)
				if err != nil {
					t.Fatalf("unexpected error encoding (%d, %d, %d): %v", x, y, z, err)
				}
				if len(p) != 3 || p[0]&0x3 != 0 {
					t.Fatalf("bad payload for (%d, %d, %d): %#x", x, y, z, p)
				}
				gotX, gotY, gotZ, err := DecodeWave(p)
				if err != nil {
					t.Fatalf("unexpected error decoding %#x: %v", p, err)
				}
				if gotX != x || gotY != y || gotZ != z {
					t.Fatalf("round trip mismatch: got (%d, %d, %d) want (%d, %d, %d)",
						gotX, gotY, gotZ, x, y, z)
				}
			}
		}
	}
}

var strengthLayoutTests = []struct {
	name string
	a, b int
	want []byte
}{
	{name: "zero", a: 0, b: 0, want: []byte{0x00, 0x00, 0x00}},
	{name: "b_lsb", a: 0, b: 1, want: []byte{0x04, 0x00, 0x00}},
	{name: "a_lsb", a: 1, b: 0, want: []byte{0x00, 0x20, 0x00}},
	{name: "a_max", a: MaxStrength, b: 0, want: []byte{0x00, 0xe0, 0xff}},
	{name: "b_max", a: 0, b: MaxStrength, want: []byte{0xfc, 0x1f, 0x00}},
	{name: "both_max", a: MaxStrength, b: MaxStrength, want: []byte{0xfc, 0xff, 0xff}},
}

func TestStrengthLayout(t *testing.T) {
	for _, test := range strengthLayoutTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := EncodeStrength(test.a, test.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("unexpected encoding for (%d, %d):\ngot: %#x\nwant:%#x",
					test.a, test.b, got, test.want)
			}
			a, b, err := DecodeStrength(test.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a != test.a || b != test.b {
				t.Errorf("unexpected decoding for %#x: got (%d, %d) want (%d, %d)",
					test.want, a, b, test.a, test.b)
			}
		})
	}
}

var waveLayoutTests = []struct {
	name    string
	x, y, z int
	want    []byte
}{
	{name: "zero", x: 0, y: 0, z: 0, want: []byte{0x00, 0x00, 0x00}},
	{name: "z_lsb", x: 0, y: 0, z: 1, want: []byte{0x04, 0x00, 0x00}},
	{name: "y_lsb", x: 0, y: 1, z: 0, want: []byte{0x00, 0x02, 0x00}},
	{name: "x_lsb", x: 1, y: 0, z: 0, want: []byte{0x00, 0x00, 0x08}},
	{name: "all_max", x: MaxWaveX, y: MaxWaveY, z: MaxWaveZ, want: []byte{0xfc, 0xff, 0xff}},
}

func TestWaveLayout(t *testing.T) {
	for _, test := range waveLayoutTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := EncodeWave(test.x, test.y, test.z)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("unexpected encoding for (%d, %d, %d):\ngot: %#x\nwant:%#x",
					test.x, test.y, test.z, got, test.want)
			}
			x, y, z, err := DecodeWave(test.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if x != test.x || y != test.y || z != test.z {
				t.Errorf("unexpected decoding for %#x: got (%d, %d, %d) want (%d, %d, %d)",
					test.want, x, y, z, test.x, test.y, test.z)
			}
		})
	}
}

var strengthRangeTests = []struct {
	name string
	a, b int
}{
	{name: "a_high", a: MaxStrength + 1, b: 0},
	{name: "b_high", a: 0, b: MaxStrength + 1},
	{name: "a_negative", a: -1, b: 0},
	{name: "b_negative", a: 0, b: -1},
}

func TestEncodeStrengthRange(t *testing.T) {
	for _, test := range strengthRangeTests {
		t.Run(test.name, func(t *testing.T) {
			p, err := EncodeStrength(test.a, test.b)
			if !errors.Is(err, ErrRange) {
				t.Errorf("expected range error for (%d, %d), got %v", test.a, test.b, err)
			}
			if p != nil {
				t.Errorf("expected nil payload, got %#x", p)
			}
		})
	}
}

var waveRangeTests = []struct {
	name    string
	x, y, z int
}{
	{name: "x_high", x: MaxWaveX + 1},
	{name: "y_high", y: MaxWaveY + 1},
	{name: "z_high", z: MaxWaveZ + 1},
	{name: "x_negative", x: -1},
	{name: "y_negative", y: -1},
	{name: "z_negative", z: -1},
}

func TestEncodeWaveRange(t *testing.T) {
	for _, test := range waveRangeTests {
		t.Run(test.name, func(t *testing.T) {
			p, err := EncodeWave(test.x, test.y, test.z)
			if !errors.Is(err, ErrRange) {
				t.Errorf("expected range error for (%d, %d, %d), got %v", test.x, test.y, test.z, err)
			}
			if p != nil {
				t.Errorf("expected nil payload, got %#x", p)
			}
		})
	}
}

func TestDecodePayloadLength(t *testing.T) {
	for _, p := range [][]byte{nil, {}, {0x00}, {0x00, 0x00}, {0x00, 0x00, 0x00, 0x00}} {
		_, _, err := DecodeStrength(p)
		if !errors.Is(err, ErrPayload) {
			t.Errorf("expected payload error decoding strength from %#x, got %v", p, err)
		}
		_, _, _, err = DecodeWave(p)
		if !errors.Is(err, ErrPayload) {
			t.Errorf("expected payload error decoding wave from %#x, got %v", p, err)
		}
	}
}

func TestQuantisation(t *testing.T) {
	if got := RawStrength(1); got != 7 {
		t.Errorf("expected raw strength 7 for 1.0, got %d", got)
	}
	// Truncation toward zero: 0.5*7 = 3.5 quantises to 3.
	if got := RawStrength(0.5); got != 3 {
		t.Errorf("expected raw strength 3 for 0.5, got %d", got)
	}
	if got := RawStrength(0); got != 0 {
		t.Errorf("expected raw strength 0 for 0.0, got %d", got)
	}
	if got := Strength(7); got != 1 {
		t.Errorf("expected strength 1.0 for raw 7, got %v", got)
	}
	if got, want := Strength(3), 3.0/7.0; got != want {
		t.Errorf("expected strength %v for raw 3, got %v", want, got)
	}
}
