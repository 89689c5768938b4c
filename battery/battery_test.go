// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package battery

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

var decodeTests = []struct {
	name    string
	payload []byte
	want    int
	err     error
}{
	{name: "empty", payload: nil, err: ErrPayload},
	{name: "full", payload: []byte{100}, want: 100},
	{name: "low", payload: []byte{3}, want: 3},
	{name: "trailing_ignored", payload: []byte{90, 0xff}, want: 90},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Decode(test.payload)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error: got %v want %v", err, test.err)
			}
			if err == nil && got != test.want {
				t.Errorf("unexpected level: got %d want %d", got, test.want)
			}
		})
	}
}

// readerHandle serves characteristic reads from a fixed table.
type readerHandle map[string][]byte

func (h readerHandle) Connect(_ context.Context) error { return nil }
func (h readerHandle) Disconnect() error               { return nil }
func (h readerHandle) Connected() bool                 { return true }
func (h readerHandle) ServiceIDs() ([]string, error)   { return nil, nil }
func (h readerHandle) Write(string, []byte) error      { return nil }
func (h readerHandle) Read(id string) ([]byte, error) {
	p, ok := h[id]
	if !ok {
		return nil, fmt.Errorf("no characteristic %s", id)
	}
	return p, nil
}

func TestLevel(t *testing.T) {
	h := readerHandle{LevelCharacteristicID: []byte{85}}
	got, err := Level(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 85 {
		t.Errorf("unexpected level: got %d want 85", got)
	}
}
