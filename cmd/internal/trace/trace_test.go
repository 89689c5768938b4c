// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"reflect"
	"testing"
)

var windowTests = []struct {
	name string
	ops  func() any
	want any
}{
	{
		name: "new_4",
		ops: func() any {
			return NewWindow(4)
		},
		want: &Window{data: make([]float64, 4)},
	},
	{
		name: "new_4_push_2",
		ops: func() any {
			w := NewWindow(4)
			w.Push(1)
			w.Push(2)
			return w
		},
		want: &Window{data: []float64{1, 2, 0, 0}, next: 2},
	},
	{
		name: "new_4_push_4",
		ops: func() any {
			w := NewWindow(4)
			for _, v := range []float64{1, 2, 3, 4} {
				w.Push(v)
			}
			return w
		},
		want: &Window{data: []float64{1, 2, 3, 4}, next: 0, full: true},
	},
	{
		name: "new_4_push_6",
		ops: func() any {
			w := NewWindow(4)
			for _, v := range []float64{1, 2, 3, 4, 5, 6} {
				w.Push(v)
			}
			return w
		},
		want: &Window{data: []float64{5, 6, 3, 4}, next: 2, full: true},
	},
	{
		name: "snapshot_partial",
		ops: func() any {
			w := NewWindow(4)
			w.Push(1)
			w.Push(2)
			var buf [4]float64
			n := w.Snapshot(buf[:])
			return []any{w.Len(), buf[:n]}
		},
		want: []any{2, []float64{1, 2}},
	},
	{
		name: "snapshot_wrapped",
		ops: func() any {
			w := NewWindow(4)
			for _, v := range []float64{1, 2, 3, 4, 5, 6} {
				w.Push(v)
			}
			var buf [4]float64
			n := w.Snapshot(buf[:])
			return []any{w.Len(), buf[:n]}
		},
		want: []any{4, []float64{3, 4, 5, 6}},
	},
	{
		name: "snapshot_short_dst",
		ops: func() any {
			w := NewWindow(4)
			for _, v := range []float64{1, 2, 3, 4, 5} {
				w.Push(v)
			}
			var buf [2]float64
			n := w.Snapshot(buf[:])
			return buf[:n]
		},
		want: []float64{2, 3},
	},
}

func TestWindow(t *testing.T) {
	for _, test := range windowTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ops()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}
