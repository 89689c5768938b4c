// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace implements a fixed-width window of plot samples.
package trace

// Window holds the most recent samples pushed into it, up to its
// size, in arrival order.
type Window struct {
	data []float64
	next int
	full bool
}

// NewWindow returns a Window holding up to n samples.
func NewWindow(n int) *Window {
	return &Window{data: make([]float64, n)}
}

// Size returns the window's capacity.
func (w *Window) Size() int { return len(w.data) }

// Len returns the number of samples held.
func (w *Window) Len() int {
	if w.full {
		return len(w.data)
	}
	return w.next
}

// Push adds a sample, dropping the oldest when the window is full.
func (w *Window) Push(v float64) {
	w.data[w.next] = v
	w.next++
	if w.next == len(w.data) {
		w.next = 0
		w.full = true
	}
}

// Snapshot copies the held samples into dst, oldest first, returning
// the number of samples copied.
func (w *Window) Snapshot(dst []float64) int {
	if !w.full {
		return copy(dst, w.data[:w.next])
	}
	n := copy(dst, w.data[w.next:])
	n += copy(dst[n:], w.data[:w.next])
	return n
}
