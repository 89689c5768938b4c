// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"

	"github.com/kortschak/coyote/cmd/internal/trace"
)

const (
	cardWidth  = 296
	cardHeight = 128

	plotTop = 48 // strength history below the status text
)

// statusCard renders battery level, applied strengths and a strength
// history plot onto a fixed-size greyscale card.
type statusCard struct {
	img  *image.Gray
	a, b *trace.Window
	buf  []float64
}

func newStatusCard() *statusCard {
	return &statusCard{
		img: image.NewGray(image.Rect(0, 0, cardWidth, cardHeight)),
		a:   trace.NewWindow(cardWidth),
		b:   trace.NewWindow(cardWidth),
		buf: make([]float64, cardWidth),
	}
}

// push records applied strengths for the history plot.
func (s *statusCard) push(a, b float64) {
	s.a.Push(a)
	s.b.Push(b)
}

// draw renders the card and returns it.
func (s *statusCard) draw(level int, a, b float64) image.Image {
	blank(s.img)

	font := &freesans.Bold12pt7b
	tinyfont.WriteLine(display{s.img}, font,
		8, int16(font.YAdvance), fmt.Sprintf("%d%%", level), color.RGBA{A: 0xff})
	small := &freesans.Regular9pt7b
	tinyfont.WriteLine(display{s.img}, small,
		96, int16(small.YAdvance), fmt.Sprintf("A %.2f  B %.2f", a, b), color.RGBA{A: 0xff})

	plotTrace(s.img, s.a, s.buf, color.Gray{Y: 0x00})
	plotTrace(s.img, s.b, s.buf, color.Gray{Y: 0x80})

	return s.img
}

func plotTrace(img draw.Image, w *trace.Window, buf []float64, c color.Color) {
	n := w.Snapshot(buf)
	if n < 2 {
		return
	}
	height := img.Bounds().Dy() - plotTop
	for i := 1; i < n; i++ {
		join(img, i-1, plotTop+vpos(buf[i-1], height), i, plotTop+vpos(buf[i], height), c)
	}
}

// vpos maps a strength fraction in [0, 1] to a y offset within the
// plot, full scale at the top.
func vpos(v float64, height int) int {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	return int((1 - v) * float64(height-1))
}

// join draws the step between two adjacent samples. The samples are
// one column apart, so a vertical run connects them.
func join(img draw.Image, x0, y0, x1, y1 int, c color.Color) {
	img.Set(x0, y0, c)
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		img.Set(x1, y, c)
	}
}

func blank(img draw.Image) {
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
}

// display adapts a draw.Image to the displayer tinyfont writes to.
type display struct {
	img draw.Image
}

func (d display) SetPixel(x, y int16, c color.RGBA) { d.img.Set(int(x), int(y), c) }

func (d display) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d display) Display() error { return nil }
