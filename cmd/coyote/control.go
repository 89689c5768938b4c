// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"image"
	"log"
	"time"

	"github.com/kortschak/coyote/coyote"
	"github.com/kortschak/coyote/pwm"
)

// control owns all device traffic. The driver is not safe for
// concurrent use, so the UI communicates with a single worker
// goroutine through channels.
type control struct {
	dev *coyote.Device

	strength  chan [2]float64
	waves     chan wavePair
	readWaves chan chan waveResult
	update    chan image.Image

	cancel context.CancelFunc
	done   chan struct{}
}

type wavePair struct {
	A pwm.Wave `yaml:"a"`
	B pwm.Wave `yaml:"b"`
}

type waveResult struct {
	waves wavePair
	err   error
}

func newControl(dev *coyote.Device, update chan image.Image) *control {
	ctx, cancel := context.WithCancel(context.Background())
	c := &control{
		dev:       dev,
		strength:  make(chan [2]float64, 1),
		waves:     make(chan wavePair, 1),
		readWaves: make(chan chan waveResult),
		update:    update,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go c.run(ctx)
	return c
}

// setStrength requests a strength write, replacing any not yet
// written request so slider drags coalesce.
func (c *control) setStrength(a, b float64) {
	for {
		select {
		case c.strength <- [2]float64{a, b}:
			return
		case <-c.strength:
		}
	}
}

// setWaves requests a wave parameter write for both channels.
func (c *control) setWaves(p wavePair) {
	for {
		select {
		case c.waves <- p:
			return
		case <-c.waves:
		}
	}
}

// currentWaves returns the wave parameters applied to the device.
func (c *control) currentWaves() (wavePair, error) {
	req := make(chan waveResult, 1)
	select {
	case c.readWaves <- req:
	case <-c.done:
		return wavePair{}, errors.New("control closed")
	}
	select {
	case r := <-req:
		return r.waves, r.err
	case <-c.done:
		return wavePair{}, errors.New("control closed")
	}
}

func (c *control) run(ctx context.Context) {
	defer close(c.done)

	status := newStatusCard()

	level, err := c.dev.BatteryLevel()
	if err != nil {
		log.Printf("failed to read battery level: %v", err)
	}
	a, b, err := c.dev.Strength()
	if err != nil {
		log.Printf("failed to read strength: %v", err)
	}
	status.push(a, b)

	redraw := func() {
		select {
		case c.update <- status.draw(level, a, b):
		case <-ctx.Done():
		}
	}
	redraw()

	battTick := time.NewTicker(30 * time.Second)
	defer battTick.Stop()
	pollTick := time.NewTicker(time.Second)
	defer pollTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-c.strength:
			err := c.dev.SetStrength(s[0], s[1])
			if err != nil {
				log.Printf("failed to set strength: %v", err)
			}
		case p := <-c.waves:
			err := c.dev.SetWaveA(p.A)
			if err == nil {
				err = c.dev.SetWaveB(p.B)
			}
			if err != nil {
				log.Printf("failed to set waves: %v", err)
			}
		case req := <-c.readWaves:
			var r waveResult
			r.waves.A, r.err = c.dev.WaveA()
			if r.err == nil {
				r.waves.B, r.err = c.dev.WaveB()
			}
			req <- r
		case <-battTick.C:
			level, err = c.dev.BatteryLevel()
			if err != nil {
				log.Printf("failed to read battery level: %v", err)
				continue
			}
			redraw()
		case <-pollTick.C:
			a, b, err = c.dev.Strength()
			if err != nil {
				log.Printf("failed to read strength: %v", err)
				continue
			}
			status.push(a, b)
			redraw()
		}
	}
}

// Close stops the worker. The device connection is left to the
// caller to drop.
func (c *control) Close() {
	c.cancel()
	<-c.done
}
