// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The coyote command is a control panel for the DG-LAB Coyote 2.0,
// demonstrating the coyote, pwm and battery packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"

	"github.com/kortschak/coyote/coyote"
	"github.com/kortschak/coyote/gatt"
)

func main() {
	addr := flag.String("addr", "", "device bluetooth address (scan by advertised name if empty)")
	timeout := flag.Duration("timeout", 30*time.Second, "discovery and connection timeout")
	flag.Parse()

	central := gatt.NewAdapter()
	err := central.Enable()
	if err != nil {
		fmt.Printf("failed to enable bluetooth: %v\n", err)
		os.Exit(1)
	}

	dev := coyote.New(central, *addr)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	if *addr == "" {
		fmt.Println("scanning...")
		err = dev.Find(ctx)
		if err != nil {
			fmt.Printf("failed to find device: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("found device: %s\n", dev.Address())
	}
	err = dev.Connect(ctx)
	cancel()
	if err != nil {
		fmt.Printf("failed to connect: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("connected to %s (%s)\n", dev.Address(), dev.State())

	update := make(chan image.Image)
	c := newControl(dev, update)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		c.Close()
		dev.Disconnect()
		os.Exit(0)
	}()

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Coyote 2.0"), app.Size(360, 420))
		if err := loop(w, c, update); err != nil {
			log.Fatal(err)
		}
		c.Close()
		dev.Disconnect()
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, c *control, update chan image.Image) error {
	expl := explorer.NewExplorer(w)
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	var (
		chanA, chanB widget.Float
		save, load   widget.Clickable
	)

	events := make(chan event.Event)
	ack := make(chan struct{})

	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-ack
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	var img image.Image
	var ops op.Ops
	for {
		select {
		case img = <-update:
			w.Invalidate()
		case e := <-events:
			expl.ListenEvents(e)
			switch e := e.(type) {
			case app.DestroyEvent:
				ack <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				if chanA.Update(gtx) || chanB.Update(gtx) {
					c.setStrength(float64(chanA.Value), float64(chanB.Value))
				}
				if save.Clicked(gtx) {
					go c.savePreset(expl)
				}
				if load.Clicked(gtx) {
					go c.loadPreset(expl)
				}
				layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
							if img == nil {
								return layout.Dimensions{}
							}
							return widget.Image{
								Src: paint.NewImageOp(img),
								Fit: widget.Contain,
							}.Layout(gtx)
						}),
						layout.Rigid(slider(th, "A", &chanA)),
						layout.Rigid(slider(th, "B", &chanB)),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
								layout.Rigid(material.Button(th, &save, "Save waves").Layout),
								layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
								layout.Rigid(material.Button(th, &load, "Load waves").Layout),
							)
						}),
					)
				})
				e.Frame(gtx.Ops)
			}
			ack <- struct{}{}
		}
	}
}

func slider(th *material.Theme, label string, f *widget.Float) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Body1(th, label).Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Flexed(1, material.Slider(th, f).Layout),
		)
	}
}
