// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"

	"gioui.org/x/explorer"
	"gopkg.in/yaml.v3"
)

// savePreset writes the device's currently applied wave parameters
// to a YAML file chosen by the user.
func (c *control) savePreset(expl *explorer.Explorer) {
	p, err := c.currentWaves()
	if err != nil {
		log.Printf("failed to read waves: %v", err)
		return
	}
	w, err := expl.CreateFile("waves.yaml")
	if err != nil {
		log.Printf("failed to create preset file: %v", err)
		return
	}
	defer w.Close()
	enc := yaml.NewEncoder(w)
	err = enc.Encode(p)
	if err != nil {
		log.Printf("failed to write preset: %v", err)
		return
	}
	err = enc.Close()
	if err != nil {
		log.Printf("failed to write preset: %v", err)
	}
}

// loadPreset reads wave parameters from a user-chosen YAML file and
// applies them to both channels.
func (c *control) loadPreset(expl *explorer.Explorer) {
	r, err := expl.ChooseFile(".yaml", ".yml")
	if err != nil {
		log.Printf("failed to choose preset file: %v", err)
		return
	}
	defer r.Close()
	var p wavePair
	err = yaml.NewDecoder(r).Decode(&p)
	if err != nil {
		log.Printf("failed to read preset: %v", err)
		return
	}
	c.setWaves(p)
}
