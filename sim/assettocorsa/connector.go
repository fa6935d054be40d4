// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package assettocorsa

import (
	"bytes"

	"github.com/race-engineering-center/ksana/shm"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Connector reads telemetry frames from a running Assetto Corsa instance.
//
// Connector is not safe for concurrent use.
type Connector struct {
	opener shm.Opener

	graphics shm.ReadRegion
	physics  shm.ReadRegion
	static   shm.ReadRegion
}

// NewConnector creates a Connector that attaches through o.
func NewConnector(o shm.Opener) *Connector {
	return &Connector{opener: o}
}

// ID returns the Assetto Corsa stream identifier.
func (c *Connector) ID() [4]byte { return ID }

// Name returns the simulator's name.
func (c *Connector) Name() string { return "Assetto Corsa" }

// Connect attaches to the three telemetry pages.
//
// Connect fails when any page does not exist or when the simulator has no
// live session.
func (c *Connector) Connect() error {
	graphics, err := c.opener.OpenRead(GraphicsSHMName, pageSize)
	if err != nil {
		return errors.Wrap(err, "opening graphics page")
	}
	physics, err := c.opener.OpenRead(PhysicsSHMName, pageSize)
	if err != nil {
		_ = graphics.Close()
		return errors.Wrap(err, "opening physics page")
	}
	static, err := c.opener.OpenRead(StaticSHMName, pageSize)
	if err != nil {
		_ = graphics.Close()
		_ = physics.Close()
		return errors.Wrap(err, "opening static page")
	}

	var g GraphicsPage
	if err := unpackPage(graphics.Bytes(), &g); err != nil {
		_ = graphics.Close()
		_ = physics.Close()
		_ = static.Close()
		return errors.Wrap(err, "reading graphics page")
	}
	if !g.Live() {
		_ = graphics.Close()
		_ = physics.Close()
		_ = static.Close()
		return errors.New("simulator is not in a session")
	}

	c.graphics = graphics
	c.physics = physics
	c.static = static
	return nil
}

// Disconnect releases the telemetry pages.
func (c *Connector) Disconnect() {
	for _, region := range []shm.ReadRegion{c.graphics, c.physics, c.static} {
		if region != nil {
			_ = region.Close()
		}
	}
	c.graphics = nil
	c.physics = nil
	c.static = nil
}

// GetData reads the next telemetry frame.
//
// GetData returns nil when the simulator has left the session. Assetto
// Corsa's pages carry no tick counter usable for deduplication, so every
// call during a live session produces a frame.
func (c *Connector) GetData() ([]byte, error) {
	if c.graphics == nil {
		return nil, errors.New("not connected")
	}

	var f FrameData
	if err := unpackPage(c.graphics.Bytes(), &f.Graphics); err != nil {
		return nil, errors.Wrap(err, "reading graphics page")
	}
	if !f.Graphics.Live() {
		return nil, nil
	}

	if err := unpackPage(c.physics.Bytes(), &f.Physics); err != nil {
		return nil, errors.Wrap(err, "reading physics page")
	}
	if err := unpackPage(c.static.Bytes(), &f.Static); err != nil {
		return nil, errors.Wrap(err, "reading static page")
	}

	return f.Serialize()
}

func unpackPage(mem []byte, page interface{}) error {
	return struc.Unpack(bytes.NewReader(mem), page)
}
