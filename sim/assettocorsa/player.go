// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package assettocorsa

import (
	"bytes"
	"encoding/binary"

	"github.com/race-engineering-center/ksana/shm"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Player replays captured Assetto Corsa telemetry frames into shared
// memory.
//
// Player is not safe for concurrent use.
type Player struct {
	opener shm.Opener

	graphics shm.WriteRegion
	physics  shm.WriteRegion
	static   shm.WriteRegion
}

// NewPlayer creates a Player that replays through o.
func NewPlayer(o shm.Opener) *Player {
	return &Player{opener: o}
}

// ID returns the Assetto Corsa stream identifier.
func (p *Player) ID() [4]byte { return ID }

// Name returns the simulator's name.
func (p *Player) Name() string { return "Assetto Corsa" }

// Initialize creates the three telemetry pages.
func (p *Player) Initialize() error {
	graphics, err := p.opener.CreateWrite(GraphicsSHMName, pageSize)
	if err != nil {
		return errors.Wrap(err, "creating graphics page")
	}
	physics, err := p.opener.CreateWrite(PhysicsSHMName, pageSize)
	if err != nil {
		_ = graphics.Close()
		return errors.Wrap(err, "creating physics page")
	}
	static, err := p.opener.CreateWrite(StaticSHMName, pageSize)
	if err != nil {
		_ = graphics.Close()
		_ = physics.Close()
		return errors.Wrap(err, "creating static page")
	}

	p.graphics = graphics
	p.physics = physics
	p.static = static
	return nil
}

// Update writes one captured frame into the pages.
func (p *Player) Update(frame []byte) error {
	if p.graphics == nil {
		return errors.New("not initialized")
	}

	f, err := DeserializeFrame(frame)
	if err != nil {
		return errors.Wrap(err, "deserializing frame")
	}

	if err := writePage(p.graphics, &f.Graphics); err != nil {
		return errors.Wrap(err, "writing graphics page")
	}
	if err := writePage(p.physics, &f.Physics); err != nil {
		return errors.Wrap(err, "writing physics page")
	}
	if err := writePage(p.static, &f.Static); err != nil {
		return errors.Wrap(err, "writing static page")
	}
	return nil
}

// Stop marks the graphics page as off and releases the pages.
//
// Stop may be called more than once.
func (p *Player) Stop() {
	if p.graphics != nil {
		var off [4]byte
		binary.LittleEndian.PutUint32(off[:], uint32(statusOff))
		p.graphics.Write(graphicsStatusOffset, off[:])
	}

	for _, region := range []shm.WriteRegion{p.graphics, p.physics, p.static} {
		if region != nil {
			_ = region.Close()
		}
	}
	p.graphics = nil
	p.physics = nil
	p.static = nil
}

func writePage(region shm.WriteRegion, page interface{}) error {
	var buf bytes.Buffer
	if err := struc.Pack(&buf, page); err != nil {
		return err
	}
	region.Write(0, buf.Bytes())
	return nil
}
