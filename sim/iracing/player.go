// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package iracing

import (
	"bytes"

	"github.com/race-engineering-center/ksana/shm"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Player replays captured iRacing telemetry frames into shared memory.
//
// Frames are written at the offsets recorded in their headers, so consumers
// that follow the header see the replayed data exactly where the simulator
// would have put it.
//
// Player is not safe for concurrent use.
type Player struct {
	opener shm.Opener

	// regionSize is the mapping size created by Initialize.
	regionSize int

	region shm.WriteRegion
	event  shm.Handle
}

// NewPlayer creates a Player that replays through o.
func NewPlayer(o shm.Opener) *Player {
	return &Player{opener: o, regionSize: playerRegionSize}
}

// ID returns the iRacing stream identifier.
func (p *Player) ID() [4]byte { return ID }

// Name returns the simulator's name.
func (p *Player) Name() string { return "iRacing" }

// Initialize creates the telemetry mapping and the data valid event.
func (p *Player) Initialize() error {
	region, err := p.opener.CreateWrite(MemMapFileName, p.regionSize)
	if err != nil {
		return errors.Wrap(err, "creating telemetry mapping")
	}

	event, err := p.opener.CreateEvent(DataValidEventName)
	if err != nil {
		_ = region.Close()
		return errors.Wrap(err, "creating data valid event")
	}

	p.region = region
	p.event = event
	return nil
}

// Update writes one captured frame into the mapping.
func (p *Player) Update(frame []byte) error {
	if p.region == nil {
		return errors.New("not initialized")
	}

	f, err := DeserializeFrame(frame)
	if err != nil {
		return errors.Wrap(err, "deserializing frame")
	}

	var hdr [HeaderSize]byte
	packHeader(hdr[:], &f.Header)
	p.region.Write(0, hdr[:])

	latest := f.Header.LatestBufIndex()
	bufOffset := int(f.Header.VarBuf[latest].BufOffset)
	if err := p.checkBounds("telemetry buffer", bufOffset, len(f.RawData)); err != nil {
		return err
	}
	p.region.Write(bufOffset, f.RawData)

	vhOffset := int(f.Header.VarHeaderOffset)
	if err := p.checkBounds("var headers", vhOffset, len(f.VarHeaders)*VarHeaderSize); err != nil {
		return err
	}
	var vhBuf bytes.Buffer
	for i := range f.VarHeaders {
		vhBuf.Reset()
		if err := struc.Pack(&vhBuf, &f.VarHeaders[i]); err != nil {
			return errors.Wrapf(err, "packing var header %d", i)
		}
		p.region.Write(vhOffset+i*VarHeaderSize, vhBuf.Bytes())
	}

	if f.SessionInfo != "" {
		siOffset := int(f.Header.SessionInfoOffset)
		if err := p.checkBounds("session info", siOffset, len(f.SessionInfo)); err != nil {
			return err
		}
		p.region.Write(siOffset, []byte(f.SessionInfo))
	}

	return nil
}

// Stop marks the mapping as disconnected and releases it.
//
// Stop may be called more than once.
func (p *Player) Stop() {
	if p.region != nil {
		// Clear the connected bit so consumers observe a disconnect
		// before the mapping goes away.
		var disconnected [4]byte
		p.region.Write(statusOffset, disconnected[:])

		_ = p.region.Close()
		p.region = nil
	}
	if p.event != nil {
		_ = p.event.Close()
		p.event = nil
	}
}

// checkBounds validates a write destination against the mapping size.
// Offsets come from captured frame headers, so a frame from a corrupt
// stream must fail rather than panic the region.
func (p *Player) checkBounds(what string, off, n int) error {
	if off < 0 || off+n > p.region.Size() {
		return errors.Errorf("%s write of %d bytes at offset %d exceeds mapping of %d bytes",
			what, n, off, p.region.Size())
	}
	return nil
}
