// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package assettocorsa captures and replays Assetto Corsa telemetry.
//
// Assetto Corsa publishes three independent shared memory pages: graphics,
// physics and static session data. The pages here are padded beyond the
// sizes the simulator writes, which leaves headroom for Assetto Corsa
// Competizione's larger layouts under the same page names.
package assettocorsa

import (
	"bytes"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

const (
	// GraphicsSHMName, PhysicsSHMName and StaticSHMName are the names of
	// the simulator's shared memory pages.
	GraphicsSHMName = `Local\acpmf_graphics`
	PhysicsSHMName  = `Local\acpmf_physics`
	StaticSHMName   = `Local\acpmf_static`

	// pageSize is the view size used for every page.
	pageSize = 2048

	// GraphicsPageSize, PhysicsPageSize and StaticPageSize are the padded
	// byte sizes of the page structures.
	GraphicsPageSize = 2048
	PhysicsPageSize  = 1024
	StaticPageSize   = 2048

	// FrameSize is the byte size of a serialized frame.
	FrameSize = GraphicsPageSize + PhysicsPageSize + StaticPageSize

	// statusOff is the graphics page Status value while the simulator is
	// not in a session.
	statusOff int32 = 0

	// graphicsStatusOffset is the byte offset of Status in the graphics
	// page.
	graphicsStatusOffset = 4
)

// ID identifies Assetto Corsa in stream file headers.
var ID = [4]byte{'a', 'c', 's', 'a'}

// ErrFrameTooShort indicates a captured frame smaller than FrameSize.
var ErrFrameTooShort = errors.New("frame data too short")

// GraphicsPage is the simulator's graphics page. Content is padded; the
// simulator writes 468 bytes, Competizione 1892.
type GraphicsPage struct {
	PacketID int32 `struc:",little"`
	Status   int32 `struc:",little"`
	Content  [2040]byte
}

// PhysicsPage is the simulator's physics page. Content is padded; the
// simulator writes 568 bytes, Competizione 800.
type PhysicsPage struct {
	Content [1024]byte
}

// StaticPage is the simulator's static session page. Content is padded; the
// simulator writes 1044 bytes, Competizione 1336.
type StaticPage struct {
	SMVersion [15]uint16 `struc:"[15]uint16,little"`
	ACVersion [15]uint16 `struc:"[15]uint16,little"`
	Content   [1988]byte
}

// Live reports whether the simulator is in a session.
func (g *GraphicsPage) Live() bool {
	return g.Status != statusOff
}

// FrameData is one captured Assetto Corsa telemetry frame: the three pages
// in graphics, physics, static order.
type FrameData struct {
	Graphics GraphicsPage
	Physics  PhysicsPage
	Static   StaticPage
}

// Serialize flattens the frame into the stream payload form.
func (f *FrameData) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(FrameSize)

	if err := struc.Pack(&buf, &f.Graphics); err != nil {
		return nil, errors.Wrap(err, "packing graphics page")
	}
	if err := struc.Pack(&buf, &f.Physics); err != nil {
		return nil, errors.Wrap(err, "packing physics page")
	}
	if err := struc.Pack(&buf, &f.Static); err != nil {
		return nil, errors.Wrap(err, "packing static page")
	}
	return buf.Bytes(), nil
}

// DeserializeFrame parses a frame previously produced by Serialize.
func DeserializeFrame(data []byte) (*FrameData, error) {
	if len(data) < FrameSize {
		return nil, errors.Wrapf(ErrFrameTooShort, "%d bytes", len(data))
	}

	var f FrameData
	r := bytes.NewReader(data)
	if err := struc.Unpack(r, &f.Graphics); err != nil {
		return nil, errors.Wrap(err, "unpacking graphics page")
	}
	if err := struc.Unpack(r, &f.Physics); err != nil {
		return nil, errors.Wrap(err, "unpacking physics page")
	}
	if err := struc.Unpack(r, &f.Static); err != nil {
		return nil, errors.Wrap(err, "unpacking static page")
	}
	return &f, nil
}
