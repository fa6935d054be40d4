// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package iracing captures and replays iRacing telemetry.
//
// iRacing exposes its telemetry through a single shared memory mapping. The
// mapping starts with a fixed header that describes a variable table and a
// small ring of telemetry buffers; the simulator rotates through the buffers
// and bumps a tick counter on every write.
package iracing

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/race-engineering-center/ksana/support/byteslicereader"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

const (
	// MemMapFileName is the name of iRacing's telemetry mapping.
	MemMapFileName = `Local\IRSDKMemMapFileName`

	// DataValidEventName is the name of the event iRacing signals when new
	// telemetry is available.
	DataValidEventName = `Local\IRSDKDataValidEvent`

	// MaxBufs is the number of telemetry buffers in the header's ring.
	MaxBufs = 4

	// MaxString and MaxDesc bound the strings in a VarHeader.
	MaxString = 32
	MaxDesc   = 64

	// HeaderSize is the byte size of Header in shared memory.
	HeaderSize = 112

	// VarHeaderSize is the byte size of VarHeader in shared memory.
	VarHeaderSize = 144

	// varBufSize is the byte size of VarBuf in shared memory.
	varBufSize = 16

	// statusConnected is the Header.Status bit the simulator sets while a
	// session is live.
	statusConnected = 1

	// statusOffset is the byte offset of Header.Status in the mapping.
	statusOffset = 4

	// connectorRegionSize is the view size used when reading the
	// simulator's mapping.
	connectorRegionSize = 32 * 1024 * 1024

	// playerRegionSize is the mapping size created during replay. Offsets
	// in captured headers point into the simulator's own mapping, so the
	// replay mapping must be large enough to honor any of them.
	playerRegionSize = 1024 * 1024 * 1024
)

// ID identifies iRacing in stream file headers.
var ID = [4]byte{'i', 'r', 'a', 'c'}

// ErrFrameTooShort indicates a captured frame that ends before its declared
// contents.
var ErrFrameTooShort = errors.New("frame data too short")

// VarBuf locates one telemetry buffer within the mapping.
type VarBuf struct {
	TickCount int32 `struc:",little"`
	BufOffset int32 `struc:",little"`
	Pad       [2]int32
}

// VarHeader describes one variable in the telemetry buffers.
type VarHeader struct {
	Type        int32 `struc:",little"`
	Offset      int32 `struc:",little"`
	Count       int32 `struc:",little"`
	CountAsTime uint8
	Pad         [3]byte
	Name        [MaxString]byte
	Desc        [MaxDesc]byte
	Unit        [MaxString]byte
}

// Header is the fixed structure at the start of the mapping.
type Header struct {
	Ver      int32
	Status   int32
	TickRate int32

	SessionInfoUpdate int32
	SessionInfoLen    int32
	SessionInfoOffset int32

	NumVars         int32
	VarHeaderOffset int32

	NumBuf int32
	BufLen int32
	Pad1   [2]int32

	VarBuf [MaxBufs]VarBuf
}

// Connected reports whether the simulator has a live session.
func (h *Header) Connected() bool {
	return h.Status&statusConnected != 0
}

// LatestBufIndex returns the index of the buffer with the highest tick
// count. Ties resolve to the earliest buffer.
func (h *Header) LatestBufIndex() int {
	numBuf := int(h.NumBuf)
	if numBuf > MaxBufs {
		numBuf = MaxBufs
	}

	latest := 0
	for i := 1; i < numBuf; i++ {
		if h.VarBuf[i].TickCount > h.VarBuf[latest].TickCount {
			latest = i
		}
	}
	return latest
}

// packHeader writes h into buf, which must hold at least HeaderSize bytes.
func packHeader(buf []byte, h *Header) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(h.Ver))
	le.PutUint32(buf[4:], uint32(h.Status))
	le.PutUint32(buf[8:], uint32(h.TickRate))
	le.PutUint32(buf[12:], uint32(h.SessionInfoUpdate))
	le.PutUint32(buf[16:], uint32(h.SessionInfoLen))
	le.PutUint32(buf[20:], uint32(h.SessionInfoOffset))
	le.PutUint32(buf[24:], uint32(h.NumVars))
	le.PutUint32(buf[28:], uint32(h.VarHeaderOffset))
	le.PutUint32(buf[32:], uint32(h.NumBuf))
	le.PutUint32(buf[36:], uint32(h.BufLen))
	le.PutUint32(buf[40:], uint32(h.Pad1[0]))
	le.PutUint32(buf[44:], uint32(h.Pad1[1]))
	for i := range h.VarBuf {
		off := 48 + i*varBufSize
		le.PutUint32(buf[off:], uint32(h.VarBuf[i].TickCount))
		le.PutUint32(buf[off+4:], uint32(h.VarBuf[i].BufOffset))
		le.PutUint32(buf[off+8:], uint32(h.VarBuf[i].Pad[0]))
		le.PutUint32(buf[off+12:], uint32(h.VarBuf[i].Pad[1]))
	}
}

// unpackHeader reads a Header from buf, which must hold at least HeaderSize
// bytes.
func unpackHeader(buf []byte) Header {
	le := binary.LittleEndian
	var h Header
	h.Ver = int32(le.Uint32(buf[0:]))
	h.Status = int32(le.Uint32(buf[4:]))
	h.TickRate = int32(le.Uint32(buf[8:]))
	h.SessionInfoUpdate = int32(le.Uint32(buf[12:]))
	h.SessionInfoLen = int32(le.Uint32(buf[16:]))
	h.SessionInfoOffset = int32(le.Uint32(buf[20:]))
	h.NumVars = int32(le.Uint32(buf[24:]))
	h.VarHeaderOffset = int32(le.Uint32(buf[28:]))
	h.NumBuf = int32(le.Uint32(buf[32:]))
	h.BufLen = int32(le.Uint32(buf[36:]))
	h.Pad1[0] = int32(le.Uint32(buf[40:]))
	h.Pad1[1] = int32(le.Uint32(buf[44:]))
	for i := range h.VarBuf {
		off := 48 + i*varBufSize
		h.VarBuf[i].TickCount = int32(le.Uint32(buf[off:]))
		h.VarBuf[i].BufOffset = int32(le.Uint32(buf[off+4:]))
		h.VarBuf[i].Pad[0] = int32(le.Uint32(buf[off+8:]))
		h.VarBuf[i].Pad[1] = int32(le.Uint32(buf[off+12:]))
	}
	return h
}

// FrameData is one captured iRacing telemetry frame.
type FrameData struct {
	Header     Header
	VarHeaders []VarHeader

	// SessionInfo is the session YAML document, or "" when the session
	// info has not changed since the previous frame.
	SessionInfo string

	// RawData is the contents of the latest telemetry buffer.
	RawData []byte
}

// Serialize flattens the frame into the stream payload form.
func (f *FrameData) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(f.VarHeaders)*VarHeaderSize + 16 + len(f.SessionInfo) + len(f.RawData))

	var hdr [HeaderSize]byte
	packHeader(hdr[:], &f.Header)
	buf.Write(hdr[:])

	for i := range f.VarHeaders {
		if err := struc.Pack(&buf, &f.VarHeaders[i]); err != nil {
			return nil, errors.Wrapf(err, "packing var header %d", i)
		}
	}

	writeU64(&buf, uint64(len(f.SessionInfo)))
	buf.WriteString(f.SessionInfo)

	writeU64(&buf, uint64(len(f.RawData)))
	buf.Write(f.RawData)

	return buf.Bytes(), nil
}

// DeserializeFrame parses a frame previously produced by Serialize.
func DeserializeFrame(data []byte) (*FrameData, error) {
	r := &byteslicereader.R{Buffer: data}

	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, errors.Wrap(ErrFrameTooShort, "reading header")
	}

	var f FrameData
	f.Header = unpackHeader(hdr)
	if f.Header.NumVars < 0 {
		return nil, errors.Errorf("invalid variable count %d", f.Header.NumVars)
	}
	if int64(f.Header.NumVars)*VarHeaderSize > int64(r.Remaining()) {
		return nil, errors.Wrapf(ErrFrameTooShort, "%d var headers declared", f.Header.NumVars)
	}

	f.VarHeaders = make([]VarHeader, f.Header.NumVars)
	for i := range f.VarHeaders {
		if err := struc.Unpack(r, &f.VarHeaders[i]); err != nil {
			return nil, errors.Wrapf(err, "unpacking var header %d", i)
		}
	}

	sessionInfoLen, err := readU64(r)
	if err != nil {
		return nil, errors.Wrap(ErrFrameTooShort, "reading session info size")
	}
	if sessionInfoLen > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrFrameTooShort, "session info of %d bytes declared", sessionInfoLen)
	}
	if sessionInfoLen > 0 {
		info := make([]byte, sessionInfoLen)
		if _, err := io.ReadFull(r, info); err != nil {
			return nil, errors.Wrap(ErrFrameTooShort, "reading session info")
		}
		f.SessionInfo = string(info)
	}

	rawLen, err := readU64(r)
	if err != nil {
		return nil, errors.Wrap(ErrFrameTooShort, "reading telemetry size")
	}
	if rawLen > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrFrameTooShort, "telemetry of %d bytes declared", rawLen)
	}
	f.RawData = make([]byte, rawLen)
	if _, err := io.ReadFull(r, f.RawData); err != nil {
		return nil, errors.Wrap(ErrFrameTooShort, "reading telemetry")
	}

	return &f, nil
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
