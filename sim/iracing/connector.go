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

// Connector reads telemetry frames from a running iRacing instance.
//
// Connector is not safe for concurrent use.
type Connector struct {
	opener shm.Opener
	region shm.ReadRegion

	lastSessionInfoUpdate int32
	lastTickCount         int32
}

// NewConnector creates a Connector that attaches through o.
func NewConnector(o shm.Opener) *Connector {
	return &Connector{opener: o}
}

// ID returns the iRacing stream identifier.
func (c *Connector) ID() [4]byte { return ID }

// Name returns the simulator's name.
func (c *Connector) Name() string { return "iRacing" }

// Connect attaches to the telemetry mapping.
//
// Connect fails when the mapping does not exist or when the simulator is
// attached but has no live session.
func (c *Connector) Connect() error {
	region, err := c.opener.OpenRead(MemMapFileName, connectorRegionSize)
	if err != nil {
		return errors.Wrap(err, "opening telemetry mapping")
	}

	header := unpackHeader(region.Bytes())
	if !header.Connected() {
		_ = region.Close()
		return errors.New("simulator is not in a session")
	}

	c.region = region
	c.lastSessionInfoUpdate = 0
	c.lastTickCount = 0
	return nil
}

// Disconnect releases the telemetry mapping.
func (c *Connector) Disconnect() {
	if c.region != nil {
		_ = c.region.Close()
		c.region = nil
	}
	c.lastSessionInfoUpdate = 0
	c.lastTickCount = 0
}

// GetData reads the next telemetry frame.
//
// GetData returns nil when the simulator has left the session or has not
// produced a new tick since the previous call.
func (c *Connector) GetData() ([]byte, error) {
	if c.region == nil {
		return nil, errors.New("not connected")
	}
	mem := c.region.Bytes()

	header := unpackHeader(mem)
	if !header.Connected() {
		return nil, nil
	}

	latest := header.LatestBufIndex()
	tick := header.VarBuf[latest].TickCount
	if tick == c.lastTickCount {
		return nil, nil
	}
	c.lastTickCount = tick

	varHeaders, err := c.readVarHeaders(mem, &header)
	if err != nil {
		return nil, err
	}

	// Session info is sent only when the simulator has revised it.
	var sessionInfo string
	if header.SessionInfoUpdate != c.lastSessionInfoUpdate {
		c.lastSessionInfoUpdate = header.SessionInfoUpdate
		if sessionInfo, err = readSessionInfo(mem, &header); err != nil {
			return nil, err
		}
	}

	rawData, err := readLatestBuf(mem, &header, latest)
	if err != nil {
		return nil, err
	}

	frame := FrameData{
		Header:      header,
		VarHeaders:  varHeaders,
		SessionInfo: sessionInfo,
		RawData:     rawData,
	}
	return frame.Serialize()
}

func (c *Connector) readVarHeaders(mem []byte, header *Header) ([]VarHeader, error) {
	start := int64(header.VarHeaderOffset)
	end := start + int64(header.NumVars)*VarHeaderSize
	if start < 0 || end > int64(len(mem)) {
		return nil, errors.Errorf("var headers [%d, %d) exceed mapping of %d bytes", start, end, len(mem))
	}

	varHeaders := make([]VarHeader, header.NumVars)
	for i := range varHeaders {
		if err := unpackVarHeader(mem[start+int64(i)*VarHeaderSize:], &varHeaders[i]); err != nil {
			return nil, errors.Wrapf(err, "reading var header %d", i)
		}
	}
	return varHeaders, nil
}

func unpackVarHeader(buf []byte, vh *VarHeader) error {
	return struc.Unpack(bytes.NewReader(buf[:VarHeaderSize]), vh)
}

func readSessionInfo(mem []byte, header *Header) (string, error) {
	start := int64(header.SessionInfoOffset)
	end := start + int64(header.SessionInfoLen)
	if start < 0 || end > int64(len(mem)) {
		return "", errors.Errorf("session info [%d, %d) exceeds mapping of %d bytes", start, end, len(mem))
	}

	info := mem[start:end]
	if i := bytes.IndexByte(info, 0); i >= 0 {
		info = info[:i]
	}
	return string(info), nil
}

func readLatestBuf(mem []byte, header *Header, latest int) ([]byte, error) {
	start := int64(header.VarBuf[latest].BufOffset)
	end := start + int64(header.BufLen)
	if start < 0 || end > int64(len(mem)) {
		return nil, errors.Errorf("telemetry buffer [%d, %d) exceeds mapping of %d bytes", start, end, len(mem))
	}

	raw := make([]byte, header.BufLen)
	copy(raw, mem[start:end])
	return raw, nil
}
