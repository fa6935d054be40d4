// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package streamfile

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/race-engineering-center/ksana/support/dataio"

	"github.com/pkg/errors"
)

// Loader reads a telemetry frame stream from an underlying Reader.
//
// Frames are loaded strictly in sequence. Once the end of the stream has
// been reached, subsequent Load calls keep reporting the end of the stream.
type Loader struct {
	r dataio.Reader

	version int32
	fps     int32
	id      [4]byte

	eof bool
}

// NewLoader reads and validates the stream file header from r.
//
// NewLoader fails with ErrInvalidMagic if r does not contain a frame stream,
// and with UnsupportedVersionError if the stream was written by a newer
// format revision.
func NewLoader(r io.Reader) (*Loader, error) {
	dr := dataio.MakeReader(r)

	var m [8]byte
	if _, err := io.ReadFull(dr, m[:]); err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if m != magic {
		return nil, ErrInvalidMagic
	}

	l := Loader{r: dr}
	var err error
	if l.version, err = readI32(dr); err != nil {
		return nil, errors.Wrap(err, "reading version")
	}
	if l.version > CurrentVersion {
		return nil, &UnsupportedVersionError{Version: l.version}
	}
	if l.fps, err = readI32(dr); err != nil {
		return nil, errors.Wrap(err, "reading fps")
	}
	if _, err := io.ReadFull(dr, l.id[:]); err != nil {
		return nil, errors.Wrap(err, "reading simulator id")
	}
	if _, err := io.CopyN(io.Discard, dr, headerPaddingSize); err != nil {
		return nil, errors.Wrap(err, "reading header padding")
	}
	return &l, nil
}

// Version returns the stream's format version.
func (l *Loader) Version() int32 { return l.version }

// FPS returns the capture rate recorded in the stream header.
func (l *Loader) FPS() int32 { return l.fps }

// ID returns the simulator identifier recorded in the stream header.
func (l *Loader) ID() [4]byte { return l.id }

// Load reads and decompresses the next frame.
//
// At the end of the stream, Load returns (nil, nil). A stream ends cleanly
// only on a frame boundary; a stream that stops partway through a frame is
// an error.
func (l *Loader) Load() ([]byte, error) {
	if l.eof {
		return nil, nil
	}

	headerLen, err := readI32(l.r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			l.eof = true
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading frame header size")
	}
	if headerLen < frameHeaderSize {
		return nil, &InvalidHeaderSizeError{Size: headerLen}
	}

	compressedLen, err := readU32(l.r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			l.eof = true
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading compressed size")
	}

	rawLen, err := readU32(l.r)
	if err != nil {
		return nil, errors.Wrap(err, "reading raw size")
	}

	// Skip frame header bytes added by newer format revisions.
	for i := frameHeaderSize; i < headerLen; i++ {
		if _, err := l.r.ReadByte(); err != nil {
			return nil, errors.Wrap(err, "skipping frame header bytes")
		}
	}

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(l.r, compressed); err != nil {
		return nil, errors.Wrap(err, "reading frame payload")
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrapf(ErrDecompression, "opening frame payload: %s", err)
	}
	defer zr.Close()

	data := make([]byte, 0, rawLen)
	buf := bytes.NewBuffer(data)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, errors.Wrapf(ErrDecompression, "decompressing frame payload: %s", err)
	}
	return buf.Bytes(), nil
}
