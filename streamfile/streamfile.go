// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package streamfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/race-engineering-center/ksana/support/dataio"

	"github.com/pkg/errors"
)

const (
	// HeaderSize is the size of the fixed file header, in bytes.
	HeaderSize = 72

	// CurrentVersion is the stream format version written by Saver.
	CurrentVersion int32 = 1

	// frameHeaderSize is the size of the frame header fields that this
	// package understands. Frame headers may be larger; the excess is
	// skipped on read.
	frameHeaderSize int32 = 12

	// headerPaddingSize is the number of reserved bytes at the end of the
	// file header.
	headerPaddingSize = 52
)

// magic is the file identification sequence at the start of every stream.
var magic = [8]byte{'R', 'E', 'C', 'R', 'O', 'C', 'K', 'S'}

var (
	// ErrInvalidMagic indicates that a stream does not start with the
	// expected magic sequence.
	ErrInvalidMagic = errors.New("invalid stream magic")

	// ErrDecompression indicates that a frame payload could not be
	// decompressed.
	ErrDecompression = errors.New("frame decompression failed")
)

// UnsupportedVersionError is returned when a stream declares a format
// version newer than CurrentVersion.
type UnsupportedVersionError struct {
	Version int32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported stream version %d (current is %d)", e.Version, CurrentVersion)
}

// InvalidHeaderSizeError is returned when a frame declares a header smaller
// than the fields every revision of the format carries.
type InvalidHeaderSizeError struct {
	Size int32
}

func (e *InvalidHeaderSizeError) Error() string {
	return fmt.Sprintf("invalid frame header size %d (minimum is %d)", e.Size, frameHeaderSize)
}

func readI32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeI32(w dataio.Writer, v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func writeU32(w dataio.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
