// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package streamfile

import (
	"bufio"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// Saver writes a telemetry frame stream to an underlying Writer.
//
// Saver buffers its output. Callers must Flush when done, or frames may be
// lost.
type Saver struct {
	w *bufio.Writer

	// scratch holds the compressed form of the frame being saved. It is
	// reused across Save calls.
	scratch []byte
}

// NewSaver creates a Saver and writes the stream file header.
//
// fps is the capture rate recorded in the header, and id identifies the
// simulator the frames were captured from.
func NewSaver(w io.Writer, fps int32, id [4]byte) (*Saver, error) {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return nil, errors.Wrap(err, "writing magic")
	}
	if err := writeI32(bw, CurrentVersion); err != nil {
		return nil, errors.Wrap(err, "writing version")
	}
	if err := writeI32(bw, fps); err != nil {
		return nil, errors.Wrap(err, "writing fps")
	}
	if _, err := bw.Write(id[:]); err != nil {
		return nil, errors.Wrap(err, "writing simulator id")
	}
	var padding [headerPaddingSize]byte
	if _, err := bw.Write(padding[:]); err != nil {
		return nil, errors.Wrap(err, "writing header padding")
	}

	return &Saver{w: bw}, nil
}

// Save compresses data and appends it to the stream as a single frame.
func (s *Saver) Save(data []byte) error {
	s.scratch = s.scratch[:0]
	zw := zlib.NewWriter(scratchWriter{s})
	if _, err := zw.Write(data); err != nil {
		return errors.Wrap(err, "compressing frame")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "finishing frame compression")
	}

	if err := writeI32(s.w, frameHeaderSize); err != nil {
		return errors.Wrap(err, "writing frame header size")
	}
	if err := writeU32(s.w, uint32(len(s.scratch))); err != nil {
		return errors.Wrap(err, "writing compressed size")
	}
	if err := writeU32(s.w, uint32(len(data))); err != nil {
		return errors.Wrap(err, "writing raw size")
	}
	if _, err := s.w.Write(s.scratch); err != nil {
		return errors.Wrap(err, "writing frame payload")
	}
	return nil
}

// Flush writes any buffered stream data to the underlying Writer.
func (s *Saver) Flush() error {
	return s.w.Flush()
}

// scratchWriter accumulates compressed bytes into its Saver's scratch
// buffer.
type scratchWriter struct {
	s *Saver
}

func (w scratchWriter) Write(p []byte) (int, error) {
	w.s.scratch = append(w.s.scratch, p...)
	return len(p), nil
}
