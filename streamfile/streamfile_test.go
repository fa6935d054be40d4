// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package streamfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestStreamfile(t *testing.T) {
	t.Parallel()

	RegisterFailHandler(Fail)
	RunSpecs(t, "streamfile")
}

var _ = Describe("Saver", func() {
	It("writes a 72-byte header for an empty stream", func() {
		var buf bytes.Buffer
		s, err := NewSaver(&buf, 5, [4]byte{'i', 'r', 'a', 'c'})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Flush()).To(Succeed())

		Expect(buf.Len()).To(Equal(HeaderSize))
		Expect(buf.Bytes()[:8]).To(Equal([]byte("RECROCKS")))
		Expect(int32(binary.LittleEndian.Uint32(buf.Bytes()[8:12]))).To(Equal(CurrentVersion))
		Expect(int32(binary.LittleEndian.Uint32(buf.Bytes()[12:16]))).To(Equal(int32(5)))
		Expect(buf.Bytes()[16:20]).To(Equal([]byte("irac")))
	})

	It("buffers frames until flushed", func() {
		var buf bytes.Buffer
		s, err := NewSaver(&buf, 5, [4]byte{'i', 'r', 'a', 'c'})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Save([]byte("frame"))).To(Succeed())

		before := buf.Len()
		Expect(s.Flush()).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", before))
	})
})

var _ = Describe("Loader", func() {
	save := func(fps int32, id [4]byte, frames ...[]byte) []byte {
		var buf bytes.Buffer
		s, err := NewSaver(&buf, fps, id)
		Expect(err).ToNot(HaveOccurred())
		for _, f := range frames {
			Expect(s.Save(f)).To(Succeed())
		}
		Expect(s.Flush()).To(Succeed())
		return buf.Bytes()
	}

	It("rejects a stream with the wrong magic", func() {
		_, err := NewLoader(bytes.NewReader([]byte("BADMAGIC")))
		Expect(errors.Cause(err)).To(Equal(ErrInvalidMagic))
	})

	It("rejects a stream from a newer format revision", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'})
		binary.LittleEndian.PutUint32(data[8:12], uint32(CurrentVersion+1))

		_, err := NewLoader(bytes.NewReader(data))
		var vErr *UnsupportedVersionError
		Expect(errors.As(err, &vErr)).To(BeTrue())
		Expect(vErr.Version).To(Equal(CurrentVersion + 1))
	})

	It("loads frames back in order with header fields intact", func() {
		frames := [][]byte{
			{1, 2, 3, 4},
			{5, 6, 7, 8, 9, 10},
			make([]byte, 1000),
		}
		data := save(60, [4]byte{'a', 'c', 's', 'a'}, frames...)

		l, err := NewLoader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Version()).To(Equal(CurrentVersion))
		Expect(l.FPS()).To(Equal(int32(60)))
		Expect(l.ID()).To(Equal([4]byte{'a', 'c', 's', 'a'}))

		for _, want := range frames {
			got, err := l.Load()
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(want))
		}

		got, err := l.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(BeNil())
	})

	It("keeps reporting end of stream after the last frame", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'}, []byte("only"))

		l, err := NewLoader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())

		_, err = l.Load()
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 3; i++ {
			got, err := l.Load()
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(BeNil())
		}
	})

	It("loads an empty frame", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'}, []byte{})

		l, err := NewLoader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())

		got, err := l.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(got).ToNot(BeNil())
		Expect(got).To(BeEmpty())
	})

	It("skips frame header bytes beyond the known fields", func() {
		payload := []byte("padded frame")
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		_, err := zw.Write(payload)
		Expect(err).ToNot(HaveOccurred())
		Expect(zw.Close()).To(Succeed())

		var buf bytes.Buffer
		s, err := NewSaver(&buf, 5, [4]byte{'i', 'r', 'a', 'c'})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Flush()).To(Succeed())

		// Hand-roll a frame with an oversized 20-byte header.
		var field [4]byte
		binary.LittleEndian.PutUint32(field[:], 20)
		buf.Write(field[:])
		binary.LittleEndian.PutUint32(field[:], uint32(compressed.Len()))
		buf.Write(field[:])
		binary.LittleEndian.PutUint32(field[:], uint32(len(payload)))
		buf.Write(field[:])
		buf.Write(bytes.Repeat([]byte{0xFF}, 8))
		buf.Write(compressed.Bytes())

		l, err := NewLoader(bytes.NewReader(buf.Bytes()))
		Expect(err).ToNot(HaveOccurred())

		got, err := l.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(payload))
	})

	It("rejects a frame header smaller than the minimum", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'}, []byte("frame"))
		binary.LittleEndian.PutUint32(data[HeaderSize:HeaderSize+4], 8)

		l, err := NewLoader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())

		_, err = l.Load()
		var hErr *InvalidHeaderSizeError
		Expect(errors.As(err, &hErr)).To(BeTrue())
		Expect(hErr.Size).To(Equal(int32(8)))
	})

	It("fails on a frame payload that does not decompress", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'}, []byte("frame"))
		// Corrupt the zlib stream.
		data[HeaderSize+12] ^= 0xFF

		l, err := NewLoader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())

		_, err = l.Load()
		Expect(errors.Cause(err)).To(Equal(ErrDecompression))
	})

	It("fails on a stream truncated inside a frame", func() {
		data := save(5, [4]byte{'i', 'r', 'a', 'c'}, []byte("a reasonably sized frame"))
		truncated := data[:len(data)-4]

		l, err := NewLoader(bytes.NewReader(truncated))
		Expect(err).ToNot(HaveOccurred())

		_, err = l.Load()
		Expect(err).To(HaveOccurred())
	})
})
