// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package streamfile defines the container format used to record and replay
// captured telemetry frame streams.
//
// A stream file begins with a fixed 72-byte file header:
//
//	- An 8-byte magic, "RECROCKS".
//	- The format version, a little-endian int32. Currently 1.
//	- The capture rate in frames per second, a little-endian int32.
//	- A 4-byte simulator identifier.
//	- 52 reserved bytes.
//
// The header is followed by zero or more frames. Each frame carries its own
// header:
//
//	- The frame header length, a little-endian int32. Always at least 12.
//	- The compressed payload length, a little-endian uint32.
//	- The decompressed payload length, a little-endian uint32.
//	- Any remaining frame header bytes, reserved for future revisions.
//
// Frame payloads are compressed independently with zlib, so a stream can be
// read strictly sequentially without an index. Readers skip frame header
// bytes beyond the 12 they understand, which lets older readers consume files
// whose frame headers have grown.
package streamfile
