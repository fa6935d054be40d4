// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains formatting helpers.
package fmtutil

import (
	"encoding/hex"
	"fmt"
)

// Hex is a byte slice that renders as a hex-dumped string.
//
// It can be used for easy lazy hex dumping in debug logs: the dump is only
// produced if the value is actually formatted.
type Hex []byte

func (h Hex) String() string { return hex.Dump([]byte(h)) }

// SimID is a 4-byte source identifier that renders as printable text, falling
// back to a hex form when the identifier contains non-printable bytes.
type SimID [4]byte

func (id SimID) String() string {
	for _, b := range id {
		if b < 0x20 || b > 0x7E {
			return fmt.Sprintf("0x%02X%02X%02X%02X", id[0], id[1], id[2], id[3])
		}
	}
	return string(id[:])
}
