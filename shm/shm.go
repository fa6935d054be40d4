// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package shm provides access to named shared-memory regions and named
// synchronization events.
//
// Simulators expose their telemetry through named OS memory mappings. A
// recording session opens read-only views of the simulator's regions; a
// playback session creates the regions itself and writes snapshots into
// them at the offsets the simulator's consumers expect.
//
// All resources are scoped: acquisition happens in the Opener call and
// release happens in Close, which is safe to call exactly once per resource
// and must run on every exit path. Regions are never concurrently written by
// two paths; a session holds either read views or exclusive write views.
package shm

import (
	"io"

	"github.com/pkg/errors"
)

// Failure classes. Implementations wrap these with call-site context; use
// errors.Cause to classify a failure.
var (
	// ErrNotFound is returned when a named region does not exist or is
	// inaccessible to this process.
	ErrNotFound = errors.New("shared memory region not found or inaccessible")

	// ErrCreate is returned when a named region could not be created.
	ErrCreate = errors.New("failed to create shared memory region")

	// ErrMap is returned when a region exists but its view could not be
	// mapped into this process.
	ErrMap = errors.New("failed to map view of shared memory region")

	// ErrEventCreate is returned when a named event could not be created.
	ErrEventCreate = errors.New("failed to create named event")
)

// ReadRegion is a read-only view of a named region owned by another process.
type ReadRegion interface {
	// Bytes exposes the mapping for structured interpretation. The returned
	// slice aliases the live mapping and is valid until Close.
	Bytes() []byte

	// Size returns the declared size of the region.
	Size() int

	io.Closer
}

// WriteRegion is an exclusively-owned, zero-initialized named region.
type WriteRegion interface {
	// Write copies p into the mapping at offset off. The caller guarantees
	// off >= 0 and off+len(p) <= Size(); a violation is a programming error
	// and panics.
	Write(off int, p []byte)

	// Size returns the declared size of the region.
	Size() int

	io.Closer
}

// Handle owns a named synchronization object. This package only manages its
// lifecycle; no wait or signal operations are exposed.
type Handle interface {
	io.Closer
}

// Opener mints named OS resources.
type Opener interface {
	// OpenRead opens an existing named region for read-only access. It never
	// creates one.
	OpenRead(name string, size int) (ReadRegion, error)

	// CreateWrite creates a named region sized exactly size, zero-initializes
	// it, and maps it for write access.
	CreateWrite(name string, size int) (WriteRegion, error)

	// CreateEvent creates a named auto-reset event.
	CreateEvent(name string) (Handle, error)
}

// checkWriteBounds panics when a write would fall outside the region.
func checkWriteBounds(off, n, size int) {
	if off < 0 || off+n > size {
		panic(errors.Errorf("shm: write of %d bytes at offset %d exceeds region size %d", n, off, size))
	}
}
