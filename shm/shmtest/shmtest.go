// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package shmtest provides an in-memory shm.Opener for tests.
//
// Regions created through CreateWrite become visible to OpenRead under the
// same name and disappear when the owning write region is closed, matching
// the lifetime behavior of OS named mappings with a single owner. Read views
// alias the owner's backing buffer, so writes are observed immediately.
package shmtest

import (
	"sync"

	"github.com/race-engineering-center/ksana/shm"

	"github.com/pkg/errors"
)

// Opener is an in-memory shm.Opener backed by a process-local name registry.
//
// Opener is safe for concurrent use.
type Opener struct {
	mu      sync.Mutex
	regions map[string][]byte
	events  map[string]struct{}
}

var _ shm.Opener = (*Opener)(nil)

// NewOpener returns an empty Opener.
func NewOpener() *Opener {
	return &Opener{
		regions: make(map[string][]byte),
		events:  make(map[string]struct{}),
	}
}

// OpenRead implements shm.Opener.
func (o *Opener) OpenRead(name string, size int) (shm.ReadRegion, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, ok := o.regions[name]
	if !ok {
		return nil, errors.Wrapf(shm.ErrNotFound, "opening %q", name)
	}
	return &readRegion{data: data}, nil
}

// CreateWrite implements shm.Opener.
func (o *Opener) CreateWrite(name string, size int) (shm.WriteRegion, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data := make([]byte, size)
	o.regions[name] = data
	return &writeRegion{opener: o, name: name, data: data}, nil
}

// CreateEvent implements shm.Opener.
func (o *Opener) CreateEvent(name string) (shm.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.events[name] = struct{}{}
	return &event{opener: o, name: name}, nil
}

// HasRegion reports whether a region is currently registered under name.
func (o *Opener) HasRegion(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.regions[name]
	return ok
}

// HasEvent reports whether an event is currently registered under name.
func (o *Opener) HasEvent(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.events[name]
	return ok
}

func (o *Opener) dropRegion(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.regions, name)
}

func (o *Opener) dropEvent(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.events, name)
}

type readRegion struct {
	data []byte
}

func (r *readRegion) Bytes() []byte { return r.data }
func (r *readRegion) Size() int     { return len(r.data) }
func (r *readRegion) Close() error  { return nil }

type writeRegion struct {
	opener *Opener
	name   string
	data   []byte
	closed bool
}

func (w *writeRegion) Write(off int, p []byte) {
	if off < 0 || off+len(p) > len(w.data) {
		panic(errors.Errorf("shmtest: write of %d bytes at offset %d exceeds region size %d",
			len(p), off, len(w.data)))
	}
	copy(w.data[off:], p)
}

func (w *writeRegion) Size() int { return len(w.data) }

func (w *writeRegion) Close() error {
	if !w.closed {
		w.opener.dropRegion(w.name)
		w.closed = true
	}
	return nil
}

type event struct {
	opener *Opener
	name   string
	closed bool
}

func (e *event) Close() error {
	if !e.closed {
		e.opener.dropEvent(e.name)
		e.closed = true
	}
	return nil
}
