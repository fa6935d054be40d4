// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

//go:build windows

package shm

import (
	"unsafe"

	"github.com/pkg/errors"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMappingW = kernel32.NewProc("OpenFileMappingW")
)

// System returns the Opener backed by the operating system's named file
// mappings and events.
func System() Opener { return systemOpener{} }

type systemOpener struct{}

func (systemOpener) OpenRead(name string, size int) (ReadRegion, error) {
	name16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "invalid region name %q", name)
	}

	// Open the existing file mapping; never create one.
	h, _, callErr := procOpenFileMappingW.Call(
		uintptr(windows.FILE_MAP_READ),
		0, // do not inherit
		uintptr(unsafe.Pointer(name16)),
	)
	if h == 0 {
		return nil, errors.Wrapf(ErrNotFound, "opening %q: %v", name, callErr)
	}
	handle := windows.Handle(h)

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ, 0, 0, 0)
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, errors.Wrapf(ErrMap, "mapping %q: %v", name, err)
	}

	return &systemRegion{
		handle: handle,
		addr:   addr,
		size:   size,
		data:   unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
	}, nil
}

func (systemOpener) CreateWrite(name string, size int) (WriteRegion, error) {
	name16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, errors.Wrapf(ErrCreate, "invalid region name %q", name)
	}

	handle, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		uint32(uint64(size)>>32),
		uint32(uint64(size)&0xFFFFFFFF),
		name16,
	)
	if err != nil {
		return nil, errors.Wrapf(ErrCreate, "creating %q: %v", name, err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, errors.Wrapf(ErrMap, "mapping %q: %v", name, err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	for i := range data {
		data[i] = 0
	}

	return &systemWriteRegion{systemRegion{
		handle: handle,
		addr:   addr,
		size:   size,
		data:   data,
	}}, nil
}

func (systemOpener) CreateEvent(name string) (Handle, error) {
	name16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, errors.Wrapf(ErrEventCreate, "invalid event name %q", name)
	}

	// Auto-reset, initially unsignaled.
	handle, err := windows.CreateEvent(nil, 0, 0, name16)
	if err != nil {
		return nil, errors.Wrapf(ErrEventCreate, "creating %q: %v", name, err)
	}

	return &systemEvent{handle: handle}, nil
}

type systemRegion struct {
	handle windows.Handle
	addr   uintptr
	size   int
	data   []byte
}

func (r *systemRegion) Bytes() []byte { return r.data }

func (r *systemRegion) Size() int { return r.size }

func (r *systemRegion) Close() error {
	if r.addr == 0 {
		return nil
	}

	unmapErr := windows.UnmapViewOfFile(r.addr)
	closeErr := windows.CloseHandle(r.handle)
	r.addr, r.data = 0, nil

	if unmapErr != nil {
		return errors.Wrap(unmapErr, "unmapping view")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "closing mapping handle")
	}
	return nil
}

type systemWriteRegion struct {
	systemRegion
}

func (w *systemWriteRegion) Write(off int, p []byte) {
	checkWriteBounds(off, len(p), w.size)
	copy(w.data[off:], p)
}

type systemEvent struct {
	handle windows.Handle
}

func (e *systemEvent) Close() error {
	if e.handle == 0 {
		return nil
	}

	err := windows.CloseHandle(e.handle)
	e.handle = 0
	return err
}
