// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

//go:build !windows

package shm

import (
	"github.com/pkg/errors"
)

// System returns the Opener backed by the operating system's named file
// mappings and events.
//
// The simulators this project integrates with publish their telemetry
// through Windows named file mappings; on other platforms every operation
// fails.
func System() Opener { return unsupportedOpener{} }

type unsupportedOpener struct{}

func (unsupportedOpener) OpenRead(name string, size int) (ReadRegion, error) {
	return nil, errors.Wrapf(ErrNotFound, "opening %q: named shared memory requires windows", name)
}

func (unsupportedOpener) CreateWrite(name string, size int) (WriteRegion, error) {
	return nil, errors.Wrapf(ErrCreate, "creating %q: named shared memory requires windows", name)
}

func (unsupportedOpener) CreateEvent(name string) (Handle, error) {
	return nil, errors.Wrapf(ErrEventCreate, "creating %q: named events require windows", name)
}
