// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package sim defines the interfaces a simulator integration implements and
// dispatches to the supported simulators.
//
// A Connector attaches to a running simulator's shared memory and reads
// telemetry frames from it. A Player does the reverse: it creates the same
// shared memory regions and writes previously captured frames into them, so
// consumers cannot tell a replay from a live session.
package sim

import (
	"github.com/race-engineering-center/ksana/shm"
	"github.com/race-engineering-center/ksana/sim/assettocorsa"
	"github.com/race-engineering-center/ksana/sim/iracing"

	"github.com/pkg/errors"
)

// ErrUnknownSim indicates a simulator identifier that no integration
// recognizes.
var ErrUnknownSim = errors.New("unknown simulator id")

// Connector reads telemetry frames from a running simulator.
type Connector interface {
	// ID returns the 4-byte identifier recorded in stream file headers.
	ID() [4]byte

	// Name returns the simulator's human-readable name.
	Name() string

	// Connect attaches to the simulator's shared memory. It fails when the
	// simulator is not running or is not producing live data.
	Connect() error

	// GetData returns the next telemetry frame, or nil when the simulator
	// has no new data since the previous call.
	GetData() ([]byte, error)

	// Disconnect releases the shared memory attachment. It is a no-op when
	// not connected.
	Disconnect()
}

// Player writes captured telemetry frames into simulator shared memory.
type Player interface {
	// ID returns the 4-byte identifier of the simulated simulator.
	ID() [4]byte

	// Name returns the simulator's human-readable name.
	Name() string

	// Initialize creates the simulator's shared memory regions.
	Initialize() error

	// Update writes one captured frame into the shared memory regions.
	Update(frame []byte) error

	// Stop marks the shared memory as disconnected and releases it. Stop
	// may be called more than once.
	Stop()
}

// Connectors returns a Connector for every supported simulator, in
// connection priority order.
func Connectors(o shm.Opener) []Connector {
	return []Connector{
		iracing.NewConnector(o),
		assettocorsa.NewConnector(o),
	}
}

// NewPlayer returns a Player for the simulator identified by id.
//
// NewPlayer fails with ErrUnknownSim when no integration claims id.
func NewPlayer(id [4]byte, o shm.Opener) (Player, error) {
	switch id {
	case iracing.ID:
		return iracing.NewPlayer(o), nil
	case assettocorsa.ID:
		return assettocorsa.NewPlayer(o), nil
	default:
		return nil, errors.Wrapf(ErrUnknownSim, "%q", id[:])
	}
}
