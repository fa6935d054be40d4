// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package cli

import (
	"context"
	"os"

	"github.com/race-engineering-center/ksana/replay"
	"github.com/race-engineering-center/ksana/shm"
	"github.com/race-engineering-center/ksana/sim"
	"github.com/race-engineering-center/ksana/streamfile"
	"github.com/race-engineering-center/ksana/support/fmtutil"
	"github.com/race-engineering-center/ksana/support/logging"

	"github.com/pkg/errors"
)

func runPlay(c context.Context, logger logging.L, input string) error {
	fd, err := os.Open(input)
	if err != nil {
		return errors.Wrap(err, "opening stream file")
	}
	defer fd.Close()

	loader, err := streamfile.NewLoader(fd)
	if err != nil {
		return errors.Wrap(err, "reading stream header")
	}

	id := loader.ID()
	logger.Infof("Playing %s (sim: %s, fps: %d).", input, fmtutil.SimID(id), loader.FPS())

	// The player is selected by the stream's simulator id before any
	// shared memory is created, so an unrecognized stream changes nothing
	// on the system.
	dst, err := sim.NewPlayer(id, shm.System())
	if err != nil {
		return err
	}
	if err := dst.Initialize(); err != nil {
		return errors.Wrapf(err, "initializing %s playback", dst.Name())
	}
	defer dst.Stop()

	player := replay.Player{
		FPS:    loader.FPS(),
		Logger: logger,
	}
	reason, err := player.Play(c, loader, dst)
	if err != nil {
		return err
	}

	logger.Infof("Playback stopped: %s.", reason)
	return nil
}
