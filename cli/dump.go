// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/race-engineering-center/ksana/replay"
	"github.com/race-engineering-center/ksana/shm"
	"github.com/race-engineering-center/ksana/sim"
	"github.com/race-engineering-center/ksana/streamfile"
	"github.com/race-engineering-center/ksana/support/fmtutil"
	"github.com/race-engineering-center/ksana/support/logging"

	"github.com/pkg/errors"
)

func runDump(c context.Context, logger logging.L, cfg *Config, fps int32) error {
	logger.Infof("Capturing at %d frames per second.", fps)

	opener := shm.System()
	rec := replay.Recorder{
		FPS:           fps,
		RetryInterval: cfg.RetryInterval(),
		NoDataLimit:   cfg.NoDataLimit,
		Logger:        logger,
	}

	logger.Infof("Waiting for a simulator...")
	conn, err := rec.WaitForConnection(c, sim.Connectors(opener))
	if err != nil {
		// Interrupted before any simulator appeared.
		return nil
	}

	path := filepath.Join(cfg.OutputDir, recordingFilename(conn.ID(), time.Now()))
	fd, err := os.Create(path)
	if err != nil {
		conn.Disconnect()
		return errors.Wrap(err, "creating recording file")
	}
	defer fd.Close()

	saver, err := streamfile.NewSaver(fd, fps, conn.ID())
	if err != nil {
		conn.Disconnect()
		return errors.Wrap(err, "writing stream header")
	}

	logger.Infof("Recording to %s.", path)
	reason, err := rec.Record(c, conn, saver)
	if err != nil {
		return err
	}
	if err := saver.Flush(); err != nil {
		return errors.Wrap(err, "flushing recording")
	}

	logger.Infof("Recording stopped: %s.", reason)
	return nil
}

func recordingFilename(id [4]byte, now time.Time) string {
	return "ksana_" + fmtutil.SimID(id).String() + "_" + now.Format("20060102_15_04_05") + ".bin"
}
