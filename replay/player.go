// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"context"
	"time"

	"github.com/race-engineering-center/ksana/sim"
	"github.com/race-engineering-center/ksana/support/logging"
	"github.com/race-engineering-center/ksana/support/sleeper"

	"github.com/pkg/errors"
)

// FrameSource produces the frames of a recorded stream in order. A nil
// frame with a nil error marks the end of the stream. *streamfile.Loader
// implements FrameSource.
type FrameSource interface {
	Load() ([]byte, error)
}

// A Player replays a recorded stream into simulator shared memory at its
// original capture rate.
//
// A Player's exported fields must not be changed once playback has begun.
type Player struct {
	// FPS is the playback rate, normally the rate recorded in the stream
	// header. It must be positive.
	FPS int32

	// Sleeper paces the playback loop. If nil, an adaptive sleeper is
	// used.
	Sleeper sleeper.S

	// Logger is the logger instance to use. If nil, no logging will be
	// performed.
	Logger logging.L
}

func (p *Player) sleeper() sleeper.S {
	if p.Sleeper != nil {
		return p.Sleeper
	}
	return sleeper.Adaptive{}
}

// Play feeds frames from src into dst until the stream ends or c is
// cancelled.
//
// The caller retains ownership of dst and must call its Stop method when
// playback is over, whatever the outcome.
func (p *Player) Play(c context.Context, src FrameSource, dst sim.Player) (StopReason, error) {
	if p.FPS <= 0 {
		return 0, errors.Errorf("invalid playback rate %d", p.FPS)
	}

	logger := logging.Must(p.Logger)
	slp := p.sleeper()

	tick := time.Second / time.Duration(p.FPS)

	playerPlayingGauge.Inc()
	defer playerPlayingGauge.Dec()

	for {
		select {
		case <-c.Done():
			logger.Infof("Playback cancelled.")
			return Cancelled, nil
		default:
		}

		start := time.Now()

		frame, err := src.Load()
		if err != nil {
			playerErrors.Inc()
			return 0, errors.Wrap(err, "loading frame")
		}
		if frame == nil {
			logger.Infof("Reached the end of the stream.")
			return EndOfStream, nil
		}

		if err := dst.Update(frame); err != nil {
			playerErrors.Inc()
			return 0, errors.Wrap(err, "updating simulator memory")
		}
		playerFrames.Inc()
		playerBytes.Add(float64(len(frame)))

		if elapsed := time.Since(start); elapsed < tick {
			slp.Sleep(tick - elapsed)
		}
	}
}
