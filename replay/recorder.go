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

// StopReason explains why a capture or playback loop ended normally.
type StopReason int

const (
	// SimDisconnected means the simulator stopped producing data.
	SimDisconnected StopReason = iota

	// Cancelled means the loop's Context was cancelled.
	Cancelled

	// EndOfStream means playback consumed the whole stream.
	EndOfStream
)

func (r StopReason) String() string {
	switch r {
	case SimDisconnected:
		return "simulator disconnected"
	case Cancelled:
		return "cancelled"
	case EndOfStream:
		return "end of stream"
	default:
		return "unknown"
	}
}

// FrameSink receives captured frames. *streamfile.Saver implements
// FrameSink.
type FrameSink interface {
	Save(data []byte) error
}

// A Recorder captures telemetry frames from a simulator at a fixed rate.
//
// A Recorder's exported fields must not be changed once a loop has begun.
type Recorder struct {
	// FPS is the capture rate. It must be positive.
	FPS int32

	// RetryInterval is the pause between connection sweeps in
	// WaitForConnection. If zero, a one second interval is used.
	RetryInterval time.Duration

	// NoDataLimit is the number of consecutive empty polls after which the
	// simulator is considered gone. If zero, 20 is used.
	NoDataLimit int

	// Sleeper paces the capture loop. If nil, an adaptive sleeper is used.
	Sleeper sleeper.S

	// Logger is the logger instance to use. If nil, no logging will be
	// performed.
	Logger logging.L
}

func (r *Recorder) retryInterval() time.Duration {
	if r.RetryInterval > 0 {
		return r.RetryInterval
	}
	return time.Second
}

func (r *Recorder) noDataLimit() int {
	if r.NoDataLimit > 0 {
		return r.NoDataLimit
	}
	return 20
}

func (r *Recorder) sleeper() sleeper.S {
	if r.Sleeper != nil {
		return r.Sleeper
	}
	return sleeper.Adaptive{}
}

// WaitForConnection sweeps connectors in order until one connects.
//
// Connectors earlier in the slice take priority: a sweep tries each in turn
// and the first to connect wins. WaitForConnection blocks until a connector
// attaches or c is cancelled.
func (r *Recorder) WaitForConnection(c context.Context, connectors []sim.Connector) (sim.Connector, error) {
	logger := logging.Must(r.Logger)
	slp := r.sleeper()

	for {
		for _, conn := range connectors {
			recorderConnectAttempts.Inc()
			if err := conn.Connect(); err == nil {
				logger.Infof("Connected to %s.", conn.Name())
				return conn, nil
			}
		}

		select {
		case <-c.Done():
			return nil, c.Err()
		default:
		}
		slp.Sleep(r.retryInterval())
	}
}

// Record captures frames from conn into sink until the simulator goes away
// or c is cancelled.
//
// Record owns conn's attachment and disconnects it on all return paths. A
// simulator that merely stops producing data is a normal stop, not an
// error.
func (r *Recorder) Record(c context.Context, conn sim.Connector, sink FrameSink) (StopReason, error) {
	if r.FPS <= 0 {
		return 0, errors.Errorf("invalid capture rate %d", r.FPS)
	}
	defer conn.Disconnect()

	logger := logging.Must(r.Logger)
	slp := r.sleeper()

	tick := time.Second / time.Duration(r.FPS)
	noDataCount := 0

	recorderRecordingGauge.Inc()
	defer recorderRecordingGauge.Dec()

	for {
		select {
		case <-c.Done():
			logger.Infof("Recording cancelled.")
			return Cancelled, nil
		default:
		}

		start := time.Now()

		data, err := conn.GetData()
		switch {
		case err != nil:
			recorderErrors.WithLabelValues("capture").Inc()
			return 0, errors.Wrap(err, "capturing frame")

		case data == nil:
			recorderNoData.Inc()
			noDataCount++
			if noDataCount > r.noDataLimit() {
				logger.Infof("Simulator %s stopped producing data.", conn.Name())
				return SimDisconnected, nil
			}

		default:
			noDataCount = 0
			if err := sink.Save(data); err != nil {
				recorderErrors.WithLabelValues("save").Inc()
				return 0, errors.Wrap(err, "saving frame")
			}
			recorderFrames.Inc()
			recorderBytes.Add(float64(len(data)))
		}

		if elapsed := time.Since(start); elapsed < tick {
			slp.Sleep(tick - elapsed)
		}
	}
}
