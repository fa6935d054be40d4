// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recorderRecordingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksana_recorder_recording",
		Help: "Count of active capture loops.",
	})

	recorderFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_recorder_frames",
		Help: "Count of captured frames.",
	})

	recorderBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_recorder_bytes",
		Help: "Count of captured frame bytes, before compression.",
	})

	recorderNoData = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_recorder_no_data",
		Help: "Count of polls that found no new simulator data.",
	})

	recorderConnectAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_recorder_connect_attempts",
		Help: "Count of simulator connection attempts.",
	})

	recorderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ksana_recorder_errors",
		Help: "Count of capture loop errors encountered.",
	}, []string{"type"})

	playerPlayingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksana_player_playing",
		Help: "Count of active playback loops.",
	})

	playerFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_player_frames",
		Help: "Count of replayed frames.",
	})

	playerBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_player_bytes",
		Help: "Count of replayed frame bytes.",
	})

	playerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksana_player_error_count",
		Help: "Count of player errors encountered during playback.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		// Recorder
		recorderRecordingGauge,
		recorderFrames,
		recorderBytes,
		recorderNoData,
		recorderConnectAttempts,
		recorderErrors,

		// Player
		playerPlayingGauge,
		playerFrames,
		playerBytes,
		playerErrors,
	)
}
