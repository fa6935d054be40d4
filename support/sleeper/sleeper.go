// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package sleeper provides tick-interval sleeping strategies.
//
// Recording and playback both run on a fixed tick whose stability directly
// affects the fidelity of the captured or replayed session. The OS timer
// alone can overshoot by more than a millisecond under load, so the default
// strategy trades a short busy-wait for sub-millisecond accuracy.
package sleeper

import (
	"time"
)

// S sleeps for a requested duration.
type S interface {
	// Sleep blocks for at least d. A zero or negative d returns immediately.
	Sleep(d time.Duration)
}

// Adaptive sleeps coarsely for most of the duration and busy-waits the final
// stretch to absorb OS scheduling jitter.
type Adaptive struct{}

var _ S = Adaptive{}

// Sleep implements S.
func (Adaptive) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	start := time.Now()
	if coarse := d - time.Millisecond; coarse > 0 {
		time.Sleep(coarse)
	}
	for time.Since(start) < d {
	}
}

// Simple defers entirely to the runtime timer. It is cheaper than Adaptive
// but subject to scheduler overshoot.
type Simple struct{}

var _ S = Simple{}

// Sleep implements S.
func (Simple) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
