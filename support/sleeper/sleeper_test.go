// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package sleeper

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestSleeper(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sleeper Tests")
}

var _ = Describe("Adaptive", func() {
	It("sleeps for at least the requested duration", func() {
		start := time.Now()
		Adaptive{}.Sleep(5 * time.Millisecond)
		Expect(time.Since(start)).To(BeNumerically(">=", 5*time.Millisecond))
	})

	It("returns immediately for zero and negative durations", func() {
		start := time.Now()
		Adaptive{}.Sleep(0)
		Adaptive{}.Sleep(-time.Second)
		Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
	})
})

var _ = Describe("Simple", func() {
	It("sleeps for at least the requested duration", func() {
		start := time.Now()
		Simple{}.Sleep(5 * time.Millisecond)
		Expect(time.Since(start)).To(BeNumerically(">=", 5*time.Millisecond))
	})
})
