// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package replay drives the capture and playback loops.
//
// A Recorder polls a simulator connector at a fixed rate and appends each
// captured frame to a stream. A Player walks a recorded stream at the rate
// it was captured at and feeds each frame to a simulator player. Both loops
// run until their Context is cancelled or the stream naturally ends.
package replay
