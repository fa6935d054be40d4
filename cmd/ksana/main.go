// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/race-engineering-center/ksana/cli"
)

func main() {
	os.Exit(cli.Main())
}
