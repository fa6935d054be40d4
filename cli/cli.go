// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package cli implements the ksana command-line tool.
//
// ksana records simulator shared memory telemetry to a stream file ("dump",
// the default command) and plays a recorded stream back into shared memory
// ("play").
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/race-engineering-center/ksana/replay"
	"github.com/race-engineering-center/ksana/support/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// minFPS and maxFPS bound the capture rate flag.
	minFPS = 1
	maxFPS = 60

	defaultFPS = 5
)

// Main is the main entry point. It returns the process exit code.
func Main() int {
	args := os.Args[1:]

	// "dump" is the default command.
	command := "dump"
	if len(args) > 0 && !isFlag(args[0]) {
		command, args = args[0], args[1:]
	}

	switch command {
	case "dump":
		return mainDump(args)
	case "play":
		return mainPlay(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; expected \"dump\" or \"play\"\n", command)
		return 2
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func mainDump(args []string) int {
	fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	fps := fs.Int32("fps", defaultFPS, "Frames per second to capture [1-60].")
	output := fs.String("output", "", "Directory to write the recording to (overrides configuration).")
	configPath := fs.String("config", "", "Path to a configuration file.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *fps < minFPS {
		*fps = minFPS
	}
	if *fps > maxFPS {
		*fps = maxFPS
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %s\n", err)
		return 2
	}
	if *output != "" {
		cfg.OutputDir = *output
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %s\n", err)
		return 2
	}

	return runWithSignals(logger, func(c context.Context) error {
		return runDump(c, logger, cfg, *fps)
	})
}

func mainPlay(args []string) int {
	fs := pflag.NewFlagSet("play", pflag.ContinueOnError)
	input := fs.String("input", "", "Stream file to play back.")
	configPath := fs.String("config", "", "Path to a configuration file.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "play requires --input")
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %s\n", err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %s\n", err)
		return 2
	}

	return runWithSignals(logger, func(c context.Context) error {
		return runPlay(c, logger, *input)
	})
}

// runWithSignals runs fn under a Context that is cancelled on interrupt.
func runWithSignals(logger logging.L, fn func(c context.Context) error) int {
	replay.RegisterMonitoring(prometheus.DefaultRegisterer)

	c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fn(c); err != nil {
		logger.Errorf("Failed: %s", err)
		return 1
	}
	return 0
}

func newLogger(level string) (logging.L, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
