// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

// Command shaderpad renders fragment shader main functions on a fixed
// full-screen quad and re-runs them whenever their source files
// change.
//
// Usage:
//
//	shaderpad [flags] [main.frag ...]
//
// Every file argument gets its own panel. Without arguments four panels
// run the default main function. Press R to re-run all panels and Esc
// to close a panel. With -snapshot, every panel is rendered once into a
// PNG file and the command exits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/shaderpad/shaderpad/gpu"
	"github.com/shaderpad/shaderpad/internal/config"
)

func init() {
	// Required by the OpenGL threading model.
	runtime.LockOSThread()
}

func main() {
	flags, err := config.ParseFlags("shaderpad", os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := mainErr(flags); err != nil {
		fmt.Fprintf(os.Stderr, "shaderpad: %v\n", err)
		os.Exit(1)
	}
}

func mainErr(flags *config.Flags) error {
	level := slog.LevelInfo
	if flags.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if flags.Verbose {
		// Diagnostics are printed by the command; the gpu logger adds
		// lifecycle events and raw driver logs.
		gpu.SetLogger(logger.With("component", "gpu"))
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	diag := newPrinter(os.Stderr)
	if flags.Snapshot != "" {
		return snapshot(cfg, flags.Snapshot, diag)
	}
	return runDesktop(cfg, diag)
}
