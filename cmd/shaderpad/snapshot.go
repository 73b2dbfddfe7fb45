// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/shaderpad/shaderpad/gpu/headless"
	"github.com/shaderpad/shaderpad/internal/config"
	"github.com/shaderpad/shaderpad/preamble"
)

// snapshot renders every panel of cfg into dir/<panel>.png. Panels
// whose program fails are reported and skipped.
func snapshot(cfg *config.Config, dir string, diag *printer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	pre, err := cfg.PreambleText()
	if err != nil {
		return err
	}
	var (
		errs []error
		g    errgroup.Group
	)
	for _, p := range cfg.Panels {
		img, err := renderPanel(cfg, pre, p, diag)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		file := filepath.Join(dir, p.Name+".png")
		g.Go(func() error {
			if err := saveImage(file, img); err != nil {
				return err
			}
			slog.Info("snapshot written", "panel", p.Name, "file", file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func renderPanel(cfg *config.Config, pre string, p config.Panel, diag *printer) (*image.RGBA, error) {
	mainSrc, err := p.MainText()
	if err != nil {
		return nil, err
	}
	w, err := headless.NewWindow(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	defer w.Release()
	if err := w.SetProgram(preamble.Compose(pre, mainSrc)); err != nil {
		diag.print(source{panel: p.Name, file: p.Source, preLines: preamble.Lines(pre)}, err)
		return nil, err
	}
	img := image.NewRGBA(image.Rectangle{Max: w.Size()})
	if err := w.Screenshot(img); err != nil {
		return nil, err
	}
	return img, nil
}

func saveImage(file string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(file, buf.Bytes(), 0o666)
}
