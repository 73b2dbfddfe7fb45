// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements hidden windows for rendering fragment
// programs to an image.
package headless

import (
	"image"
	"image/draw"
	"runtime"

	"github.com/shaderpad/shaderpad/gpu"
	"github.com/shaderpad/shaderpad/internal/gl"
)

// Window is a headless window with its own program renderer.
type Window struct {
	size image.Point
	ctx  context
	r    *gpu.Renderer
}

type context interface {
	Functions() (gl.Functions, error)
	MakeCurrent() error
	ReleaseCurrent()
	Release()
}

// surface adapts a context to gpu.Surface. Its methods are only called
// from within contextDo.
type surface struct {
	ctx  context
	size image.Point
}

func (s *surface) Functions() (gl.Functions, error) {
	return s.ctx.Functions()
}

func (s *surface) Size() image.Point {
	return s.size
}

// NewWindow creates a new headless window. The options configure the
// window renderer.
func NewWindow(width, height int, opts ...gpu.Option) (*Window, error) {
	ctx, err := newContext(width, height)
	if err != nil {
		return nil, err
	}
	w := &Window{
		size: image.Point{X: width, Y: height},
		ctx:  ctx,
	}
	err = contextDo(ctx, func() error {
		r, err := gpu.New(&surface{ctx: ctx, size: w.size}, opts...)
		if err != nil {
			return err
		}
		w.r = r
		return nil
	})
	if err != nil {
		ctx.Release()
		return nil, err
	}
	return w, nil
}

// Release resources associated with the window.
func (w *Window) Release() {
	if w.ctx == nil {
		return
	}
	contextDo(w.ctx, func() error {
		if w.r != nil {
			w.r.Release()
			w.r = nil
		}
		return nil
	})
	w.ctx.Release()
	w.ctx = nil
}

// Size returns the window size.
func (w *Window) Size() image.Point {
	return w.size
}

// SetProgram replaces the window program with fragSrc and renders it.
// See gpu.Renderer.SetProgram.
func (w *Window) SetProgram(fragSrc string) error {
	return contextDo(w.ctx, func() error {
		return w.r.SetProgram(fragSrc)
	})
}

// Render redraws the window content with the active program.
func (w *Window) Render() error {
	return contextDo(w.ctx, func() error {
		w.r.Render()
		return nil
	})
}

// Active reports whether the window has a program installed.
func (w *Window) Active() bool {
	return w.r.Active()
}

// Screenshot transfers the Window content at origin img.Rect.Min to img.
func (w *Window) Screenshot(img *image.RGBA) error {
	return contextDo(w.ctx, func() error {
		shot, err := w.r.Screenshot()
		if err != nil {
			return err
		}
		draw.Draw(img, img.Bounds(), shot, img.Rect.Min, draw.Src)
		return nil
	})
}

func contextDo(ctx context, f func() error) error {
	errCh := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := ctx.MakeCurrent(); err != nil {
			errCh <- err
			return
		}
		err := f()
		ctx.ReleaseCurrent()
		errCh <- err
	}()
	return <-errCh
}
