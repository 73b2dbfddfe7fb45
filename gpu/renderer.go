// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gpu manages the fragment program of a drawing surface.

A Renderer owns the OpenGL ES 3.0 (or WebGL 2) context of one surface,
a static full-screen quad and at most one active program. SetProgram
compiles a fragment shader against a fixed vertex stage, links it and
swaps it in only when every step succeeded; a failed attempt leaves the
previous program and the last rendered frame untouched.

The fragment stage receives the quad position in clip space as

	in vec2 v_position;

and must declare its own output variable.

Renderers are not safe for concurrent use. All methods must be called
on the thread where the surface's context is current.
*/
package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// Surface is a drawable target with an OpenGL ES context.
type Surface interface {
	// Functions returns the GL entry points of the surface context. The
	// context must be current.
	Functions() (gl.Functions, error)
	// Size returns the drawable size in pixels.
	Size() image.Point
}

// Renderer draws the active fragment program of one surface.
type Renderer struct {
	surface  Surface
	funcs    gl.Functions
	quad     *quad
	slot     programSlot
	diag     func(err error)
	released bool
}

// Option configures a Renderer.
type Option func(r *Renderer)

// WithDiagnostics sets a function called with every error returned by
// SetProgram, in addition to logging it.
func WithDiagnostics(fn func(err error)) Option {
	return func(r *Renderer) {
		r.diag = fn
	}
}

// New creates a Renderer for s and clears the surface to opaque black.
// It fails with ErrContextUnavailable if s cannot provide a usable
// context.
func New(s Surface, opts ...Option) (*Renderer, error) {
	f, err := s.Functions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	ver := f.GetString(gl.VERSION)
	ok, err := gl.SupportsES3(ver)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: OpenGL ES 3.0 required, got %q", ErrContextUnavailable, ver)
	}
	q, err := newQuad(f, vertexShader.Inputs)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		surface: s,
		funcs:   f,
		quad:    q,
	}
	for _, o := range opts {
		o(r)
	}
	f.ClearColor(0, 0, 0, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	Logger().Debug("gpu: context created", "version", ver, "renderer", f.GetString(gl.RENDERER))
	return r, nil
}

// SetProgram compiles fragSrc, links it with the quad vertex stage and
// makes it the active program, then renders a frame. On failure the
// active program is unchanged and the error is returned; compile and
// link failures are *CompileError and *LinkError.
func (r *Renderer) SetProgram(fragSrc string) error {
	if r.released {
		Logger().Warn("gpu: SetProgram called on released renderer")
		return ErrReleased
	}
	vs, err := compileStage(r.funcs, VertexStage, vertexShader.GLSL)
	if err != nil {
		var cerr *CompileError
		if errors.As(err, &cerr) {
			err = fmt.Errorf("%w: %s: %w", ErrInternal, vertexShader.Name, err)
		}
		r.report(err)
		return err
	}
	fs, err := compileStage(r.funcs, FragmentStage, fragSrc)
	if err != nil {
		vs.release()
		r.report(err)
		return err
	}
	prog, err := linkProgram(r.funcs, vs, fs, attribNames(vertexShader.Inputs))
	if err != nil {
		r.report(err)
		return err
	}
	if err := r.slot.install(prog); err != nil {
		prog.release()
		r.report(err)
		return err
	}
	Logger().Debug("gpu: program installed")
	r.Render()
	return nil
}

// Active reports whether a program is installed.
func (r *Renderer) Active() bool {
	_, ok := r.slot.active()
	return ok
}

// Size returns the surface size.
func (r *Renderer) Size() image.Point {
	return r.surface.Size()
}

// Release deletes the program and geometry of the renderer. The
// surface context must be current.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.slot.teardown()
	r.quad.release()
	r.released = true
	Logger().Debug("gpu: renderer released")
}

func (r *Renderer) report(err error) {
	var (
		cerr *CompileError
		lerr *LinkError
	)
	switch {
	case errors.As(err, &cerr) && !errors.Is(err, ErrInternal):
		Logger().Warn("gpu: shader compilation failed",
			"stage", cerr.Kind.String(),
			"log", cerr.Log,
			"lines", cerr.Lines,
			"source", cerr.Source,
		)
	case errors.As(err, &lerr):
		Logger().Warn("gpu: program link failed", "log", lerr.Log)
	default:
		Logger().Error("gpu: set program failed", "err", err)
	}
	if r.diag != nil {
		r.diag(err)
	}
}
