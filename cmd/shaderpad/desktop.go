// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package main

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/shaderpad/shaderpad/gpu"
	"github.com/shaderpad/shaderpad/internal/config"
	"github.com/shaderpad/shaderpad/internal/gl"
	"github.com/shaderpad/shaderpad/internal/watch"
	"github.com/shaderpad/shaderpad/preamble"
)

// panel is a window running one main function.
type panel struct {
	cfg   config.Panel
	win   *glfw.Window
	r     *gpu.Renderer
	dirty bool
}

// editor is the desktop front end. All methods run on the main thread.
type editor struct {
	cfg    *config.Config
	diag   *printer
	panels []*panel

	mu      sync.Mutex
	changed map[string]bool
	rerun   bool
}

func (p *panel) Functions() (gl.Functions, error) {
	return gl.NewFunctions()
}

func (p *panel) Size() image.Point {
	w, h := p.win.GetFramebufferSize()
	return image.Point{X: w, Y: h}
}

func runDesktop(cfg *config.Config, diag *printer) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.False)

	e := &editor{
		cfg:     cfg,
		diag:    diag,
		changed: make(map[string]bool),
	}
	defer e.release()
	for i, pc := range cfg.Panels {
		win, err := glfw.CreateWindow(cfg.Width, cfg.Height, "shaderpad: "+pc.Name, nil, nil)
		if err != nil {
			return err
		}
		win.SetPos(40+i*(cfg.Width+20), 40)
		p := &panel{cfg: pc, win: win}
		e.panels = append(e.panels, p)
		win.MakeContextCurrent()
		r, err := gpu.New(p)
		if err != nil {
			return fmt.Errorf("%s: %w", pc.Name, err)
		}
		p.r = r
		e.registerCallbacks(p)
		e.run(p)
	}

	if files := cfg.Files(); len(files) > 0 {
		w, err := watch.New(files)
		if err != nil {
			return err
		}
		defer w.Close()
		go e.watch(w)
	}

	for e.open() {
		glfw.WaitEvents()
		e.update()
	}
	return nil
}

// watch forwards file changes to the main thread.
func (e *editor) watch(w *watch.Watcher) {
	for {
		select {
		case path, ok := <-w.Events():
			if !ok {
				return
			}
			e.mu.Lock()
			e.changed[path] = true
			e.mu.Unlock()
			glfw.PostEmptyEvent()
		case err := <-w.Errors():
			slog.Warn("watch failed", "err", err)
		}
	}
}

func (e *editor) registerCallbacks(p *panel) {
	p.win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyR:
			e.rerun = true
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})
	p.win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		p.dirty = true
	})
	p.win.SetRefreshCallback(func(w *glfw.Window) {
		p.dirty = true
	})
}

// update closes panels, re-runs changed sources and redraws damaged
// panels.
func (e *editor) update() {
	e.mu.Lock()
	changed := e.changed
	e.changed = make(map[string]bool)
	e.mu.Unlock()
	rerun := e.rerun || changed[e.cfg.Preamble]
	e.rerun = false

	for _, p := range e.panels {
		if p.win == nil {
			continue
		}
		if p.win.ShouldClose() {
			e.close(p)
			continue
		}
		if rerun || changed[p.cfg.Source] {
			e.run(p)
			continue
		}
		if p.dirty {
			p.win.MakeContextCurrent()
			p.r.Render()
			p.win.SwapBuffers()
			p.dirty = false
		}
	}
}

// run compiles the panel source and presents the result. A failed
// program keeps the previous frame.
func (e *editor) run(p *panel) {
	pre, err := e.cfg.PreambleText()
	if err != nil {
		slog.Error("reading preamble failed", "err", err)
		return
	}
	mainSrc, err := p.cfg.MainText()
	if err != nil {
		slog.Error("reading main function failed", "panel", p.cfg.Name, "err", err)
		return
	}
	p.win.MakeContextCurrent()
	if err := p.r.SetProgram(preamble.Compose(pre, mainSrc)); err != nil {
		e.diag.print(source{panel: p.cfg.Name, file: p.cfg.Source, preLines: preamble.Lines(pre)}, err)
		if !p.r.Active() {
			return
		}
		p.r.Render()
	} else {
		slog.Info("program updated", "panel", p.cfg.Name)
	}
	p.win.SwapBuffers()
	p.dirty = false
}

func (e *editor) open() bool {
	for _, p := range e.panels {
		if p.win != nil {
			return true
		}
	}
	return false
}

func (e *editor) close(p *panel) {
	p.win.MakeContextCurrent()
	if p.r != nil {
		p.r.Release()
		p.r = nil
	}
	p.win.Destroy()
	p.win = nil
}

func (e *editor) release() {
	for _, p := range e.panels {
		if p.win != nil {
			e.close(p)
		}
	}
}
