// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"image"
	"log/slog"
	"os"
	"strconv"
	"syscall/js"

	"github.com/shaderpad/shaderpad/gpu"
	"github.com/shaderpad/shaderpad/internal/config"
	"github.com/shaderpad/shaderpad/internal/gl"
	"github.com/shaderpad/shaderpad/preamble"
)

// page is the editor page: a shared preamble text area followed by
// the panels.
type page struct {
	doc      js.Value
	preamble js.Value
	panels   []*webPanel
}

// webPanel is a canvas with its main function text area and Run
// button.
type webPanel struct {
	name   string
	canvas js.Value
	ctx    js.Value
	text   js.Value
	r      *gpu.Renderer
	page   *page
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	gpu.SetLogger(logger.With("component", "gpu"))

	cfg := config.Default()
	doc := js.Global().Get("document")
	p := &page{doc: doc}
	js.Global().Call("addEventListener", "DOMContentLoaded", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		p.build(cfg)
		return nil
	}))
	if s := doc.Get("readyState").String(); s != "loading" {
		p.build(cfg)
	}
	select {}
}

func (p *page) build(cfg *config.Config) {
	if !p.preamble.IsUndefined() {
		return
	}
	body := p.doc.Get("body")
	preDiv := p.element("div", "preamble")
	body.Call("appendChild", preDiv)
	p.preamble = p.textArea(preamble.Default)
	preDiv.Call("appendChild", p.preamble)

	container := p.element("div", "fragment-container")
	body.Call("appendChild", container)
	for _, pc := range cfg.Panels {
		div := p.element("div", "fragment")
		container.Call("appendChild", div)
		panel, err := p.newPanel(div, pc.Name, cfg.Width, cfg.Height)
		if err != nil {
			slog.Error("panel creation failed", "panel", pc.Name, "err", err)
			msg := p.doc.Call("createElement", "pre")
			msg.Set("textContent", err.Error())
			div.Call("appendChild", msg)
			continue
		}
		p.panels = append(p.panels, panel)
		panel.run()
	}
}

func (p *page) newPanel(div js.Value, name string, width, height int) (*webPanel, error) {
	w := &webPanel{name: name, page: p}
	w.canvas = p.doc.Call("createElement", "canvas")
	w.canvas.Set("width", width)
	w.canvas.Set("height", height)
	div.Call("appendChild", w.canvas)
	w.ctx = w.canvas.Call("getContext", "webgl2")
	r, err := gpu.New(w)
	if err != nil {
		return nil, err
	}
	w.r = r

	w.text = p.textArea(preamble.DefaultMain)
	style := w.text.Get("style")
	style.Set("marginTop", "8px")
	style.Set("marginBottom", "8px")
	div.Call("appendChild", w.text)
	w.text.Call("addEventListener", "keydown", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ev := args[0]
		if ev.Get("key").String() == "Enter" && ev.Get("ctrlKey").Bool() {
			ev.Call("preventDefault")
			w.run()
		}
		return nil
	}))

	btn := p.doc.Call("createElement", "button")
	btn.Set("textContent", "Run")
	btn.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		w.run()
		return nil
	}))
	div.Call("appendChild", btn)
	return w, nil
}

func (w *webPanel) Functions() (gl.Functions, error) {
	return gl.NewFunctions(gl.Context(w.ctx))
}

func (w *webPanel) Size() image.Point {
	return image.Point{
		X: w.canvas.Get("width").Int(),
		Y: w.canvas.Get("height").Int(),
	}
}

// run sets the program made of the page preamble and the panel main
// function.
func (w *webPanel) run() {
	src := preamble.Compose(w.page.preamble.Get("value").String(), w.text.Get("value").String())
	if err := w.r.SetProgram(src); err != nil {
		js.Global().Get("console").Call("error", w.name+": "+err.Error())
	}
}

func (p *page) element(tag, class string) js.Value {
	e := p.doc.Call("createElement", tag)
	e.Get("classList").Call("add", class)
	return e
}

// textArea returns a text area that grows to fit its content.
func (p *page) textArea(value string) js.Value {
	ta := p.doc.Call("createElement", "textarea")
	ta.Set("value", value)
	style := ta.Get("style")
	style.Set("width", "100%")
	style.Set("height", "auto")
	style.Set("resize", "none")
	style.Set("overflowY", "hidden")
	style.Set("overflowX", "auto")
	style.Set("boxSizing", "border-box")
	resize := func() {
		style.Set("height", "auto")
		style.Set("height", strconv.Itoa(ta.Get("scrollHeight").Int())+"px")
	}
	ta.Call("addEventListener", "input", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resize()
		return nil
	}))
	// The scroll height is only known once the element is in the
	// document.
	js.Global().Call("requestAnimationFrame", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resize()
		return nil
	}))
	return ta
}
