// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"syscall/js"

	"github.com/shaderpad/shaderpad/internal/gl"
)

type jsContext struct {
	ctx js.Value
}

func newContext(width, height int) (context, error) {
	doc := js.Global().Get("document")
	cnv := doc.Call("createElement", "canvas")
	cnv.Set("width", width)
	cnv.Set("height", height)
	ctx := cnv.Call("getContext", "webgl2", map[string]interface{}{
		"preserveDrawingBuffer": true,
	})
	if ctx.IsNull() {
		return nil, errors.New("headless: webgl2 is not supported")
	}
	c := &jsContext{
		ctx: ctx,
	}
	return c, nil
}

func (c *jsContext) Functions() (gl.Functions, error) {
	return gl.NewFunctions(gl.Context(c.ctx))
}

func (c *jsContext) Release() {
}

func (c *jsContext) ReleaseCurrent() {
}

func (c *jsContext) MakeCurrent() error {
	return nil
}
