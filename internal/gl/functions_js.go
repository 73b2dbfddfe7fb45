// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"syscall/js"
)

// Context is a WebGL2RenderingContext.
type Context js.Value

type jsFunctions struct {
	Ctx js.Value

	// Cached reference to the Uint8Array JS type.
	uint8Array js.Value
	// Cached JS array.
	arrayBuf js.Value
}

// NewFunctions wraps a WebGL 2 rendering context. WebGL 1 contexts are
// rejected; the fragment programs are GLSL ES 3.00.
func NewFunctions(ctx Context) (Functions, error) {
	v := js.Value(ctx)
	if v.IsUndefined() || v.IsNull() {
		return nil, errors.New("gl: no WebGL context")
	}
	webgl2Class := js.Global().Get("WebGL2RenderingContext")
	if webgl2Class.IsUndefined() || !v.InstanceOf(webgl2Class) {
		return nil, errors.New("gl: WebGL 2 is not supported")
	}
	return &jsFunctions{
		Ctx:        v,
		uint8Array: js.Global().Get("Uint8Array"),
	}, nil
}

func (f *jsFunctions) AttachShader(p Program, s Shader) {
	f.Ctx.Call("attachShader", js.Value(p), js.Value(s))
}
func (f *jsFunctions) BindAttribLocation(p Program, a Attrib, name string) {
	f.Ctx.Call("bindAttribLocation", js.Value(p), int(a), name)
}
func (f *jsFunctions) BindBuffer(target Enum, b Buffer) {
	f.Ctx.Call("bindBuffer", int(target), js.Value(b))
}
func (f *jsFunctions) BindVertexArray(a VertexArray) {
	f.Ctx.Call("bindVertexArray", js.Value(a))
}
func (f *jsFunctions) BufferData(target Enum, src []byte, usage Enum) {
	if len(src) == 0 {
		f.Ctx.Call("bufferData", int(target), 0, int(usage))
		return
	}
	f.Ctx.Call("bufferData", int(target), f.byteArrayOf(src), int(usage))
}
func (f *jsFunctions) Clear(mask Enum) {
	f.Ctx.Call("clear", int(mask))
}
func (f *jsFunctions) ClearColor(red, green, blue, alpha float32) {
	f.Ctx.Call("clearColor", red, green, blue, alpha)
}
func (f *jsFunctions) CompileShader(s Shader) {
	f.Ctx.Call("compileShader", js.Value(s))
}
func (f *jsFunctions) CreateBuffer() Buffer {
	return Buffer(f.Ctx.Call("createBuffer"))
}
func (f *jsFunctions) CreateProgram() Program {
	return Program(f.Ctx.Call("createProgram"))
}
func (f *jsFunctions) CreateShader(ty Enum) Shader {
	return Shader(f.Ctx.Call("createShader", int(ty)))
}
func (f *jsFunctions) CreateVertexArray() VertexArray {
	return VertexArray(f.Ctx.Call("createVertexArray"))
}
func (f *jsFunctions) DeleteBuffer(v Buffer) {
	f.Ctx.Call("deleteBuffer", js.Value(v))
}
func (f *jsFunctions) DeleteProgram(p Program) {
	f.Ctx.Call("deleteProgram", js.Value(p))
}
func (f *jsFunctions) DeleteShader(s Shader) {
	f.Ctx.Call("deleteShader", js.Value(s))
}
func (f *jsFunctions) DeleteVertexArray(a VertexArray) {
	f.Ctx.Call("deleteVertexArray", js.Value(a))
}
func (f *jsFunctions) DrawArrays(mode Enum, first, count int) {
	f.Ctx.Call("drawArrays", int(mode), first, count)
}
func (f *jsFunctions) EnableVertexAttribArray(a Attrib) {
	f.Ctx.Call("enableVertexAttribArray", int(a))
}
func (f *jsFunctions) GetError() Enum {
	return Enum(f.Ctx.Call("getError").Int())
}
func (f *jsFunctions) GetProgrami(p Program, pname Enum) int {
	return paramVal(f.Ctx.Call("getProgramParameter", js.Value(p), int(pname)))
}
func (f *jsFunctions) GetProgramInfoLog(p Program) string {
	return stringVal(f.Ctx.Call("getProgramInfoLog", js.Value(p)))
}
func (f *jsFunctions) GetShaderi(s Shader, pname Enum) int {
	return paramVal(f.Ctx.Call("getShaderParameter", js.Value(s), int(pname)))
}
func (f *jsFunctions) GetShaderInfoLog(s Shader) string {
	return stringVal(f.Ctx.Call("getShaderInfoLog", js.Value(s)))
}
func (f *jsFunctions) GetString(pname Enum) string {
	return stringVal(f.Ctx.Call("getParameter", int(pname)))
}
func (f *jsFunctions) LinkProgram(p Program) {
	f.Ctx.Call("linkProgram", js.Value(p))
}
func (f *jsFunctions) ReadPixels(x, y, width, height int, format, ty Enum, data []byte) {
	ba := f.byteArrayOf(data)
	f.Ctx.Call("readPixels", x, y, width, height, int(format), int(ty), ba)
	js.CopyBytesToGo(data, ba)
}
func (f *jsFunctions) ShaderSource(s Shader, src string) {
	f.Ctx.Call("shaderSource", js.Value(s), src)
}
func (f *jsFunctions) UseProgram(p Program) {
	f.Ctx.Call("useProgram", js.Value(p))
}
func (f *jsFunctions) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	f.Ctx.Call("vertexAttribPointer", int(dst), size, int(ty), normalized, stride, offset)
}
func (f *jsFunctions) Viewport(x, y, width, height int) {
	f.Ctx.Call("viewport", x, y, width, height)
}

func (f *jsFunctions) byteArrayOf(data []byte) js.Value {
	if len(data) == 0 {
		return js.Null()
	}
	f.resizeByteBuffer(len(data))
	ba := f.uint8Array.New(f.arrayBuf, int(0), int(len(data)))
	js.CopyBytesToJS(ba, data)
	return ba
}

func (f *jsFunctions) resizeByteBuffer(n int) {
	if n == 0 {
		return
	}
	if !f.arrayBuf.IsUndefined() && f.arrayBuf.Get("byteLength").Int() >= n {
		return
	}
	f.arrayBuf = js.Global().Get("ArrayBuffer").New(n)
}

func paramVal(v js.Value) int {
	switch v.Type() {
	case js.TypeBoolean:
		if b := v.Bool(); b {
			return 1
		} else {
			return 0
		}
	case js.TypeNumber:
		return v.Int()
	case js.TypeNull, js.TypeUndefined:
		// Lost context.
		return 0
	default:
		panic("unknown parameter type")
	}
}

func stringVal(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
