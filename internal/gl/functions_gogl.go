// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package gl

import (
	"fmt"

	gles "github.com/go-gl/gl/v3.1/gles2"
)

// goglFunctions implements Functions on top of the go-gl OpenGL ES
// bindings.
type goglFunctions struct {
	// Query caches.
	ints [1]int32
}

// NewFunctions loads the OpenGL ES entry points for the context that is
// current on the calling thread.
func NewFunctions() (Functions, error) {
	if err := gles.Init(); err != nil {
		return nil, fmt.Errorf("gl: failed to load OpenGL ES functions: %w", err)
	}
	return new(goglFunctions), nil
}

func (f *goglFunctions) AttachShader(p Program, s Shader) {
	gles.AttachShader(uint32(p.V), uint32(s.V))
}

func (f *goglFunctions) BindAttribLocation(p Program, a Attrib, name string) {
	cname, free := gles.Strs(name + "\x00")
	defer free()
	gles.BindAttribLocation(uint32(p.V), uint32(a), *cname)
}

func (f *goglFunctions) BindBuffer(target Enum, b Buffer) {
	gles.BindBuffer(uint32(target), uint32(b.V))
}

func (f *goglFunctions) BindVertexArray(a VertexArray) {
	gles.BindVertexArray(uint32(a.V))
}

func (f *goglFunctions) BufferData(target Enum, src []byte, usage Enum) {
	if len(src) == 0 {
		gles.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gles.BufferData(uint32(target), len(src), gles.Ptr(src), uint32(usage))
}

func (f *goglFunctions) Clear(mask Enum) {
	gles.Clear(uint32(mask))
}

func (f *goglFunctions) ClearColor(red, green, blue, alpha float32) {
	gles.ClearColor(red, green, blue, alpha)
}

func (f *goglFunctions) CompileShader(s Shader) {
	gles.CompileShader(uint32(s.V))
}

func (f *goglFunctions) CreateBuffer() Buffer {
	var buf uint32
	gles.GenBuffers(1, &buf)
	return Buffer{uint(buf)}
}

func (f *goglFunctions) CreateProgram() Program {
	return Program{uint(gles.CreateProgram())}
}

func (f *goglFunctions) CreateShader(ty Enum) Shader {
	return Shader{uint(gles.CreateShader(uint32(ty)))}
}

func (f *goglFunctions) CreateVertexArray() VertexArray {
	var a uint32
	gles.GenVertexArrays(1, &a)
	return VertexArray{uint(a)}
}

func (f *goglFunctions) DeleteBuffer(v Buffer) {
	buf := uint32(v.V)
	gles.DeleteBuffers(1, &buf)
}

func (f *goglFunctions) DeleteProgram(p Program) {
	gles.DeleteProgram(uint32(p.V))
}

func (f *goglFunctions) DeleteShader(s Shader) {
	gles.DeleteShader(uint32(s.V))
}

func (f *goglFunctions) DeleteVertexArray(v VertexArray) {
	a := uint32(v.V)
	gles.DeleteVertexArrays(1, &a)
}

func (f *goglFunctions) DrawArrays(mode Enum, first, count int) {
	gles.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (f *goglFunctions) EnableVertexAttribArray(a Attrib) {
	gles.EnableVertexAttribArray(uint32(a))
}

func (f *goglFunctions) GetError() Enum {
	return Enum(gles.GetError())
}

func (f *goglFunctions) GetProgrami(p Program, pname Enum) int {
	gles.GetProgramiv(uint32(p.V), uint32(pname), &f.ints[0])
	return int(f.ints[0])
}

func (f *goglFunctions) GetProgramInfoLog(p Program) string {
	n := f.GetProgrami(p, INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gles.GetProgramInfoLog(uint32(p.V), int32(len(buf)), nil, &buf[0])
	return gles.GoStr(&buf[0])
}

func (f *goglFunctions) GetShaderi(s Shader, pname Enum) int {
	gles.GetShaderiv(uint32(s.V), uint32(pname), &f.ints[0])
	return int(f.ints[0])
}

func (f *goglFunctions) GetShaderInfoLog(s Shader) string {
	n := f.GetShaderi(s, INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gles.GetShaderInfoLog(uint32(s.V), int32(len(buf)), nil, &buf[0])
	return gles.GoStr(&buf[0])
}

func (f *goglFunctions) GetString(pname Enum) string {
	s := gles.GetString(uint32(pname))
	if s == nil {
		return ""
	}
	return gles.GoStr(s)
}

func (f *goglFunctions) LinkProgram(p Program) {
	gles.LinkProgram(uint32(p.V))
}

func (f *goglFunctions) ReadPixels(x, y, width, height int, format, ty Enum, data []byte) {
	gles.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), gles.Ptr(data))
}

func (f *goglFunctions) ShaderSource(s Shader, src string) {
	csources, free := gles.Strs(src + "\x00")
	gles.ShaderSource(uint32(s.V), 1, csources, nil)
	free()
}

func (f *goglFunctions) UseProgram(p Program) {
	gles.UseProgram(uint32(p.V))
}

func (f *goglFunctions) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	gles.VertexAttribPointer(uint32(dst), int32(size), uint32(ty), normalized, int32(stride), gles.PtrOffset(offset))
}

func (f *goglFunctions) Viewport(x, y, width, height int) {
	gles.Viewport(int32(x), int32(y), int32(width), int32(height))
}
