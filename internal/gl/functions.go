// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Functions is the subset of OpenGL ES 3.0 (WebGL 2) entry points
// needed to compile, link and draw a fragment program over a quad.
//
// Implementations are bound to a single context and must only be
// called while that context is current.
type Functions interface {
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, a Attrib, name string)
	BindBuffer(target Enum, b Buffer)
	BindVertexArray(a VertexArray)
	BufferData(target Enum, src []byte, usage Enum)
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateVertexArray() VertexArray
	DeleteBuffer(b Buffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteVertexArray(a VertexArray)
	DrawArrays(mode Enum, first, count int)
	EnableVertexAttribArray(a Attrib)
	GetError() Enum
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetString(pname Enum) string
	LinkProgram(p Program)
	ReadPixels(x, y, width, height int, format, ty Enum, data []byte)
	ShaderSource(s Shader, src string)
	UseProgram(p Program)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
