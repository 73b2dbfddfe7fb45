// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package gpu

import (
	"fmt"
	"image"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// fakeGL is a recording gl.Functions. It tracks object lifetimes and
// rasterizes the quad for fragment shaders that assign a constant
// vec4 to their output.
type fakeGL struct {
	version string
	next    uint

	shaders  map[uint]*fakeShader
	programs map[uint]*fakeProgram
	buffers  map[uint]*fakeBuffer
	arrays   map[uint]*fakeArray

	arrayBuf   uint
	vertArray  uint
	current    uint
	clearColor [4]float32
	viewport   [4]int

	size image.Point
	// Framebuffer in GL order, bottom row first.
	pixels []byte

	errs  []gl.Enum
	calls []string
	draws int

	// Allocation failures to simulate, by object kind.
	failCreate map[string]bool
	failUpload bool
	// Shader type whose compilation always fails.
	rejectStage gl.Enum
}

type fakeShader struct {
	typ      gl.Enum
	src      string
	compiled bool
	log      string
	deleted  bool
	attached map[uint]bool
}

type fakeProgram struct {
	shaders map[uint]bool
	attribs map[string]gl.Attrib
	linked  bool
	log     string
	color   [4]float32
	deleted bool
}

type fakeBuffer struct {
	data    []byte
	deleted bool
}

type fakeArray struct {
	enabled map[gl.Attrib]bool
	buffer  uint
	deleted bool
}

func newFakeGL(width, height int) *fakeGL {
	return &fakeGL{
		version:    "OpenGL ES 3.0 fake",
		shaders:    make(map[uint]*fakeShader),
		programs:   make(map[uint]*fakeProgram),
		buffers:    make(map[uint]*fakeBuffer),
		arrays:     make(map[uint]*fakeArray),
		size:       image.Pt(width, height),
		pixels:     make([]byte, width*height*4),
		failCreate: make(map[string]bool),
	}
}

func (f *fakeGL) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGL) id() uint {
	f.next++
	return f.next
}

func (f *fakeGL) setError(e gl.Enum) {
	f.errs = append(f.errs, e)
}

func (f *fakeGL) AttachShader(p gl.Program, s gl.Shader) {
	f.record("AttachShader(%d, %d)", p.V, s.V)
	prog, sh := f.programs[p.V], f.shaders[s.V]
	if prog == nil || sh == nil {
		f.setError(gl.INVALID_VALUE)
		return
	}
	prog.shaders[s.V] = true
	sh.attached[p.V] = true
}

func (f *fakeGL) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	f.record("BindAttribLocation(%d, %d, %s)", p.V, a, name)
	if prog := f.programs[p.V]; prog != nil {
		prog.attribs[name] = a
	}
}

func (f *fakeGL) BindBuffer(target gl.Enum, b gl.Buffer) {
	f.record("BindBuffer(%d)", b.V)
	f.arrayBuf = b.V
}

func (f *fakeGL) BindVertexArray(a gl.VertexArray) {
	f.record("BindVertexArray(%d)", a.V)
	f.vertArray = a.V
}

func (f *fakeGL) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	f.record("BufferData(%d bytes)", len(src))
	if f.failUpload {
		f.setError(gl.OUT_OF_MEMORY)
		return
	}
	if b := f.buffers[f.arrayBuf]; b != nil {
		b.data = append([]byte(nil), src...)
	}
}

func (f *fakeGL) Clear(mask gl.Enum) {
	f.record("Clear")
	c := toBytes(f.clearColor)
	for i := 0; i < len(f.pixels); i += 4 {
		copy(f.pixels[i:], c[:])
	}
}

func (f *fakeGL) ClearColor(red, green, blue, alpha float32) {
	f.clearColor = [4]float32{red, green, blue, alpha}
}

var (
	fakeVersionDirective = regexp.MustCompile(`^\s*#version 300 es\s*$`)
	fakeOutColor         = regexp.MustCompile(`\w+\s*=\s*vec4\(\s*([-\d.]+)\s*,\s*([-\d.]+)\s*,\s*([-\d.]+)\s*,\s*([-\d.]+)\s*\)\s*;`)
)

// CompileShader accepts GLSL ES 3.00 sources with balanced braces and
// no "invalid" token.
func (f *fakeGL) CompileShader(s gl.Shader) {
	f.record("CompileShader(%d)", s.V)
	sh := f.shaders[s.V]
	if sh == nil {
		f.setError(gl.INVALID_VALUE)
		return
	}
	if sh.typ == f.rejectStage {
		sh.log = "ERROR: 0:1: '' : stage not supported\n"
		return
	}
	lines := strings.Split(sh.src, "\n")
	if len(lines) == 0 || !fakeVersionDirective.MatchString(lines[0]) {
		sh.log = "ERROR: 0:1: '' : unsupported shader version\n"
		return
	}
	depth := 0
	for i, l := range lines {
		if strings.Contains(l, "invalid") {
			sh.log = fmt.Sprintf("ERROR: 0:%d: 'invalid' : syntax error\n", i+1)
			return
		}
		depth += strings.Count(l, "{") - strings.Count(l, "}")
		if depth < 0 {
			sh.log = fmt.Sprintf("ERROR: 0:%d: '}' : syntax error\n", i+1)
			return
		}
	}
	if depth != 0 {
		sh.log = fmt.Sprintf("ERROR: 0:%d: '' : syntax error: unexpected end of file\n", len(lines))
		return
	}
	sh.compiled = true
}

func (f *fakeGL) CreateBuffer() gl.Buffer {
	f.record("CreateBuffer")
	if f.failCreate["buffer"] {
		return gl.Buffer{}
	}
	id := f.id()
	f.buffers[id] = &fakeBuffer{}
	return gl.Buffer{V: id}
}

func (f *fakeGL) CreateProgram() gl.Program {
	f.record("CreateProgram")
	if f.failCreate["program"] {
		return gl.Program{}
	}
	id := f.id()
	f.programs[id] = &fakeProgram{
		shaders: make(map[uint]bool),
		attribs: make(map[string]gl.Attrib),
	}
	return gl.Program{V: id}
}

func (f *fakeGL) CreateShader(ty gl.Enum) gl.Shader {
	f.record("CreateShader(0x%x)", ty)
	if f.failCreate["shader"] {
		return gl.Shader{}
	}
	id := f.id()
	f.shaders[id] = &fakeShader{typ: ty, attached: make(map[uint]bool)}
	return gl.Shader{V: id}
}

func (f *fakeGL) CreateVertexArray() gl.VertexArray {
	f.record("CreateVertexArray")
	if f.failCreate["vertexarray"] {
		return gl.VertexArray{}
	}
	id := f.id()
	f.arrays[id] = &fakeArray{enabled: make(map[gl.Attrib]bool)}
	return gl.VertexArray{V: id}
}

func (f *fakeGL) DeleteBuffer(b gl.Buffer) {
	f.record("DeleteBuffer(%d)", b.V)
	if buf := f.buffers[b.V]; buf != nil {
		buf.deleted = true
	}
}

func (f *fakeGL) DeleteProgram(p gl.Program) {
	f.record("DeleteProgram(%d)", p.V)
	prog := f.programs[p.V]
	if prog == nil {
		return
	}
	prog.deleted = true
	for s := range prog.shaders {
		delete(f.shaders[s].attached, p.V)
	}
}

func (f *fakeGL) DeleteShader(s gl.Shader) {
	f.record("DeleteShader(%d)", s.V)
	if sh := f.shaders[s.V]; sh != nil {
		sh.deleted = true
	}
}

func (f *fakeGL) DeleteVertexArray(a gl.VertexArray) {
	f.record("DeleteVertexArray(%d)", a.V)
	if arr := f.arrays[a.V]; arr != nil {
		arr.deleted = true
	}
}

// DrawArrays fills the viewport with the program color when the full
// quad is drawn.
func (f *fakeGL) DrawArrays(mode gl.Enum, first, count int) {
	f.record("DrawArrays(%d, %d)", first, count)
	prog := f.programs[f.current]
	if prog == nil || !prog.linked || prog.deleted {
		f.setError(gl.INVALID_OPERATION)
		return
	}
	arr := f.arrays[f.vertArray]
	if arr == nil || arr.deleted || !arr.enabled[prog.attribs["a_position"]] {
		f.setError(gl.INVALID_OPERATION)
		return
	}
	buf := f.buffers[arr.buffer]
	if buf == nil || len(buf.data) < (first+count)*2*4 {
		f.setError(gl.INVALID_OPERATION)
		return
	}
	if mode != gl.TRIANGLES || first != 0 || count != quadVertexCount {
		return
	}
	f.draws++
	c := toBytes(prog.color)
	x0, y0, w, h := f.viewport[0], f.viewport[1], f.viewport[2], f.viewport[3]
	for y := y0; y < y0+h && y < f.size.Y; y++ {
		for x := x0; x < x0+w && x < f.size.X; x++ {
			copy(f.pixels[(y*f.size.X+x)*4:], c[:])
		}
	}
}

func (f *fakeGL) EnableVertexAttribArray(a gl.Attrib) {
	f.record("EnableVertexAttribArray(%d)", a)
	if arr := f.arrays[f.vertArray]; arr != nil {
		arr.enabled[a] = true
	}
}

func (f *fakeGL) GetError() gl.Enum {
	if len(f.errs) == 0 {
		return gl.NO_ERROR
	}
	e := f.errs[0]
	f.errs = f.errs[1:]
	return e
}

func (f *fakeGL) GetProgrami(p gl.Program, pname gl.Enum) int {
	prog := f.programs[p.V]
	if prog == nil {
		f.setError(gl.INVALID_VALUE)
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		if prog.linked {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(prog.log)
	}
	f.setError(gl.INVALID_ENUM)
	return 0
}

func (f *fakeGL) GetProgramInfoLog(p gl.Program) string {
	if prog := f.programs[p.V]; prog != nil {
		return prog.log
	}
	return ""
}

func (f *fakeGL) GetShaderi(s gl.Shader, pname gl.Enum) int {
	sh := f.shaders[s.V]
	if sh == nil {
		f.setError(gl.INVALID_VALUE)
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		if sh.compiled {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(sh.log)
	}
	f.setError(gl.INVALID_ENUM)
	return 0
}

func (f *fakeGL) GetShaderInfoLog(s gl.Shader) string {
	if sh := f.shaders[s.V]; sh != nil {
		return sh.log
	}
	return ""
}

func (f *fakeGL) GetString(pname gl.Enum) string {
	switch pname {
	case gl.VERSION:
		return f.version
	case gl.RENDERER:
		return "fake"
	}
	return ""
}

// LinkProgram requires one compiled shader per stage and a main
// function in the fragment stage.
func (f *fakeGL) LinkProgram(p gl.Program) {
	f.record("LinkProgram(%d)", p.V)
	prog := f.programs[p.V]
	if prog == nil {
		f.setError(gl.INVALID_VALUE)
		return
	}
	var vs, fs *fakeShader
	for id := range prog.shaders {
		sh := f.shaders[id]
		switch sh.typ {
		case gl.VERTEX_SHADER:
			vs = sh
		case gl.FRAGMENT_SHADER:
			fs = sh
		}
	}
	switch {
	case vs == nil || fs == nil:
		prog.log = "error: program lacks a vertex or fragment shader\n"
		return
	case !vs.compiled || !fs.compiled:
		prog.log = "error: program contains uncompiled shaders\n"
		return
	case !strings.Contains(fs.src, "void main"):
		prog.log = "error: fragment shader lacks `main'\n"
		return
	}
	prog.linked = true
	prog.color = [4]float32{0.5, 0.5, 0.5, 1}
	if m := fakeOutColor.FindAllStringSubmatch(fs.src, -1); len(m) > 0 {
		last := m[len(m)-1]
		for i := range prog.color {
			v, err := strconv.ParseFloat(last[i+1], 32)
			if err == nil {
				prog.color[i] = float32(v)
			}
		}
	}
}

func (f *fakeGL) ReadPixels(x, y, width, height int, format, ty gl.Enum, data []byte) {
	f.record("ReadPixels")
	for row := 0; row < height; row++ {
		src := ((y+row)*f.size.X + x) * 4
		copy(data[row*width*4:(row+1)*width*4], f.pixels[src:src+width*4])
	}
}

func (f *fakeGL) ShaderSource(s gl.Shader, src string) {
	f.record("ShaderSource(%d)", s.V)
	if sh := f.shaders[s.V]; sh != nil {
		sh.src = src
	}
}

func (f *fakeGL) UseProgram(p gl.Program) {
	f.record("UseProgram(%d)", p.V)
	f.current = p.V
}

func (f *fakeGL) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.record("VertexAttribPointer(%d, %d)", dst, size)
	if arr := f.arrays[f.vertArray]; arr != nil {
		arr.buffer = f.arrayBuf
	}
}

func (f *fakeGL) Viewport(x, y, width, height int) {
	f.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
	f.viewport = [4]int{x, y, width, height}
}

// live counts the shaders and programs not yet deleted. Shaders
// flagged for deletion while attached still count.
func (f *fakeGL) live() (shaders, programs int) {
	for _, s := range f.shaders {
		if !s.deleted || len(s.attached) > 0 {
			shaders++
		}
	}
	for _, p := range f.programs {
		if !p.deleted {
			programs++
		}
	}
	return shaders, programs
}

func (f *fakeGL) liveBuffers() (buffers, arrays int) {
	for _, b := range f.buffers {
		if !b.deleted {
			buffers++
		}
	}
	for _, a := range f.arrays {
		if !a.deleted {
			arrays++
		}
	}
	return buffers, arrays
}

func (f *fakeGL) callIndex(call string) int {
	for i, c := range f.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func toBytes(c [4]float32) [4]byte {
	var b [4]byte
	for i, v := range c {
		v = float32(math.Max(0, math.Min(1, float64(v))))
		b[i] = uint8(v*255 + 0.5)
	}
	return b
}

type fakeSurface struct {
	funcs *fakeGL
	err   error
}

func (s *fakeSurface) Functions() (gl.Functions, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.funcs, nil
}

func (s *fakeSurface) Size() image.Point {
	return s.funcs.size
}
