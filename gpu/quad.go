// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"

	"gioui.org/shader"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// quad is the static full-screen geometry: two triangles covering clip
// space from -1 to 1 in both x and y.
type quad struct {
	funcs gl.Functions
	buf   gl.Buffer
	vao   gl.VertexArray
}

var quadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

const quadVertexCount = 6

// newQuad uploads the quad vertices and records the attribute layout
// described by inputs in a vertex array object.
func newQuad(f gl.Functions, inputs []shader.InputLocation) (*quad, error) {
	stride := 0
	for _, inp := range inputs {
		_, sz, err := vertexFormat(inp.Type)
		if err != nil {
			return nil, err
		}
		stride += inp.Size * sz
	}
	vao := f.CreateVertexArray()
	if !vao.Valid() {
		return nil, fmt.Errorf("%w: glCreateVertexArray failed", ErrResourceAllocation)
	}
	buf := f.CreateBuffer()
	if !buf.Valid() {
		f.DeleteVertexArray(vao)
		return nil, fmt.Errorf("%w: glCreateBuffer failed", ErrResourceAllocation)
	}
	q := &quad{funcs: f, buf: buf, vao: vao}
	f.BindVertexArray(vao)
	f.BindBuffer(gl.ARRAY_BUFFER, buf)
	f.BufferData(gl.ARRAY_BUFFER, gl.BytesView(quadVertices), gl.STATIC_DRAW)
	if glErr := f.GetError(); glErr == gl.OUT_OF_MEMORY {
		f.BindVertexArray(gl.VertexArray{})
		q.release()
		return nil, fmt.Errorf("%w: quad upload: GL error 0x%x", ErrResourceAllocation, glErr)
	}
	off := 0
	for _, inp := range inputs {
		// Checked above.
		typ, sz, _ := vertexFormat(inp.Type)
		a := gl.Attrib(inp.Location)
		f.EnableVertexAttribArray(a)
		f.VertexAttribPointer(a, inp.Size, typ, false, stride, off)
		off += inp.Size * sz
	}
	f.BindVertexArray(gl.VertexArray{})
	return q, nil
}

// bind makes the quad the source of vertex attributes.
func (q *quad) bind() {
	q.funcs.BindVertexArray(q.vao)
}

func (q *quad) draw() {
	q.funcs.DrawArrays(gl.TRIANGLES, 0, quadVertexCount)
}

func (q *quad) release() {
	q.funcs.DeleteVertexArray(q.vao)
	q.funcs.DeleteBuffer(q.buf)
	q.vao = gl.VertexArray{}
	q.buf = gl.Buffer{}
}

// vertexFormat returns the GL component type and its size in bytes.
func vertexFormat(t shader.DataType) (gl.Enum, int, error) {
	switch t {
	case shader.DataTypeFloat:
		return gl.FLOAT, 4, nil
	default:
		return 0, 0, fmt.Errorf("gpu: unsupported vertex input type %v", t)
	}
}
