// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// ProgramStatus is the link status of a Program.
type ProgramStatus uint8

const (
	StatusFailed ProgramStatus = iota
	StatusLinked
)

// Program is a linked vertex and fragment stage pair. It owns both
// stages.
type Program struct {
	funcs    gl.Functions
	obj      gl.Program
	vertex   *Stage
	fragment *Stage
	status   ProgramStatus
}

func (s ProgramStatus) String() string {
	switch s {
	case StatusLinked:
		return "linked"
	default:
		return "failed"
	}
}

// linkProgram links vs and fs into a new program, binding attribs to
// their index. The stages are consumed: on success they belong to the
// program, on failure they are deleted along with the program object.
func linkProgram(f gl.Functions, vs, fs *Stage, attribs []string) (*Program, error) {
	prog := f.CreateProgram()
	if !prog.Valid() {
		vs.release()
		fs.release()
		return nil, fmt.Errorf("%w: glCreateProgram failed", ErrResourceAllocation)
	}
	f.AttachShader(prog, vs.obj)
	f.AttachShader(prog, fs.obj)
	for i, a := range attribs {
		f.BindAttribLocation(prog, gl.Attrib(i), a)
	}
	f.LinkProgram(prog)
	if f.GetProgrami(prog, gl.LINK_STATUS) == 0 {
		log := f.GetProgramInfoLog(prog)
		f.DeleteProgram(prog)
		vs.release()
		fs.release()
		return nil, &LinkError{Log: log}
	}
	return &Program{
		funcs:    f,
		obj:      prog,
		vertex:   vs,
		fragment: fs,
		status:   StatusLinked,
	}, nil
}

// Status reports whether the program linked.
func (p *Program) Status() ProgramStatus {
	return p.status
}

// FragmentSource returns the source text of the fragment stage.
func (p *Program) FragmentSource() string {
	return p.fragment.Source
}

func (p *Program) use() {
	p.funcs.UseProgram(p.obj)
}

// release deletes the program and its stages.
func (p *Program) release() {
	if p.obj.Valid() {
		p.funcs.DeleteProgram(p.obj)
		p.obj = gl.Program{}
	}
	p.vertex.release()
	p.fragment.release()
}

func (p *Program) released() bool {
	return !p.obj.Valid()
}
