// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// StageKind identifies a programmable pipeline stage.
type StageKind uint8

const (
	VertexStage StageKind = iota
	FragmentStage
)

// Stage is a compiled shader stage. Stages are owned by the Program
// they are linked into.
type Stage struct {
	Kind   StageKind
	Source string

	funcs gl.Functions
	obj   gl.Shader
}

func (k StageKind) String() string {
	switch k {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return fmt.Sprintf("StageKind(%d)", uint8(k))
	}
}

func (k StageKind) glType() gl.Enum {
	if k == VertexStage {
		return gl.VERTEX_SHADER
	}
	return gl.FRAGMENT_SHADER
}

// compileStage compiles src as a stage of the given kind. On failure
// the shader object is deleted and a *CompileError is returned.
func compileStage(f gl.Functions, kind StageKind, src string) (*Stage, error) {
	sh := f.CreateShader(kind.glType())
	if !sh.Valid() {
		return nil, fmt.Errorf("%w: glCreateShader failed", ErrResourceAllocation)
	}
	f.ShaderSource(sh, src)
	f.CompileShader(sh)
	if f.GetShaderi(sh, gl.COMPILE_STATUS) == 0 {
		log := f.GetShaderInfoLog(sh)
		f.DeleteShader(sh)
		return nil, &CompileError{
			Kind:   kind,
			Log:    log,
			Source: annotateSource(src),
			Lines:  logLines(log),
		}
	}
	return &Stage{Kind: kind, Source: src, funcs: f, obj: sh}, nil
}

// release deletes the shader object. It is safe to call more than
// once.
func (s *Stage) release() {
	if !s.obj.Valid() {
		return
	}
	s.funcs.DeleteShader(s.obj)
	s.obj = gl.Shader{}
}
