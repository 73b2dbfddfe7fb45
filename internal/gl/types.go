// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package gl

type (
	Buffer      struct{ V uint }
	Program     struct{ V uint }
	Shader      struct{ V uint }
	VertexArray struct{ V uint }
)

func (b Buffer) Valid() bool {
	return b.V != 0
}

func (p Program) Valid() bool {
	return p.V != 0
}

func (s Shader) Valid() bool {
	return s.V != 0
}

func (a VertexArray) Valid() bool {
	return a.V != 0
}
