// SPDX-License-Identifier: Unlicense OR MIT

package gl

import "syscall/js"

type (
	Buffer      js.Value
	Program     js.Value
	Shader      js.Value
	VertexArray js.Value
)

func (b Buffer) Valid() bool {
	return !js.Value(b).IsUndefined() && !js.Value(b).IsNull()
}

func (p Program) Valid() bool {
	return !js.Value(p).IsUndefined() && !js.Value(p).IsNull()
}

func (s Shader) Valid() bool {
	return !js.Value(s).IsUndefined() && !js.Value(s).IsNull()
}

func (a VertexArray) Valid() bool {
	return !js.Value(a).IsUndefined() && !js.Value(a).IsNull()
}
