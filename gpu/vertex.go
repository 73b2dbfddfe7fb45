// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"gioui.org/shader"
)

// vertexShader is the fixed vertex stage. It passes the quad position
// through unchanged and forwards it to the fragment stage as
// v_position.
var vertexShader = struct {
	Name   string
	GLSL   string
	Inputs []shader.InputLocation
}{
	Name: "quad.vert",
	GLSL: `#version 300 es

in vec2 a_position;

out vec2 v_position;

void main() {
	gl_Position = vec4(a_position, 0.0, 1.0);
	v_position = a_position;
}
`,
	Inputs: []shader.InputLocation{
		{Name: "a_position", Location: 0, Type: shader.DataTypeFloat, Size: 2},
	},
}

// attribNames returns the attribute names of inputs indexed by
// location, for binding before link.
func attribNames(inputs []shader.InputLocation) []string {
	attrs := make([]string, len(inputs))
	for _, inp := range inputs {
		attrs[inp.Location] = inp.Name
	}
	return attrs
}
