// SPDX-License-Identifier: Unlicense OR MIT

// Package preamble provides the shared fragment shader prefix and the
// default main function of new panels.
package preamble

import (
	"strings"
)

// Default declares the fragment stage interface: the clip space
// position v_position in [-1, 1] and the output color outColor. It
// also defines the helper functions f and g.
const Default = `#version 300 es
precision mediump float;

// Input from the vertex shader, ranges from -1 to 1.
in vec2 v_position;

// The output color of the fragment.
out vec4 outColor;

vec4 f(in vec4 x) {
  vec4 d = cos(3.14 * 0.707 * x);
  return vec4(d.rgba * d.gbar);
}

vec4 g(in vec4 x) {
  return (x * 7.0);
}
`

// DefaultMain is the main function of a new panel.
const DefaultMain = `
void main() {
  vec4 fourVec = vec4(v_position.xy, v_position.xy);

  outColor = f(g(fourVec)) * 0.5 + 0.5;
  outColor = vec4(outColor.rgb, 1.0);
}
`

// Compose returns the fragment source made of pre followed by main on
// the next line.
func Compose(pre, main string) string {
	return pre + "\n" + main
}

// Lines returns the number of source lines pre occupies in a composed
// source. A diagnostic on line k of the composed source refers to line
// k-Lines(pre) of the main function.
func Lines(pre string) int {
	return strings.Count(pre, "\n") + 1
}
