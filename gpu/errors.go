// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrContextUnavailable is returned by New when the surface cannot
	// provide an OpenGL ES 3.0 or WebGL 2 context.
	ErrContextUnavailable = errors.New("gpu: graphics context unavailable")
	// ErrResourceAllocation is returned when the driver fails to
	// allocate a buffer, shader or program object.
	ErrResourceAllocation = errors.New("gpu: resource allocation failed")
	// ErrInternal is returned when the built-in vertex stage fails to
	// compile, which means the driver does not accept GLSL ES 3.00.
	ErrInternal = errors.New("gpu: internal error")
	// ErrReleased is returned by operations on a released Renderer.
	ErrReleased = errors.New("gpu: renderer released")
)

// CompileError describes a shader stage that failed to compile.
type CompileError struct {
	Kind StageKind
	// Log is the raw driver info log.
	Log string
	// Source is the stage source with each line prefixed by its
	// 1-based line number.
	Source string
	// Lines lists the source lines the driver log points at, if the
	// log format is recognized.
	Lines []int
}

// LinkError describes a program that failed to link.
type LinkError struct {
	// Log is the raw driver info log.
	Log string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: %s shader compilation failed: %s", e.Kind, strings.TrimSpace(e.Log))
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gpu: program link failed: %s", strings.TrimSpace(e.Log))
}

// annotateSource prefixes every line of src with its 1-based number.
func annotateSource(src string) string {
	lines := strings.Split(src, "\n")
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(l)
	}
	return b.String()
}

// logLinePatterns match the line references of the common GLSL
// compilers: "ERROR: 0:12: ..." (ANGLE, WebGL), "0:12(5): error" (Mesa)
// and "0(12) : error" (NVIDIA).
var logLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(?:ERROR|WARNING|error|warning):\s*\d+:(\d+):`),
	regexp.MustCompile(`(?m)^\s*\d+:(\d+)\(\d+\):\s*(?:error|warning)`),
	regexp.MustCompile(`(?m)^\s*\d+\((\d+)\)\s*:\s*(?:error|warning)`),
}

// logLines extracts the distinct source line numbers referenced by a
// driver info log, in order of appearance.
func logLines(log string) []int {
	var lines []int
	seen := make(map[int]bool)
	for _, re := range logLinePatterns {
		for _, m := range re.FindAllStringSubmatch(log, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 || seen[n] {
				continue
			}
			seen[n] = true
			lines = append(lines, n)
		}
	}
	return lines
}
