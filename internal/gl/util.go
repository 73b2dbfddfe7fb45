// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
	"unsafe"
)

// ParseGLVersion parses the VERSION string of an OpenGL, OpenGL ES or
// WebGL context. WebGL versions are reported as their OpenGL ES
// equivalents. The second result reports whether the context is an ES
// (or WebGL) context.
func ParseGLVersion(glVer string) ([2]int, bool, error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return ver, true, nil
	} else if _, err := fmt.Sscanf(glVer, "WebGL %d.%d", &ver[0], &ver[1]); err == nil {
		// WebGL major version v corresponds to OpenGL ES version v + 1
		ver[0]++
		return ver, true, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return ver, false, nil
	}
	return ver, false, fmt.Errorf("failed to parse OpenGL ES version (%s)", glVer)
}

// SupportsES3 reports whether a context with the given VERSION string
// accepts "#version 300 es" shaders.
func SupportsES3(glVer string) (bool, error) {
	ver, es, err := ParseGLVersion(glVer)
	if err != nil {
		return false, err
	}
	if es {
		return ver[0] >= 3, nil
	}
	// Desktop OpenGL 4.3 includes ARB_ES3_compatibility.
	return ver[0] > 4 || ver[0] == 4 && ver[1] >= 3, nil
}

// BytesView returns a byte slice view of a float32 slice.
func BytesView(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}
