// SPDX-License-Identifier: Unlicense OR MIT

//go:build !js
// +build !js

package headless

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// glfwContext is an OpenGL ES 3.0 context of a hidden glfw window.
type glfwContext struct {
	win *glfw.Window
}

var glfwState struct {
	mu   sync.Mutex
	refs int
}

func newContext(width, height int) (context, error) {
	glfwState.mu.Lock()
	defer glfwState.mu.Unlock()
	if glfwState.refs == 0 {
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("headless: glfw: %w", err)
		}
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	win, err := glfw.CreateWindow(width, height, "shaderpad", nil, nil)
	if err != nil {
		if glfwState.refs == 0 {
			glfw.Terminate()
		}
		return nil, fmt.Errorf("headless: glfw: %w", err)
	}
	glfwState.refs++
	return &glfwContext{win: win}, nil
}

func (c *glfwContext) Functions() (gl.Functions, error) {
	return gl.NewFunctions()
}

func (c *glfwContext) MakeCurrent() error {
	c.win.MakeContextCurrent()
	return nil
}

func (c *glfwContext) ReleaseCurrent() {
	glfw.DetachCurrentContext()
}

func (c *glfwContext) Release() {
	glfwState.mu.Lock()
	defer glfwState.mu.Unlock()
	c.win.Destroy()
	glfwState.refs--
	if glfwState.refs == 0 {
		glfw.Terminate()
	}
}
