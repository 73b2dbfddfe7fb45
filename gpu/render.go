// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
	"image"

	"github.com/shaderpad/shaderpad/internal/gl"
)

// Render draws the quad with the active program. It does nothing
// until a program has been installed.
func (r *Renderer) Render() {
	if r.released {
		Logger().Warn("gpu: Render called on released renderer")
		return
	}
	p, ok := r.slot.active()
	if !ok {
		return
	}
	sz := r.surface.Size()
	f := r.funcs
	f.Viewport(0, 0, sz.X, sz.Y)
	f.ClearColor(0, 0, 0, 1)
	f.Clear(gl.COLOR_BUFFER_BIT)
	p.use()
	r.quad.bind()
	r.quad.draw()
}

// Screenshot reads back the surface content. The image origin is the
// top left corner.
func (r *Renderer) Screenshot() (*image.RGBA, error) {
	if r.released {
		Logger().Warn("gpu: Screenshot called on released renderer")
		return nil, ErrReleased
	}
	sz := r.surface.Size()
	img := image.NewRGBA(image.Rectangle{Max: sz})
	if sz.X == 0 || sz.Y == 0 {
		return img, nil
	}
	r.funcs.ReadPixels(0, 0, sz.X, sz.Y, gl.RGBA, gl.UNSIGNED_BYTE, img.Pix)
	if glErr := r.funcs.GetError(); glErr != gl.NO_ERROR {
		return nil, fmt.Errorf("gpu: glReadPixels failed: 0x%x", glErr)
	}
	// OpenGL origin is in the lower-left corner. Flip the image to
	// match.
	flipImageY(img.Stride, sz.Y, img.Pix)
	return img, nil
}

func flipImageY(stride, height int, pixels []byte) {
	row := make([]uint8, stride)
	for y := 0; y < height/2; y++ {
		y1 := height - y - 1
		dest := y1 * stride
		src := y * stride
		copy(row, pixels[dest:])
		copy(pixels[dest:], pixels[src:src+len(row)])
		copy(pixels[src:], row)
	}
}
