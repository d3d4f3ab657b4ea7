package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Image converts the framebuffer to an 8-bit RGBA image
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			c := fb.RGBAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// WritePNG encodes the framebuffer as PNG
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, fb.Image())
}

// SavePNG writes the framebuffer to path
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fb.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
