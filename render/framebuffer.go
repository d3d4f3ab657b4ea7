package render

import "math"

// Framebuffer accumulates linear float RGB per pixel with an optional depth plane
// Pixels are square; the terminal presenter packs two rows per cell
type Framebuffer struct {
	color  []float32 // 3 per pixel
	depth  []float32
	width  int
	height int
}

func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize adjusts dimensions, reallocating only when capacity is insufficient
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(fb.depth) < size {
		fb.color = make([]float32, size*3)
		fb.depth = make([]float32, size)
	} else {
		fb.color = fb.color[:size*3]
		fb.depth = fb.depth[:size]
	}
	fb.width = width
	fb.height = height
	fb.Clear()
}

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

// Clear zeroes color and resets depth to infinity
func (fb *Framebuffer) Clear() {
	clear(fb.color)
	if len(fb.depth) == 0 {
		return
	}
	fb.depth[0] = float32(math.Inf(1))
	for filled := 1; filled < len(fb.depth); filled *= 2 {
		copy(fb.depth[filled:], fb.depth[:filled])
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.width && y >= 0 && y < fb.height
}

// Add accumulates weighted color at (x, y)
func (fb *Framebuffer) Add(x, y int, r, g, b, weight float32) {
	if !fb.inBounds(x, y) {
		return
	}
	i := (y*fb.width + x) * 3
	fb.color[i] += r * weight
	fb.color[i+1] += g * weight
	fb.color[i+2] += b * weight
}

// Over alpha-composites color at (x, y); with depthTest the write happens only
// when depth is nearer than the stored value, which it then replaces
func (fb *Framebuffer) Over(x, y int, r, g, b, alpha, depth float32, depthTest bool) {
	if !fb.inBounds(x, y) {
		return
	}
	p := y*fb.width + x
	if depthTest {
		if depth >= fb.depth[p] {
			return
		}
		fb.depth[p] = depth
	}
	alpha = min(max(alpha, 0), 1)
	inv := 1 - alpha
	i := p * 3
	fb.color[i] = fb.color[i]*inv + r*alpha
	fb.color[i+1] = fb.color[i+1]*inv + g*alpha
	fb.color[i+2] = fb.color[i+2]*inv + b*alpha
}

// At returns the accumulated linear color
func (fb *Framebuffer) At(x, y int) (r, g, b float32) {
	if !fb.inBounds(x, y) {
		return 0, 0, 0
	}
	i := (y*fb.width + x) * 3
	return fb.color[i], fb.color[i+1], fb.color[i+2]
}

// RGBAt returns the saturated 8-bit color
func (fb *Framebuffer) RGBAt(x, y int) RGB {
	return FromUnit(fb.At(x, y))
}
