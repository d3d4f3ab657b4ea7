package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

// Rasterizer projects point clouds into a Framebuffer as square splats
type Rasterizer struct {
	// Exposure scales every contribution; additive clouds saturate quickly at
	// terminal resolutions, so values below 1 keep the core from clipping
	Exposure float32
}

// Draw renders cloud through cam with the galaxy yawed by rotation radians
// Returns the number of points that landed inside the view
func (r *Rasterizer) Draw(fb *Framebuffer, cloud *galaxy.Cloud, hints galaxy.RenderHints, cam *Camera, rotation float64) int {
	w, h := fb.Width(), fb.Height()
	if w == 0 || h == 0 || cloud == nil || cloud.Released() {
		return 0
	}

	exposure := r.Exposure
	if exposure <= 0 {
		exposure = 1
	}

	model := mgl32.HomogRotate3DY(float32(rotation))
	m := cam.Projection(float32(w) / float32(h)).Mul4(cam.View()).Mul4(model)

	fw, fh := float32(w), float32(h)
	halfH := fh / 2
	size := float32(hints.PointSize)
	near := cam.Near

	pos, col := cloud.Positions, cloud.Colors
	drawn := 0

	for i := 0; i+2 < len(pos) && i+2 < len(col); i += 3 {
		x, y, z := pos[i], pos[i+1], pos[i+2]

		cw := m[3]*x + m[7]*y + m[11]*z + m[15]
		if cw <= near {
			continue
		}
		inv := 1 / cw
		nz := (m[2]*x + m[6]*y + m[10]*z + m[14]) * inv
		if nz > 1 {
			continue
		}
		nx := (m[0]*x + m[4]*y + m[8]*z + m[12]) * inv
		ny := (m[1]*x + m[5]*y + m[9]*z + m[13]) * inv

		sx := (nx + 1) * 0.5 * fw
		sy := (1 - ny) * 0.5 * fh
		if sx < 0 || sy < 0 || sx >= fw || sy >= fh {
			continue
		}
		drawn++

		sizePx := size
		if hints.SizeAttenuation {
			sizePx = size * halfH * inv
		}

		cr, cg, cb := col[i]*exposure, col[i+1]*exposure, col[i+2]*exposure
		half := sizePx / 2
		if half < 0.5 {
			// Sub-pixel point: weight by covered area
			r.plot(fb, int(sx), int(sy), cr, cg, cb, sizePx*sizePx, nz, hints)
			continue
		}
		x0, x1 := int(sx-half), int(sx+half)
		y0, y1 := int(sy-half), int(sy+half)
		for py := y0; py <= y1; py++ {
			for px := x0; px <= x1; px++ {
				r.plot(fb, px, py, cr, cg, cb, 1, nz, hints)
			}
		}
	}

	return drawn
}

func (r *Rasterizer) plot(fb *Framebuffer, x, y int, cr, cg, cb, weight, depth float32, hints galaxy.RenderHints) {
	if hints.AdditiveBlending {
		fb.Add(x, y, cr, cg, cb, weight)
		return
	}
	fb.Over(x, y, cr, cg, cb, weight, depth, hints.DepthWrite)
}
