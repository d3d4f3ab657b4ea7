package render

import (
	"testing"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

func pointCloud(points ...[6]float32) *galaxy.Cloud {
	c := &galaxy.Cloud{Count: len(points)}
	for _, p := range points {
		c.Positions = append(c.Positions, p[0], p[1], p[2])
		c.Colors = append(c.Colors, p[3], p[4], p[5])
	}
	return c
}

func fixedHints(size float64, additive, depth bool) galaxy.RenderHints {
	return galaxy.RenderHints{PointSize: size, AdditiveBlending: additive, DepthWrite: depth}
}

func TestRasterizerOriginLandsAtCenter(t *testing.T) {
	fb := NewFramebuffer(40, 40)
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer

	drawn := r.Draw(fb, pointCloud([6]float32{0, 0, 0, 1, 1, 1}), fixedHints(3, true, false), cam, 0)
	if drawn != 1 {
		t.Fatalf("drawn = %d, want 1", drawn)
	}
	if got := fb.RGBAt(20, 20); got != (RGB{255, 255, 255}) {
		t.Errorf("center pixel = %v, want white", got)
	}
	if got := fb.RGBAt(0, 0); got != RGBBlack {
		t.Errorf("corner pixel = %v, want black", got)
	}
}

func TestRasterizerCullsBehindCamera(t *testing.T) {
	fb := NewFramebuffer(40, 40)
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer

	behind := DefaultEye.Mul(2)
	cloud := pointCloud([6]float32{behind.X(), behind.Y(), behind.Z(), 1, 1, 1})
	if drawn := r.Draw(fb, cloud, fixedHints(3, true, false), cam, 0); drawn != 0 {
		t.Errorf("drawn = %d for a point behind the camera, want 0", drawn)
	}
}

func TestRasterizerSkipsReleasedCloud(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer

	cloud := pointCloud([6]float32{0, 0, 0, 1, 1, 1})
	cloud.Release()
	if drawn := r.Draw(fb, cloud, fixedHints(3, true, false), cam, 0); drawn != 0 {
		t.Errorf("drawn = %d from a released cloud", drawn)
	}
	if drawn := r.Draw(NewFramebuffer(0, 0), pointCloud([6]float32{}), fixedHints(1, true, false), cam, 0); drawn != 0 {
		t.Errorf("drawn = %d into an empty framebuffer", drawn)
	}
}

func TestRasterizerAdditiveAccumulates(t *testing.T) {
	cam := NewCamera(DefaultEye, 30)
	r := Rasterizer{Exposure: 0.25}

	fb := NewFramebuffer(40, 40)
	one := pointCloud([6]float32{0, 0, 0, 1, 0, 0})
	r.Draw(fb, one, fixedHints(3, true, false), cam, 0)
	single, _, _ := fb.At(20, 20)

	fb.Clear()
	two := pointCloud([6]float32{0, 0, 0, 1, 0, 0}, [6]float32{0, 0, 0, 1, 0, 0})
	r.Draw(fb, two, fixedHints(3, true, false), cam, 0)
	double, _, _ := fb.At(20, 20)

	if single != 0.25 || double != 0.5 {
		t.Errorf("red = %v then %v, want 0.25 then 0.5", single, double)
	}
}

func TestRasterizerDepthWriteKeepsNearest(t *testing.T) {
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer

	// Both points sit on the view axis; the near one is drawn last in one
	// order and first in the other
	near := DefaultEye.Mul(0.5)
	nearPt := [6]float32{near.X(), near.Y(), near.Z(), 0, 0, 1}
	farPt := [6]float32{0, 0, 0, 1, 0, 0}

	for _, order := range [][2][6]float32{{nearPt, farPt}, {farPt, nearPt}} {
		fb := NewFramebuffer(40, 40)
		r.Draw(fb, pointCloud(order[0], order[1]), fixedHints(3, false, true), cam, 0)
		if got := fb.RGBAt(20, 20); got != (RGB{0, 0, 255}) {
			t.Errorf("center = %v, want the nearer blue point", got)
		}
	}
}

func TestRasterizerSizeAttenuationShrinksWithDistance(t *testing.T) {
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer
	hints := galaxy.RenderHints{PointSize: 0.02, SizeAttenuation: true, AdditiveBlending: true}

	fb := NewFramebuffer(40, 40)
	r.Draw(fb, pointCloud([6]float32{0, 0, 0, 1, 1, 1}), hints, cam, 0)
	nearSum := sumRed(fb)

	cam.Zoom(4)
	cam.Snap()
	fb.Clear()
	r.Draw(fb, pointCloud([6]float32{0, 0, 0, 1, 1, 1}), hints, cam, 0)
	farSum := sumRed(fb)

	if !(nearSum > farSum && farSum > 0) {
		t.Errorf("energy near %v far %v, want near > far > 0", nearSum, farSum)
	}
}

func TestRasterizerRotationMovesPoint(t *testing.T) {
	cam := NewCamera(DefaultEye, 30)
	var r Rasterizer
	cloud := pointCloud([6]float32{2, 0, 0, 1, 1, 1})

	a := NewFramebuffer(40, 40)
	b := NewFramebuffer(40, 40)
	r.Draw(a, cloud, fixedHints(2, true, false), cam, 0)
	r.Draw(b, cloud, fixedHints(2, true, false), cam, 1)

	if brightest(a) == brightest(b) {
		t.Error("rotation did not move the point")
	}
}

func sumRed(fb *Framebuffer) float32 {
	var s float32
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			r, _, _ := fb.At(x, y)
			s += r
		}
	}
	return s
}

func brightest(fb *Framebuffer) [2]int {
	var at [2]int
	var best float32
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if r, _, _ := fb.At(x, y); r > best {
				best, at = r, [2]int{x, y}
			}
		}
	}
	return at
}
