package main

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/vmath"
)

// field is one editable parameter on the panel
// step is the fine increment; coarse is used with shift
type field struct {
	name   string
	step   float64
	coarse float64
	lo, hi float64

	get func(galaxy.Params) float64
	set func(galaxy.Params, float64) (galaxy.Params, error)
	fmt string
}

// hueStep is the fine color increment in degrees
const hueStep = 15.0

var fields = []field{
	{
		name: galaxy.FieldCount, step: 100, coarse: 10000,
		lo: galaxy.MinCount, hi: galaxy.MaxCount,
		get: func(p galaxy.Params) float64 { return float64(p.Count) },
		set: func(p galaxy.Params, v float64) (galaxy.Params, error) { return p.WithCount(int(math.Round(v))) },
		fmt: "%.0f",
	},
	{
		name: galaxy.FieldParticleSize, step: 0.001, coarse: 0.01,
		lo: galaxy.MinParticleSize, hi: galaxy.MaxParticleSize,
		get: func(p galaxy.Params) float64 { return p.ParticleSize },
		set: galaxy.Params.WithParticleSize,
		fmt: "%.3f",
	},
	{
		name: galaxy.FieldRadius, step: 0.01, coarse: 1,
		lo: 0.01, hi: galaxy.MaxRadius,
		get: func(p galaxy.Params) float64 { return p.Radius },
		set: galaxy.Params.WithRadius,
		fmt: "%.2f",
	},
	{
		name: galaxy.FieldBranches, step: 1, coarse: 5,
		lo: galaxy.MinBranches, hi: galaxy.MaxBranches,
		get: func(p galaxy.Params) float64 { return float64(p.Branches) },
		set: func(p galaxy.Params, v float64) (galaxy.Params, error) { return p.WithBranches(int(math.Round(v))) },
		fmt: "%.0f",
	},
	{
		name: galaxy.FieldSpin, step: 0.001, coarse: 0.1,
		lo: galaxy.MinSpin, hi: galaxy.MaxSpin,
		get: func(p galaxy.Params) float64 { return p.Spin },
		set: galaxy.Params.WithSpin,
		fmt: "%.3f",
	},
	{
		name: galaxy.FieldRandomness, step: 0.001, coarse: 0.1,
		lo: galaxy.MinRandomness, hi: galaxy.MaxRandomness,
		get: func(p galaxy.Params) float64 { return p.Randomness },
		set: galaxy.Params.WithRandomness,
		fmt: "%.3f",
	},
	{
		name: galaxy.FieldRandomnessPower, step: 0.001, coarse: 0.1,
		lo: galaxy.MinRandomnessPower, hi: galaxy.MaxRandomnessPower,
		get: func(p galaxy.Params) float64 { return p.RandomnessPower },
		set: galaxy.Params.WithRandomnessPower,
		fmt: "%.3f",
	},
	{
		name: galaxy.FieldInsideColor, step: hueStep, coarse: 4 * hueStep,
		set: func(p galaxy.Params, deg float64) (galaxy.Params, error) {
			return p.WithInsideRGB(shiftHue(p.InsideColor, deg))
		},
	},
	{
		name: galaxy.FieldOutsideColor, step: hueStep, coarse: 4 * hueStep,
		set: func(p galaxy.Params, deg float64) (galaxy.Params, error) {
			return p.WithOutsideRGB(shiftHue(p.OutsideColor, deg))
		},
	},
}

func (f field) isColor() bool { return f.get == nil }

// nudge moves the field by dir steps, clamped to its range and snapped to the
// fine step so repeated presses do not accumulate float drift
func (f field) nudge(p galaxy.Params, dir int, coarse bool) (galaxy.Params, error) {
	delta := f.step
	if coarse {
		delta = f.coarse
	}
	delta *= float64(dir)

	if f.isColor() {
		return f.set(p, delta)
	}
	v := vmath.Round(f.get(p)+delta, f.step)
	return f.set(p, vmath.Clamp(v, f.lo, f.hi))
}

// value formats the field's current value for the HUD
func (f field) value(p galaxy.Params) string {
	switch f.name {
	case galaxy.FieldInsideColor:
		return p.InsideColor.Hex()
	case galaxy.FieldOutsideColor:
		return p.OutsideColor.Hex()
	}
	return fmt.Sprintf(f.fmt, f.get(p))
}

// shiftHue rotates c around the HSV hue circle by deg degrees
func shiftHue(c galaxy.Color, deg float64) galaxy.Color {
	h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	out := colorful.Hsv(h, s, v).Clamped()
	return galaxy.Color{R: out.R, G: out.G, B: out.B}
}
