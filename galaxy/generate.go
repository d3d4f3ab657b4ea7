package galaxy

import (
	"math"
	"sync/atomic"
)

// Source supplies uniform samples in [0,1)
// Satisfied by *math/rand/v2.Rand and *vmath.FastRand
type Source interface {
	Float64() float64
}

// Cloud is one generated point cloud
// Positions and Colors are flat xyz/rgb triples, 3*Count entries each
type Cloud struct {
	Positions []float32
	Colors    []float32
	Count     int

	released atomic.Bool
}

// Release drops the backing buffers; safe to call more than once
// Callers must detach the cloud from any sink first
func (c *Cloud) Release() {
	if c.released.Swap(true) {
		return
	}
	c.Positions = nil
	c.Colors = nil
}

// Released reports whether Release has run
func (c *Cloud) Released() bool {
	return c.released.Load()
}

// BranchAngle returns the arm angle of point i: (i mod branches) / branches * 2π
func BranchAngle(i, branches int) float64 {
	return float64(i%branches) / float64(branches) * 2 * math.Pi
}

// Jitter draws one axis offset: u^power with a random sign, u in [0,1)
// Higher power pulls magnitudes toward zero
func Jitter(src Source, power float64) float64 {
	v := math.Pow(src.Float64(), power)
	if src.Float64() < 0.5 {
		return v
	}
	return -v
}

// Build runs the generation kernel
// Only the shape the math needs is checked; range validation belongs to Params
func Build(p Params, src Source) (*Cloud, error) {
	if err := checkShape(p); err != nil {
		return nil, err
	}

	n := p.Count
	cloud := &Cloud{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
		Count:     n,
	}
	pos, col := cloud.Positions, cloud.Colors

	for i := 0; i < n; i++ {
		i3 := i * 3

		r := src.Float64() * p.Radius
		angle := BranchAngle(i, p.Branches) + r*p.Spin

		jx := Jitter(src, p.RandomnessPower)
		jy := Jitter(src, p.RandomnessPower)
		jz := Jitter(src, p.RandomnessPower)

		pos[i3] = float32(math.Cos(angle)*r + jx)
		pos[i3+1] = float32(jy)
		pos[i3+2] = float32(math.Sin(angle)*r + jz)

		mixed := MixColor(p.InsideColor, p.OutsideColor, r/p.Radius)
		col[i3] = unitF32(mixed.R)
		col[i3+1] = unitF32(mixed.G)
		col[i3+2] = unitF32(mixed.B)
	}

	return cloud, nil
}

func checkShape(p Params) error {
	switch {
	case p.Count < 1:
		return rangeError(FieldCount, p.Count, ">= 1")
	case p.Branches < 1:
		return rangeError(FieldBranches, p.Branches, ">= 1")
	case !(p.Radius > 0) || math.IsInf(p.Radius, 0):
		return rangeError(FieldRadius, p.Radius, "finite and > 0")
	case math.IsNaN(p.Spin) || math.IsInf(p.Spin, 0):
		return rangeError(FieldSpin, p.Spin, "finite")
	case math.IsNaN(p.RandomnessPower) || math.IsInf(p.RandomnessPower, 0):
		return rangeError(FieldRandomnessPower, p.RandomnessPower, "finite")
	}
	if err := checkColor(FieldInsideColor, p.InsideColor); err != nil {
		return err
	}
	return checkColor(FieldOutsideColor, p.OutsideColor)
}

// unitF32 narrows to float32, absorbing rounding past the unit interval
func unitF32(v float64) float32 {
	f := float32(v)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
