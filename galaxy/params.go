package galaxy

import (
	"fmt"
	"math"
)

// Parameter bounds
const (
	MinCount = 1000
	MaxCount = 1_000_000

	MinParticleSize = 0.001
	MaxParticleSize = 0.1

	MaxRadius = 20.0 // lower bound is exclusive zero

	MinBranches = 2
	MaxBranches = 20

	MinSpin = -5.0
	MaxSpin = 5.0

	MinRandomness = 0.0
	MaxRandomness = 2.0

	MinRandomnessPower = 1.0
	MaxRandomnessPower = 10.0
)

// Field names used in ConfigurationError and config files
const (
	FieldCount           = "count"
	FieldParticleSize    = "particleSize"
	FieldRadius          = "radius"
	FieldBranches        = "branches"
	FieldSpin            = "spin"
	FieldRandomness      = "randomness"
	FieldRandomnessPower = "randomnessPower"
	FieldInsideColor     = "insideColor"
	FieldOutsideColor    = "outsideColor"
)

// Params is one generation's configuration, passed by value
// Randomness is validated and carried but does not scale jitter
type Params struct {
	Count           int
	ParticleSize    float64
	Radius          float64
	Branches        int
	Spin            float64
	Randomness      float64
	RandomnessPower float64
	InsideColor     Color
	OutsideColor    Color
}

// DefaultParams returns the stock galaxy
func DefaultParams() Params {
	return Params{
		Count:           70000,
		ParticleSize:    0.02,
		Radius:          5,
		Branches:        5,
		Spin:            1,
		Randomness:      0.02,
		RandomnessPower: 3.615,
		InsideColor:     Color{R: 1, G: 0x60 / 255.0, B: 0x30 / 255.0},
		OutsideColor:    Color{R: 0x1b / 255.0, G: 0x39 / 255.0, B: 0x84 / 255.0},
	}
}

// Validate returns the first violated bound as *ConfigurationError
func (p Params) Validate() error {
	checks := []error{
		checkCount(p.Count),
		checkFloat(FieldParticleSize, p.ParticleSize, MinParticleSize, MaxParticleSize),
		checkRadius(p.Radius),
		checkBranches(p.Branches),
		checkFloat(FieldSpin, p.Spin, MinSpin, MaxSpin),
		checkFloat(FieldRandomness, p.Randomness, MinRandomness, MaxRandomness),
		checkFloat(FieldRandomnessPower, p.RandomnessPower, MinRandomnessPower, MaxRandomnessPower),
		checkColor(FieldInsideColor, p.InsideColor),
		checkColor(FieldOutsideColor, p.OutsideColor),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// String is a compact single-line summary for logs and the HUD
func (p Params) String() string {
	return fmt.Sprintf("count=%d size=%.3f radius=%.2f branches=%d spin=%.3f rnd=%.3f pow=%.3f in=%s out=%s",
		p.Count, p.ParticleSize, p.Radius, p.Branches, p.Spin, p.Randomness, p.RandomnessPower,
		p.InsideColor.Hex(), p.OutsideColor.Hex())
}

// BufferBytes is the size of the position and color buffers for this params
func (p Params) BufferBytes() int64 {
	return int64(p.Count) * 3 * 2 * 4
}

// --- Per-field entry points ---
// Each returns a modified copy, or the receiver unchanged plus the error

func (p Params) WithCount(n int) (Params, error) {
	if err := checkCount(n); err != nil {
		return p, err
	}
	p.Count = n
	return p, nil
}

func (p Params) WithParticleSize(v float64) (Params, error) {
	if err := checkFloat(FieldParticleSize, v, MinParticleSize, MaxParticleSize); err != nil {
		return p, err
	}
	p.ParticleSize = v
	return p, nil
}

func (p Params) WithRadius(v float64) (Params, error) {
	if err := checkRadius(v); err != nil {
		return p, err
	}
	p.Radius = v
	return p, nil
}

func (p Params) WithBranches(n int) (Params, error) {
	if err := checkBranches(n); err != nil {
		return p, err
	}
	p.Branches = n
	return p, nil
}

func (p Params) WithSpin(v float64) (Params, error) {
	if err := checkFloat(FieldSpin, v, MinSpin, MaxSpin); err != nil {
		return p, err
	}
	p.Spin = v
	return p, nil
}

func (p Params) WithRandomness(v float64) (Params, error) {
	if err := checkFloat(FieldRandomness, v, MinRandomness, MaxRandomness); err != nil {
		return p, err
	}
	p.Randomness = v
	return p, nil
}

func (p Params) WithRandomnessPower(v float64) (Params, error) {
	if err := checkFloat(FieldRandomnessPower, v, MinRandomnessPower, MaxRandomnessPower); err != nil {
		return p, err
	}
	p.RandomnessPower = v
	return p, nil
}

// WithInsideColor parses text with ParseColor
func (p Params) WithInsideColor(text string) (Params, error) {
	c, err := ParseColor(text)
	if err != nil {
		return p, &ConfigurationError{Field: FieldInsideColor, Value: text, Bound: "a parseable color", Err: err}
	}
	return p.WithInsideRGB(c)
}

// WithOutsideColor parses text with ParseColor
func (p Params) WithOutsideColor(text string) (Params, error) {
	c, err := ParseColor(text)
	if err != nil {
		return p, &ConfigurationError{Field: FieldOutsideColor, Value: text, Bound: "a parseable color", Err: err}
	}
	return p.WithOutsideRGB(c)
}

func (p Params) WithInsideRGB(c Color) (Params, error) {
	if err := checkColor(FieldInsideColor, c); err != nil {
		return p, err
	}
	p.InsideColor = c
	return p, nil
}

func (p Params) WithOutsideRGB(c Color) (Params, error) {
	if err := checkColor(FieldOutsideColor, c); err != nil {
		return p, err
	}
	p.OutsideColor = c
	return p, nil
}

// --- Bound checks ---

func checkCount(n int) error {
	if n < MinCount {
		return rangeError(FieldCount, n, fmt.Sprintf(">= %d", MinCount))
	}
	if n > MaxCount {
		return rangeError(FieldCount, n, fmt.Sprintf("<= %d", MaxCount))
	}
	return nil
}

func checkBranches(n int) error {
	if n < MinBranches {
		return rangeError(FieldBranches, n, fmt.Sprintf(">= %d", MinBranches))
	}
	if n > MaxBranches {
		return rangeError(FieldBranches, n, fmt.Sprintf("<= %d", MaxBranches))
	}
	return nil
}

func checkRadius(v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return rangeError(FieldRadius, v, "> 0")
	}
	if v > MaxRadius {
		return rangeError(FieldRadius, v, fmt.Sprintf("<= %g", MaxRadius))
	}
	return nil
}

// checkFloat enforces a closed interval; NaN fails the lower bound
func checkFloat(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo {
		return rangeError(field, v, fmt.Sprintf(">= %g", lo))
	}
	if v > hi {
		return rangeError(field, v, fmt.Sprintf("<= %g", hi))
	}
	return nil
}

func checkColor(field string, c Color) error {
	if !c.valid() {
		return rangeError(field, c, "channels in [0, 1]")
	}
	return nil
}
