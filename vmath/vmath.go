package vmath

import "math"

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates a toward b by t without clamping
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// WrapAngle maps an angle into [-π, π)
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Round snaps v to the nearest multiple of step, trimming float noise from
// repeated increments; step <= 0 returns v
func Round(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
