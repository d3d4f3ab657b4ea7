package render

// RGB is an 8-bit per channel color
type RGB struct {
	R, G, B uint8
}

var RGBBlack = RGB{0, 0, 0}

// clamp converts float to uint8 with saturation
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// FromUnit maps [0,1] channels to RGB, saturating outside the range
func FromUnit(r, g, b float32) RGB {
	return RGB{
		R: clamp(float64(r)*255 + 0.5),
		G: clamp(float64(g)*255 + 0.5),
		B: clamp(float64(b)*255 + 0.5),
	}
}

// Scale multiplies all channels by factor, saturating
func Scale(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}
