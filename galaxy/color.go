package galaxy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/crazy3lf/colorconv"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a normalized RGB triple, each channel in [0,1]
type Color struct {
	R, G, B float64
}

// Hex renders the color as #rrggbb
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func (c Color) valid() bool {
	return unit(c.R) && unit(c.G) && unit(c.B)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// ParseColor accepts #rgb, #rrggbb, 0xrrggbb, rgb(r,g,b) with 0-255 channels,
// hsl(h,s%,l%) and CSS named colors
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return Color{}, fmt.Errorf("empty color")
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "0x"):
		return parseHex("#" + v[2:])
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGBFunc(v[4 : len(v)-1])
	case strings.HasPrefix(v, "hsl(") && strings.HasSuffix(v, ")"):
		return parseHSLFunc(v[4 : len(v)-1])
	}

	if named, ok := colornames.Map[v]; ok {
		return Color{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
		}, nil
	}
	return Color{}, fmt.Errorf("unrecognized color %q", s)
}

func parseHex(v string) (Color, error) {
	c, err := colorful.Hex(v)
	if err != nil {
		return Color{}, fmt.Errorf("hex color %q: %w", v, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

func parseRGBFunc(args string) (Color, error) {
	v, err := parseTriple(args)
	if err != nil {
		return Color{}, fmt.Errorf("rgb(%s): %w", args, err)
	}
	for _, ch := range v {
		if ch < 0 || ch > 255 {
			return Color{}, fmt.Errorf("rgb(%s): channel %g outside 0-255", args, ch)
		}
	}
	return Color{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}, nil
}

func parseHSLFunc(args string) (Color, error) {
	v, err := parseTriple(args)
	if err != nil {
		return Color{}, fmt.Errorf("hsl(%s): %w", args, err)
	}
	h := math.Mod(v[0], 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSLToRGB(h, v[1]/100, v[2]/100)
	if err != nil {
		return Color{}, fmt.Errorf("hsl(%s): %w", args, err)
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// parseTriple reads three comma separated numbers, tolerating % suffixes
func parseTriple(args string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	for i, p := range parts {
		p = strings.TrimSuffix(strings.TrimSpace(p), "%")
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}

// MixColor linearly interpolates a toward b, t clamped to [0,1]
// Exact at both ends: t=0 yields a, t=1 yields b
func MixColor(a, b Color, t float64) Color {
	if !(t > 0) {
		return a
	}
	if t >= 1 {
		return b
	}
	inv := 1 - t
	return Color{
		R: a.R*inv + b.R*t,
		G: a.G*inv + b.G*t,
		B: a.B*inv + b.B*t,
	}
}
