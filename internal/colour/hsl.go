package colour

import (
	"fmt"
	"math"
)

// HSL is a colour in the hue/saturation/lightness model.
// H is in [0, 360), S and L are in [0, 1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String returns the HSL value as "hsl(h, s%, l%)".
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%.1f, %.1f%%, %.1f%%)", c.H, c.S*100, c.L*100)
}

// ColourToHSL converts a packed colour to HSL. Alpha is ignored.
func ColourToHSL(c uint32) HSL {
	return RGBToHSL(Red(c), Green(c), Blue(c))
}

// RGBToHSL converts 8-bit RGB components to HSL.
// Results are clamped to their documented ranges, so monochrome colours and
// rounding at the extremes never produce out-of-range values.
func RGBToHSL(r, g, b uint8) HSL {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxVal := math.Max(rf, math.Max(gf, bf))
	minVal := math.Min(rf, math.Min(gf, bf))
	delta := maxVal - minVal

	l := (maxVal + minVal) / 2.0

	var h, s float64
	if maxVal != minVal {
		switch maxVal {
		case rf:
			h = math.Mod((gf-bf)/delta, 6)
		case gf:
			h = (bf-rf)/delta + 2
		default:
			h = (rf-gf)/delta + 4
		}
		s = delta / (1 - math.Abs(2*l-1))
	}

	h = math.Mod(h*60, 360)
	if h < 0 {
		h += 360
	}
	// Mod can still land on 360 after adding a tiny negative value.
	if h >= 360 {
		h = 0
	}

	return HSL{
		H: h,
		S: clamp(s, 0, 1),
		L: clamp(l, 0, 1),
	}
}

// HSLToColour converts HSL to an opaque packed colour.
// Components are rounded to the nearest 8-bit value.
func HSLToColour(hsl HSL) uint32 {
	h := hsl.H
	s := clamp(hsl.S, 0, 1)
	l := clamp(hsl.L, 0, 1)

	c := (1 - math.Abs(2*l-1)) * s
	m := l - 0.5*c
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))

	var r, g, b float64
	switch int(h) / 60 {
	case 0:
		r, g, b = c+m, x+m, m
	case 1:
		r, g, b = x+m, c+m, m
	case 2:
		r, g, b = m, c+m, x+m
	case 3:
		r, g, b = m, x+m, c+m
	case 4:
		r, g, b = x+m, m, c+m
	case 5, 6:
		r, g, b = c+m, m, x+m
	default:
		r, g, b = m, m, m
	}

	return RGB(toByte(r), toByte(g), toByte(b))
}

// toByte scales a [0, 1] component to a rounded, clamped byte.
func toByte(v float64) uint8 {
	return uint8(math.Round(clamp(v*255, 0, 255)))
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
