package colour

import (
	"errors"
	"fmt"
	"math"
)

const (
	// minAlphaSearchMaxIterations bounds the alpha binary search.
	minAlphaSearchMaxIterations = 10
	// minAlphaSearchPrecision is the interval width at which the search stops.
	minAlphaSearchPrecision = 1
)

// ErrTranslucentBackground is returned when a contrast calculation is given a
// background that is not fully opaque.
var ErrTranslucentBackground = errors.New("background can not be translucent")

// XYZ is a colour in the CIE XYZ space (D65 illuminant, 2° observer),
// with components scaled to 0..100.
type XYZ struct {
	X float64
	Y float64
	Z float64
}

// ColourToXYZ converts a packed colour to XYZ. Alpha is ignored.
func ColourToXYZ(c uint32) XYZ {
	return RGBToXYZ(Red(c), Green(c), Blue(c))
}

// RGBToXYZ converts 8-bit sRGB components to XYZ.
func RGBToXYZ(r, g, b uint8) XYZ {
	sr := linearise(float64(r) / 255.0)
	sg := linearise(float64(g) / 255.0)
	sb := linearise(float64(b) / 255.0)

	return XYZ{
		X: 100 * (sr*0.4124 + sg*0.3576 + sb*0.1805),
		Y: 100 * (sr*0.2126 + sg*0.7152 + sb*0.0722),
		Z: 100 * (sr*0.0193 + sg*0.1192 + sb*0.9505),
	}
}

// XYZToColour converts XYZ back to an opaque packed sRGB colour.
func XYZToColour(xyz XYZ) uint32 {
	r := (xyz.X*3.2406 + xyz.Y*-1.5372 + xyz.Z*-0.4986) / 100
	g := (xyz.X*-0.9689 + xyz.Y*1.8758 + xyz.Z*0.0415) / 100
	b := (xyz.X*0.0557 + xyz.Y*-0.2040 + xyz.Z*1.0570) / 100

	return RGB(toByte(delinearise(r)), toByte(delinearise(g)), toByte(delinearise(b)))
}

// linearise applies the inverse sRGB companding curve.
func linearise(v float64) float64 {
	if v < 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// delinearise applies the sRGB companding curve.
func delinearise(v float64) float64 {
	if v > 0.0031308 {
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return 12.92 * v
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(c uint32) float64 {
	return ColourToXYZ(c).Y / 100
}

// Composite draws fg over bg (source-over) and returns the resulting colour.
func Composite(fg, bg uint32) uint32 {
	bgAlpha := int(Alpha(bg))
	fgAlpha := int(Alpha(fg))
	a := compositeAlpha(fgAlpha, bgAlpha)

	r := compositeComponent(int(Red(fg)), fgAlpha, int(Red(bg)), bgAlpha, a)
	g := compositeComponent(int(Green(fg)), fgAlpha, int(Green(bg)), bgAlpha, a)
	b := compositeComponent(int(Blue(fg)), fgAlpha, int(Blue(bg)), bgAlpha, a)

	return ARGB(uint8(a), uint8(r), uint8(g), uint8(b))
}

func compositeAlpha(fgAlpha, bgAlpha int) int {
	return 0xFF - ((0xFF-bgAlpha)*(0xFF-fgAlpha))/0xFF
}

func compositeComponent(fgC, fgA, bgC, bgA, a int) int {
	if a == 0 {
		return 0
	}
	return ((0xFF * fgC * fgA) + (bgC * bgA * (0xFF - fgA))) / (a * 0xFF)
}

// ContrastRatio calculates the contrast ratio between a foreground and a
// background colour according to WCAG 2.0. A translucent foreground is
// composited over the background first.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(fg, bg uint32) (float64, error) {
	if Alpha(bg) != 0xFF {
		return 0, fmt.Errorf("%w: %s", ErrTranslucentBackground, HexARGB(bg))
	}
	return contrast(fg, bg), nil
}

// contrast assumes bg is opaque.
func contrast(fg, bg uint32) float64 {
	if Alpha(fg) < 0xFF {
		fg = Composite(fg, bg)
	}

	l1 := Luminance(fg) + 0.05
	l2 := Luminance(bg) + 0.05

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return l1 / l2
}

// MinimumAlpha finds the lowest alpha for fg that still gives at least
// minRatio contrast against the opaque background bg.
// It returns false when even a fully opaque fg does not reach minRatio.
func MinimumAlpha(fg, bg uint32, minRatio float64) (uint8, bool, error) {
	if Alpha(bg) != 0xFF {
		return 0, false, fmt.Errorf("%w: %s", ErrTranslucentBackground, HexARGB(bg))
	}

	if contrast(Opaque(fg), bg) < minRatio {
		return 0, false, nil
	}

	// The upper bound always passes.
	minAlpha, maxAlpha := 0, 0xFF
	for i := 0; i <= minAlphaSearchMaxIterations && maxAlpha-minAlpha > minAlphaSearchPrecision; i++ {
		testAlpha := (minAlpha + maxAlpha) / 2
		if contrast(SetAlpha(fg, uint8(testAlpha)), bg) < minRatio {
			minAlpha = testAlpha
		} else {
			maxAlpha = testAlpha
		}
	}

	return uint8(maxAlpha), true, nil
}
