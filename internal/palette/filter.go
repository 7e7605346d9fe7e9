package palette

import "github.com/jmylchreest/swatch/internal/colour"

// Filter decides which colours may take part in a palette.
type Filter interface {
	// Allowed reports whether the colour may be used. rgb is opaque.
	Allowed(rgb uint32, hsl colour.HSL) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(rgb uint32, hsl colour.HSL) bool

// Allowed implements Filter.
func (f FilterFunc) Allowed(rgb uint32, hsl colour.HSL) bool {
	return f(rgb, hsl)
}

const (
	blackMaxLightness = 0.05
	whiteMinLightness = 0.95
)

// DefaultFilter rejects colours close to black, close to white, and close to
// the red side of the I line (skin tones).
var DefaultFilter Filter = FilterFunc(func(_ uint32, hsl colour.HSL) bool {
	return !isWhite(hsl) && !isBlack(hsl) && !isNearRedILine(hsl)
})

func isBlack(hsl colour.HSL) bool {
	return hsl.L <= blackMaxLightness
}

func isWhite(hsl colour.HSL) bool {
	return hsl.L >= whiteMinLightness
}

func isNearRedILine(hsl colour.HSL) bool {
	return hsl.H >= 10 && hsl.H <= 37 && hsl.S <= 0.82
}

// allowed reports whether every filter accepts the colour.
func allowed(filters []Filter, rgb uint32, hsl colour.HSL) bool {
	for _, f := range filters {
		if f != nil && !f.Allowed(rgb, hsl) {
			return false
		}
	}
	return true
}
