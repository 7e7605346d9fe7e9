// Package colour provides pure colour math over packed 32-bit ARGB values:
// component packing, HSL and XYZ conversions, WCAG luminance and contrast, and
// text colour synthesis.
package colour

import "fmt"

// Packed colour constants.
const (
	White uint32 = 0xFFFFFFFF
	Black uint32 = 0xFF000000
)

// Alpha returns the alpha component of a packed ARGB colour.
func Alpha(c uint32) uint8 {
	return uint8(c >> 24)
}

// Red returns the red component of a packed ARGB colour.
func Red(c uint32) uint8 {
	return uint8(c >> 16)
}

// Green returns the green component of a packed ARGB colour.
func Green(c uint32) uint8 {
	return uint8(c >> 8)
}

// Blue returns the blue component of a packed ARGB colour.
func Blue(c uint32) uint8 {
	return uint8(c)
}

// ARGB packs the four components into a single colour.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGB packs the components into a fully opaque colour.
func RGB(r, g, b uint8) uint32 {
	return ARGB(0xFF, r, g, b)
}

// SetAlpha returns c with its alpha component replaced.
func SetAlpha(c uint32, a uint8) uint32 {
	return c&0x00FFFFFF | uint32(a)<<24
}

// Opaque returns c with full alpha.
func Opaque(c uint32) uint32 {
	return SetAlpha(c, 0xFF)
}

// Hex returns the colour as a "#rrggbb" string, ignoring alpha.
func Hex(c uint32) string {
	return fmt.Sprintf("#%02x%02x%02x", Red(c), Green(c), Blue(c))
}

// HexARGB returns the colour as a "#aarrggbb" string.
func HexARGB(c uint32) string {
	return fmt.Sprintf("#%08x", c)
}
