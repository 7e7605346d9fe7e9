// Package palette extracts representative swatches from images with
// median-cut quantization and selects the best swatch for each target profile.
package palette

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jmylchreest/swatch/internal/colour"
)

// ErrInvalidPopulation is returned when a swatch is given a non-positive population.
var ErrInvalidPopulation = errors.New("swatch population must be positive")

// Swatch is a representative colour and the number of pixels it stands for.
// A Swatch is immutable; its text colours are computed once on first use and
// it is safe for concurrent use.
type Swatch struct {
	rgb        uint32
	population int
	hsl        colour.HSL

	textOnce sync.Once
	text     colour.TextColours
}

// Key identifies a swatch by colour and population. Two swatches with the
// same key are interchangeable; Key is usable as a map key.
type Key struct {
	RGB        uint32
	Population int
}

// NewSwatch creates a swatch for an RGB colour. The alpha channel is forced
// to fully opaque.
func NewSwatch(rgb uint32, population int) (*Swatch, error) {
	if population <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPopulation, population)
	}
	return newSwatch(rgb, population), nil
}

func newSwatch(rgb uint32, population int) *Swatch {
	rgb = colour.Opaque(rgb)
	return &Swatch{
		rgb:        rgb,
		population: population,
		hsl:        colour.ColourToHSL(rgb),
	}
}

// RGB returns the swatch colour as an opaque packed ARGB value.
func (s *Swatch) RGB() uint32 {
	return s.rgb
}

// Population returns the number of pixels represented by this swatch.
func (s *Swatch) Population() int {
	return s.population
}

// HSL returns the swatch colour in HSL.
func (s *Swatch) HSL() colour.HSL {
	return s.hsl
}

// Hex returns the swatch colour as "#rrggbb".
func (s *Swatch) Hex() string {
	return colour.Hex(s.rgb)
}

// TextColours returns the body and title text colours for this swatch.
func (s *Swatch) TextColours() colour.TextColours {
	s.textOnce.Do(func() {
		s.text = colour.SolveTextColours(s.rgb, colour.MinContrastBodyText, colour.MinContrastTitleText)
	})
	return s.text
}

// TitleTextColour returns a colour for title text drawn over this swatch,
// with at least 3:1 contrast.
func (s *Swatch) TitleTextColour() uint32 {
	return s.TextColours().Title
}

// BodyTextColour returns a colour for body text drawn over this swatch,
// with at least 4.5:1 contrast.
func (s *Swatch) BodyTextColour() uint32 {
	return s.TextColours().Body
}

// Key returns the identity of the swatch.
func (s *Swatch) Key() Key {
	return Key{RGB: s.rgb, Population: s.population}
}

// Equal reports whether two swatches have the same colour and population.
func (s *Swatch) Equal(other *Swatch) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.rgb == other.rgb && s.population == other.population
}

// String implements fmt.Stringer.
func (s *Swatch) String() string {
	text := s.TextColours()
	return fmt.Sprintf("Swatch [RGB: %s] [HSL: %s] [Population: %d] [Title Text: %s] [Body Text: %s]",
		colour.Hex(s.rgb), s.hsl, s.population, colour.HexARGB(text.Title), colour.HexARGB(text.Body))
}
