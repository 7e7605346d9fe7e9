package palette

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Palette holds the swatches extracted from an image, the swatch selected
// for each target and the dominant swatch. It is immutable once created and
// safe for concurrent use.
type Palette struct {
	swatches []*Swatch
	targets  []Target
	selected map[Target]*Swatch
	dominant *Swatch
}

// New creates a palette from swatches and runs target selection for each
// target in order. Nil swatches are ignored and duplicate targets are
// selected once.
func New(swatches []*Swatch, targets []Target) *Palette {
	p := &Palette{
		swatches: slices.DeleteFunc(slices.Clone(swatches), func(s *Swatch) bool { return s == nil }),
		targets:  uniqueTargets(targets),
		selected: make(map[Target]*Swatch),
	}
	p.dominant = findDominantSwatch(p.swatches)
	p.generate()
	return p
}

func uniqueTargets(targets []Target) []Target {
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// generate runs one selection pass over the targets. The used-colour set
// only lives for the duration of the pass.
func (p *Palette) generate() {
	used := make(map[uint32]bool)
	for _, target := range p.targets {
		if s := p.selectForTarget(target, used); s != nil {
			p.selected[target] = s
		}
	}
}

// selectForTarget finds the best swatch for target and, if target is
// exclusive, marks its colour as used.
func (p *Palette) selectForTarget(target Target, used map[uint32]bool) *Swatch {
	normalized := target.NormalizeWeights()

	var best *Swatch
	bestScore := math.Inf(-1)
	for _, s := range p.swatches {
		if !shouldBeScoredForTarget(s, normalized, used) {
			continue
		}
		score := p.score(s, normalized)
		if best == nil || score > bestScore {
			best = s
			bestScore = score
		}
	}

	if best != nil && target.Exclusive {
		used[best.rgb] = true
	}
	return best
}

func shouldBeScoredForTarget(s *Swatch, t Target, used map[uint32]bool) bool {
	hsl := s.hsl
	return hsl.S >= t.MinimumSaturation && hsl.S <= t.MaximumSaturation &&
		hsl.L >= t.MinimumLightness && hsl.L <= t.MaximumLightness &&
		!used[s.rgb]
}

// score rates a swatch against a target with normalized weights. Terms with
// a zero weight are skipped.
func (p *Palette) score(s *Swatch, t Target) float64 {
	maxPopulation := 1
	if p.dominant != nil {
		maxPopulation = p.dominant.population
	}

	var saturationScore, lightnessScore, populationScore float64
	if t.SaturationWeight > 0 {
		saturationScore = t.SaturationWeight * (1 - math.Abs(s.hsl.S-t.TargetSaturation))
	}
	if t.LightnessWeight > 0 {
		lightnessScore = t.LightnessWeight * (1 - math.Abs(s.hsl.L-t.TargetLightness))
	}
	if t.PopulationWeight > 0 {
		populationScore = t.PopulationWeight * (float64(s.population) / float64(maxPopulation))
	}
	return saturationScore + lightnessScore + populationScore
}

// findDominantSwatch returns the first swatch with the largest population.
func findDominantSwatch(swatches []*Swatch) *Swatch {
	var dominant *Swatch
	for _, s := range swatches {
		if dominant == nil || s.population > dominant.population {
			dominant = s
		}
	}
	return dominant
}

// Len returns the number of swatches in the palette.
func (p *Palette) Len() int {
	return len(p.swatches)
}

// Swatches returns all swatches in the palette.
func (p *Palette) Swatches() []*Swatch {
	return slices.Clone(p.swatches)
}

// Targets returns the targets used to generate the palette.
func (p *Palette) Targets() []Target {
	return slices.Clone(p.targets)
}

// SwatchForTarget returns the swatch selected for target, or nil if none
// was eligible or the target was not part of this palette.
func (p *Palette) SwatchForTarget(target Target) *Swatch {
	return p.selected[target]
}

// ColourForTarget returns the colour selected for target, or defaultColour.
func (p *Palette) ColourForTarget(target Target, defaultColour uint32) uint32 {
	if s := p.SwatchForTarget(target); s != nil {
		return s.rgb
	}
	return defaultColour
}

// Dominant returns the swatch with the largest population, or nil for an
// empty palette.
func (p *Palette) Dominant() *Swatch {
	return p.dominant
}

// DominantColour returns the dominant colour, or defaultColour.
func (p *Palette) DominantColour(defaultColour uint32) uint32 {
	if p.dominant != nil {
		return p.dominant.rgb
	}
	return defaultColour
}

// Vibrant returns the swatch selected for the Vibrant target.
func (p *Palette) Vibrant() *Swatch { return p.SwatchForTarget(Vibrant) }

// LightVibrant returns the swatch selected for the LightVibrant target.
func (p *Palette) LightVibrant() *Swatch { return p.SwatchForTarget(LightVibrant) }

// DarkVibrant returns the swatch selected for the DarkVibrant target.
func (p *Palette) DarkVibrant() *Swatch { return p.SwatchForTarget(DarkVibrant) }

// Muted returns the swatch selected for the Muted target.
func (p *Palette) Muted() *Swatch { return p.SwatchForTarget(Muted) }

// LightMuted returns the swatch selected for the LightMuted target.
func (p *Palette) LightMuted() *Swatch { return p.SwatchForTarget(LightMuted) }

// DarkMuted returns the swatch selected for the DarkMuted target.
func (p *Palette) DarkMuted() *Swatch { return p.SwatchForTarget(DarkMuted) }

// VibrantColour returns the Vibrant colour, or defaultColour.
func (p *Palette) VibrantColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(Vibrant, defaultColour)
}

// LightVibrantColour returns the LightVibrant colour, or defaultColour.
func (p *Palette) LightVibrantColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(LightVibrant, defaultColour)
}

// DarkVibrantColour returns the DarkVibrant colour, or defaultColour.
func (p *Palette) DarkVibrantColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(DarkVibrant, defaultColour)
}

// MutedColour returns the Muted colour, or defaultColour.
func (p *Palette) MutedColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(Muted, defaultColour)
}

// LightMutedColour returns the LightMuted colour, or defaultColour.
func (p *Palette) LightMutedColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(LightMuted, defaultColour)
}

// DarkMutedColour returns the DarkMuted colour, or defaultColour.
func (p *Palette) DarkMutedColour(defaultColour uint32) uint32 {
	return p.ColourForTarget(DarkMuted, defaultColour)
}

// String returns a human-readable summary of the palette.
func (p *Palette) String() string {
	if len(p.swatches) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d swatches:\n", len(p.swatches))
	for i, s := range p.swatches {
		fmt.Fprintf(&sb, "  %2d: %s (population %d)\n", i+1, s.Hex(), s.population)
	}
	for _, t := range p.targets {
		if s := p.selected[t]; s != nil {
			fmt.Fprintf(&sb, "  %-14s %s\n", t.Name+":", s.Hex())
		}
	}
	return sb.String()
}
