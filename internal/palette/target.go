package palette

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is returned by Target.Validate.
var ErrInvalidTarget = errors.New("invalid target")

const (
	targetDarkLuma   = 0.26
	maxDarkLuma      = 0.45
	minLightLuma     = 0.55
	targetLightLuma  = 0.74
	minNormalLuma    = 0.3
	targetNormalLuma = 0.5
	maxNormalLuma    = 0.7

	targetMutedSaturation   = 0.3
	maxMutedSaturation      = 0.4
	targetVibrantSaturation = 1.0
	minVibrantSaturation    = 0.35

	weightSaturation = 0.24
	weightLuma       = 0.52
	weightPopulation = 0.24
)

// Target describes the colour a palette should select for one role: the
// acceptable saturation and lightness ranges, the ideal values within them,
// and how much saturation, lightness and population count towards the score.
//
// Target is a comparable value; a Palette looks selections up by value.
type Target struct {
	Name string `json:"name"`

	MinimumSaturation float64 `json:"minimumSaturation"`
	TargetSaturation  float64 `json:"targetSaturation"`
	MaximumSaturation float64 `json:"maximumSaturation"`

	MinimumLightness float64 `json:"minimumLightness"`
	TargetLightness  float64 `json:"targetLightness"`
	MaximumLightness float64 `json:"maximumLightness"`

	SaturationWeight float64 `json:"saturationWeight"`
	LightnessWeight  float64 `json:"lightnessWeight"`
	PopulationWeight float64 `json:"populationWeight"`

	// Exclusive targets stop later targets in the same pass from selecting
	// the same colour.
	Exclusive bool `json:"exclusive"`
}

// NewTarget returns a target with the full saturation and lightness range,
// both targeted at 0.5, the default weights, and exclusivity enabled.
func NewTarget(name string) Target {
	return Target{
		Name:              name,
		MinimumSaturation: 0,
		TargetSaturation:  0.5,
		MaximumSaturation: 1,
		MinimumLightness:  0,
		TargetLightness:   0.5,
		MaximumLightness:  1,
		SaturationWeight:  weightSaturation,
		LightnessWeight:   weightLuma,
		PopulationWeight:  weightPopulation,
		Exclusive:         true,
	}
}

func (t Target) withLight() Target {
	t.MinimumLightness = minLightLuma
	t.TargetLightness = targetLightLuma
	return t
}

func (t Target) withNormal() Target {
	t.MinimumLightness = minNormalLuma
	t.TargetLightness = targetNormalLuma
	t.MaximumLightness = maxNormalLuma
	return t
}

func (t Target) withDark() Target {
	t.TargetLightness = targetDarkLuma
	t.MaximumLightness = maxDarkLuma
	return t
}

func (t Target) withVibrant() Target {
	t.MinimumSaturation = minVibrantSaturation
	t.TargetSaturation = targetVibrantSaturation
	return t
}

func (t Target) withMuted() Target {
	t.TargetSaturation = targetMutedSaturation
	t.MaximumSaturation = maxMutedSaturation
	return t
}

// Built-in targets.
var (
	LightVibrant = NewTarget("light-vibrant").withLight().withVibrant()
	Vibrant      = NewTarget("vibrant").withNormal().withVibrant()
	DarkVibrant  = NewTarget("dark-vibrant").withDark().withVibrant()
	LightMuted   = NewTarget("light-muted").withLight().withMuted()
	Muted        = NewTarget("muted").withNormal().withMuted()
	DarkMuted    = NewTarget("dark-muted").withDark().withMuted()
)

// DefaultTargets returns the six built-in targets in selection order.
func DefaultTargets() []Target {
	return []Target{LightVibrant, Vibrant, DarkVibrant, LightMuted, Muted, DarkMuted}
}

// TargetByName looks up a built-in target, ignoring case.
func TargetByName(name string) (Target, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range DefaultTargets() {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// TargetNames returns the names of the built-in targets.
func TargetNames() []string {
	targets := DefaultTargets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}

// NormalizeWeights returns a copy of t whose three weights sum to 1.
// Calling it repeatedly gives the same result. All-zero weights stay zero.
func (t Target) NormalizeWeights() Target {
	sum := t.SaturationWeight + t.LightnessWeight + t.PopulationWeight
	if sum != 0 {
		t.SaturationWeight /= sum
		t.LightnessWeight /= sum
		t.PopulationWeight /= sum
	}
	return t
}

// Validate checks that every range lies within [0, 1], each target value
// lies within its range, and no weight is negative.
func (t Target) Validate() error {
	values := []struct {
		name          string
		min, tgt, max float64
	}{
		{"saturation", t.MinimumSaturation, t.TargetSaturation, t.MaximumSaturation},
		{"lightness", t.MinimumLightness, t.TargetLightness, t.MaximumLightness},
	}
	for _, v := range values {
		if v.min < 0 || v.max > 1 {
			return fmt.Errorf("%w %q: %s range [%g, %g] must lie within [0, 1]", ErrInvalidTarget, t.Name, v.name, v.min, v.max)
		}
		if v.min > v.tgt || v.tgt > v.max {
			return fmt.Errorf("%w %q: %s target %g outside [%g, %g]", ErrInvalidTarget, t.Name, v.name, v.tgt, v.min, v.max)
		}
	}
	if t.SaturationWeight < 0 || t.LightnessWeight < 0 || t.PopulationWeight < 0 {
		return fmt.Errorf("%w %q: weights must not be negative", ErrInvalidTarget, t.Name)
	}
	return nil
}
