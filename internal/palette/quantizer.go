package palette

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jmylchreest/swatch/internal/colour"
)

// ErrInvalidColourCount is returned when fewer than one colour is requested.
var ErrInvalidColourCount = errors.New("maximum colour count must be at least 1")

// channel is one of the three colour-space dimensions a box can be split on.
type channel int

const (
	channelRed channel = iota
	channelGreen
	channelBlue
)

// colourCount is one distinct colour and its pixel count.
type colourCount struct {
	rgb   uint32
	count int
}

func (c colourCount) component(ch channel) uint8 {
	switch ch {
	case channelRed:
		return colour.Red(c.rgb)
	case channelGreen:
		return colour.Green(c.rgb)
	default:
		return colour.Blue(c.rgb)
	}
}

// colourBox is a region of colour space holding a set of distinct colours.
type colourBox struct {
	colours    []colourCount
	population int
	rMin, rMax uint8
	gMin, gMax uint8
	bMin, bMax uint8

	// unsplittable is set when a split attempt collapsed.
	unsplittable bool
}

func newColourBox(colours []colourCount) colourBox {
	box := colourBox{colours: colours}
	if len(colours) == 0 {
		return box
	}

	box.rMin, box.gMin, box.bMin = math.MaxUint8, math.MaxUint8, math.MaxUint8
	for _, c := range colours {
		box.population += c.count
		r, g, b := colour.Red(c.rgb), colour.Green(c.rgb), colour.Blue(c.rgb)
		box.rMin, box.rMax = min(box.rMin, r), max(box.rMax, r)
		box.gMin, box.gMax = min(box.gMin, g), max(box.gMax, g)
		box.bMin, box.bMax = min(box.bMin, b), max(box.bMax, b)
	}
	return box
}

func (b colourBox) canSplit() bool {
	return len(b.colours) > 1 && !b.unsplittable
}

// longestChannel returns the channel with the widest range. Ties go to red,
// then green.
func (b colourBox) longestChannel() channel {
	rRange := int(b.rMax) - int(b.rMin)
	gRange := int(b.gMax) - int(b.gMin)
	bRange := int(b.bMax) - int(b.bMin)

	if rRange >= gRange && rRange >= bRange {
		return channelRed
	}
	if gRange >= bRange {
		return channelGreen
	}
	return channelBlue
}

// split divides the box at the population-weighted median of its longest
// channel. It returns false if the split would leave either side empty.
func (b colourBox) split() (colourBox, colourBox, bool) {
	if len(b.colours) < 2 {
		return colourBox{}, colourBox{}, false
	}

	ch := b.longestChannel()
	ordered := slices.Clone(b.colours)
	slices.SortStableFunc(ordered, func(x, y colourCount) int {
		return cmp.Compare(x.component(ch), y.component(ch))
	})

	midpoint := b.population / 2
	cumulative := 0
	splitIndex := len(ordered) - 1
	for i, c := range ordered {
		cumulative += c.count
		if cumulative >= midpoint {
			// Keep at least one colour on the right.
			splitIndex = min(i, len(ordered)-2)
			break
		}
	}

	left, right := ordered[:splitIndex+1], ordered[splitIndex+1:]
	if len(left) == 0 || len(right) == 0 {
		return colourBox{}, colourBox{}, false
	}
	return newColourBox(left), newColourBox(right), true
}

// averageColour returns the population-weighted mean colour of the box.
func (b colourBox) averageColour() uint32 {
	var rSum, gSum, bSum float64
	for _, c := range b.colours {
		n := float64(c.count)
		rSum += n * float64(colour.Red(c.rgb))
		gSum += n * float64(colour.Green(c.rgb))
		bSum += n * float64(colour.Blue(c.rgb))
	}
	total := float64(b.population)
	return colour.RGB(
		uint8(math.Round(rSum/total)),
		uint8(math.Round(gSum/total)),
		uint8(math.Round(bSum/total)),
	)
}

// Quantize reduces pixels to at most maxColours swatches using median cut.
// Alpha is ignored. A colour is counted only if every filter allows it.
// The result order is deterministic for a given input; an empty or fully
// filtered input gives an empty slice.
func Quantize(pixels []uint32, maxColours int, filters []Filter) ([]*Swatch, error) {
	if maxColours < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidColourCount, maxColours)
	}

	colours := histogram(pixels, filters)
	if len(colours) <= maxColours {
		swatches := make([]*Swatch, len(colours))
		for i, c := range colours {
			swatches[i] = newSwatch(c.rgb, c.count)
		}
		return swatches, nil
	}

	boxes := splitBoxes(colours, maxColours)
	return boxesToSwatches(boxes), nil
}

// histogram counts each distinct opaque colour that passes the filters and
// returns them sorted by packed value.
func histogram(pixels []uint32, filters []Filter) []colourCount {
	counts := make(map[uint32]int)
	for _, p := range pixels {
		counts[colour.Opaque(p)]++
	}

	colours := make([]colourCount, 0, len(counts))
	for rgb, n := range counts {
		if allowed(filters, rgb, colour.ColourToHSL(rgb)) {
			colours = append(colours, colourCount{rgb: rgb, count: n})
		}
	}
	slices.SortFunc(colours, func(x, y colourCount) int {
		return cmp.Compare(x.rgb, y.rgb)
	})
	return colours
}

// splitBoxes repeatedly splits the most populous splittable box until there
// are maxColours boxes or nothing left to split.
func splitBoxes(colours []colourCount, maxColours int) []colourBox {
	boxes := make([]colourBox, 1, maxColours)
	boxes[0] = newColourBox(colours)

	for len(boxes) < maxColours {
		index := -1
		for i, box := range boxes {
			if box.canSplit() && (index < 0 || box.population > boxes[index].population) {
				index = i
			}
		}
		if index < 0 {
			break
		}

		left, right, ok := boxes[index].split()
		if !ok {
			boxes[index].unsplittable = true
			continue
		}
		boxes[index] = left
		boxes = slices.Insert(boxes, index+1, right)
	}

	return boxes
}

// boxesToSwatches converts boxes to swatches, merging any that average to
// the same colour.
func boxesToSwatches(boxes []colourBox) []*Swatch {
	order := make([]uint32, 0, len(boxes))
	populations := make(map[uint32]int, len(boxes))
	for _, box := range boxes {
		if box.population == 0 {
			continue
		}
		rgb := box.averageColour()
		if _, seen := populations[rgb]; !seen {
			order = append(order, rgb)
		}
		populations[rgb] += box.population
	}

	swatches := make([]*Swatch, len(order))
	for i, rgb := range order {
		swatches[i] = newSwatch(rgb, populations[rgb])
	}
	return swatches
}
