package palette

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/swatch/internal/colour"
)

func keys(swatches []*Swatch) []Key {
	out := make([]Key, len(swatches))
	for i, s := range swatches {
		out[i] = s.Key()
	}
	return out
}

func repeat(c uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func randomPixels(seed uint64, n int) []uint32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]uint32, n)
	for i := range out {
		out[i] = 0xFF000000 | r.Uint32()&0xFFFFFF
	}
	return out
}

func totalPopulation(swatches []*Swatch) int {
	total := 0
	for _, s := range swatches {
		total += s.Population()
	}
	return total
}

func TestQuantizeInvalidColourCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := Quantize(repeat(colour.White, 4), n, nil); !errors.Is(err, ErrInvalidColourCount) {
			t.Errorf("Quantize(maxColours=%d) error = %v, want ErrInvalidColourCount", n, err)
		}
	}
}

func TestQuantizeDegenerateInput(t *testing.T) {
	tests := []struct {
		name    string
		pixels  []uint32
		filters []Filter
	}{
		{"no pixels", nil, nil},
		{"everything filtered", repeat(colour.Black, 50), []Filter{DefaultFilter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swatches, err := Quantize(tt.pixels, 16, tt.filters)
			if err != nil {
				t.Fatalf("Quantize failed: %v", err)
			}
			if len(swatches) != 0 {
				t.Errorf("expected no swatches, got %d", len(swatches))
			}
		})
	}
}

func TestQuantizeSolidColour(t *testing.T) {
	blue := colour.RGB(0, 0, 255)
	swatches, err := Quantize(repeat(blue, 640), 16, []Filter{DefaultFilter})
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	if diff := cmp.Diff([]Key{{RGB: blue, Population: 640}}, keys(swatches)); diff != "" {
		t.Errorf("swatches mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantizeIgnoresAlpha(t *testing.T) {
	pixels := []uint32{0xFF336699, 0x00336699, 0x80336699}
	swatches, err := Quantize(pixels, 16, nil)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	if diff := cmp.Diff([]Key{{RGB: 0xFF336699, Population: 3}}, keys(swatches)); diff != "" {
		t.Errorf("swatches mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantizeFewColoursKeptExactly(t *testing.T) {
	red, green, blue := colour.RGB(255, 0, 0), colour.RGB(0, 255, 0), colour.RGB(0, 0, 255)
	var pixels []uint32
	pixels = append(pixels, repeat(blue, 30)...)
	pixels = append(pixels, repeat(red, 10)...)
	pixels = append(pixels, repeat(green, 20)...)

	swatches, err := Quantize(pixels, 3, nil)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	// Ordered by packed colour value.
	want := []Key{{RGB: blue, Population: 30}, {RGB: green, Population: 20}, {RGB: red, Population: 10}}
	if diff := cmp.Diff(want, keys(swatches)); diff != "" {
		t.Errorf("swatches mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantizeSingleColourIsWeightedAverage(t *testing.T) {
	pixels := append(repeat(colour.RGB(255, 0, 0), 1), repeat(colour.RGB(0, 0, 255), 3)...)
	pixels = append(pixels, repeat(colour.RGB(0, 100, 0), 4)...)

	swatches, err := Quantize(pixels, 1, nil)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	// r = 255/8, g = 400/8, b = 765/8, rounded.
	want := []Key{{RGB: colour.RGB(32, 50, 96), Population: 8}}
	if diff := cmp.Diff(want, keys(swatches)); diff != "" {
		t.Errorf("swatches mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantizeProperties(t *testing.T) {
	for _, maxColours := range []int{1, 2, 5, 16, 64} {
		pixels := randomPixels(uint64(maxColours), 5000)
		swatches, err := Quantize(pixels, maxColours, nil)
		if err != nil {
			t.Fatalf("Quantize(%d) failed: %v", maxColours, err)
		}

		if len(swatches) == 0 || len(swatches) > maxColours {
			t.Errorf("maxColours=%d: got %d swatches", maxColours, len(swatches))
		}
		if got := totalPopulation(swatches); got != len(pixels) {
			t.Errorf("maxColours=%d: total population %d, want %d", maxColours, got, len(pixels))
		}

		seen := make(map[uint32]bool)
		for _, s := range swatches {
			if s.Population() <= 0 {
				t.Errorf("maxColours=%d: swatch %s has population %d", maxColours, s.Hex(), s.Population())
			}
			if seen[s.RGB()] {
				t.Errorf("maxColours=%d: colour %s appears twice", maxColours, s.Hex())
			}
			seen[s.RGB()] = true
		}
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	pixels := randomPixels(42, 4000)
	first, err := Quantize(pixels, 16, []Filter{DefaultFilter})
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}

	// Same multiset of pixels in a different order.
	shuffled := append([]uint32(nil), pixels...)
	rand.New(rand.NewPCG(1, 2)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, input := range [][]uint32{pixels, shuffled} {
		again, err := Quantize(input, 16, []Filter{DefaultFilter})
		if err != nil {
			t.Fatalf("Quantize failed: %v", err)
		}
		if diff := cmp.Diff(keys(first), keys(again)); diff != "" {
			t.Errorf("results differ (-first +again):\n%s", diff)
		}
	}
}

func TestQuantizeFilters(t *testing.T) {
	red, green := colour.RGB(255, 0, 0), colour.RGB(0, 255, 0)
	pixels := append(repeat(red, 10), repeat(green, 5)...)
	calls := 0
	noRed := FilterFunc(func(rgb uint32, hsl colour.HSL) bool {
		calls++
		return hsl.H != 0 || hsl.S == 0
	})

	swatches, err := Quantize(pixels, 16, []Filter{nil, noRed})
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	if diff := cmp.Diff([]Key{{RGB: green, Population: 5}}, keys(swatches)); diff != "" {
		t.Errorf("swatches mismatch (-want +got):\n%s", diff)
	}
	if calls != 2 {
		t.Errorf("filter called %d times, want once per distinct colour", calls)
	}
}

func TestColourBoxSplit(t *testing.T) {
	box := newColourBox([]colourCount{
		{rgb: colour.RGB(0, 10, 0), count: 1},
		{rgb: colour.RGB(200, 20, 0), count: 1},
		{rgb: colour.RGB(100, 30, 0), count: 2},
	})
	if ch := box.longestChannel(); ch != channelRed {
		t.Fatalf("longestChannel = %d, want red", ch)
	}

	left, right, ok := box.split()
	if !ok {
		t.Fatal("split failed")
	}
	// Sorted by red: 0 (1), 100 (2), 200 (1); the median is reached at 100.
	if left.population != 3 || right.population != 1 {
		t.Errorf("split populations = %d/%d, want 3/1", left.population, right.population)
	}
	if right.rMin != 200 || left.rMax != 100 {
		t.Errorf("unexpected bounds: left rMax %d, right rMin %d", left.rMax, right.rMin)
	}

	if _, _, ok := newColourBox(box.colours[:1]).split(); ok {
		t.Error("a single-colour box should not split")
	}
}

func TestLongestChannelTies(t *testing.T) {
	tests := []struct {
		name    string
		colours []colourCount
		want    channel
	}{
		{"all equal prefers red", []colourCount{{rgb: colour.RGB(0, 0, 0)}, {rgb: colour.RGB(9, 9, 9)}}, channelRed},
		{"green and blue tie", []colourCount{{rgb: colour.RGB(0, 0, 0)}, {rgb: colour.RGB(1, 9, 9)}}, channelGreen},
		{"blue widest", []colourCount{{rgb: colour.RGB(0, 0, 0)}, {rgb: colour.RGB(1, 2, 9)}}, channelBlue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newColourBox(tt.colours).longestChannel(); got != tt.want {
				t.Errorf("longestChannel = %d, want %d", got, tt.want)
			}
		})
	}
}
