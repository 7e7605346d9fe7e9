package palette

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jmylchreest/swatch/internal/colour"
)

func mustSwatch(t *testing.T, rgb uint32, population int) *Swatch {
	t.Helper()
	s, err := NewSwatch(rgb, population)
	if err != nil {
		t.Fatalf("NewSwatch(%#x, %d) failed: %v", rgb, population, err)
	}
	return s
}

func TestNewSwatch(t *testing.T) {
	s := mustSwatch(t, 0x00336699, 12)
	if s.RGB() != 0xFF336699 {
		t.Errorf("RGB() = %#x, want opaque 0xff336699", s.RGB())
	}
	if s.Population() != 12 {
		t.Errorf("Population() = %d, want 12", s.Population())
	}
	if s.Hex() != "#336699" {
		t.Errorf("Hex() = %q", s.Hex())
	}
	if s.HSL() != colour.ColourToHSL(0xFF336699) {
		t.Errorf("HSL() = %v", s.HSL())
	}

	for _, population := range []int{0, -5} {
		if _, err := NewSwatch(colour.White, population); !errors.Is(err, ErrInvalidPopulation) {
			t.Errorf("NewSwatch(population=%d) error = %v, want ErrInvalidPopulation", population, err)
		}
	}
}

func TestSwatchEqual(t *testing.T) {
	white50 := mustSwatch(t, colour.White, 50)
	white100 := mustSwatch(t, colour.White, 100)
	otherWhite50 := mustSwatch(t, colour.White, 50)
	black50 := mustSwatch(t, colour.Black, 50)

	tests := []struct {
		name string
		a, b *Swatch
		want bool
	}{
		{"population differs", white50, white100, false},
		{"same values", white50, otherWhite50, true},
		{"colour differs", white50, black50, false},
		{"nil and swatch", nil, white50, false},
		{"both nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	if white50.Key() != otherWhite50.Key() || white50.Key() == white100.Key() {
		t.Error("Key() does not follow Equal()")
	}
	set := map[Key]bool{white50.Key(): true}
	if !set[otherWhite50.Key()] {
		t.Error("equal swatches should share a map key")
	}
}

func TestSwatchTextColours(t *testing.T) {
	tests := []struct {
		name string
		rgb  uint32
		base uint32
	}{
		{"dark swatch gets white text", colour.RGB(20, 30, 90), colour.White},
		{"light swatch gets black text", colour.RGB(250, 240, 200), colour.Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSwatch(t, tt.rgb, 1)
			if colour.Opaque(s.TitleTextColour()) != tt.base || colour.Opaque(s.BodyTextColour()) != tt.base {
				t.Errorf("text colours %s / %s, want base %s",
					colour.HexARGB(s.TitleTextColour()), colour.HexARGB(s.BodyTextColour()), colour.Hex(tt.base))
			}
			title, _ := colour.ContrastRatio(s.TitleTextColour(), s.RGB())
			body, _ := colour.ContrastRatio(s.BodyTextColour(), s.RGB())
			if title < colour.MinContrastTitleText || body < colour.MinContrastBodyText {
				t.Errorf("contrast title %.2f body %.2f below minimum", title, body)
			}
		})
	}
}

func TestSwatchTextColoursConcurrent(t *testing.T) {
	s := mustSwatch(t, colour.RGB(0x3f, 0x51, 0xb5), 1)
	want := colour.SolveTextColours(s.RGB(), colour.MinContrastBodyText, colour.MinContrastTitleText)

	var wg sync.WaitGroup
	results := make([]colour.TextColours, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.TextColours()
		}()
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("goroutine %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestSwatchString(t *testing.T) {
	got := mustSwatch(t, colour.RGB(255, 0, 0), 7).String()
	for _, want := range []string{"#ff0000", "Population: 7", "hsl(0.0, 100.0%, 50.0%)", "Title Text: #", "Body Text: #"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
