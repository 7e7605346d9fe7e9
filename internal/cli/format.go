package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/palette"
)

const previewWidth = 6

// formatPalette formats the palette according to the specified format.
func formatPalette(p *palette.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "text":
		return formatText(p, showPreview), nil
	case "hex":
		return formatHex(p), nil
	case "json":
		data, err := json.MarshalIndent(newPaletteJSON(p), "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(outputFormats, ", "))
	}
}

// formatText renders the selected targets and all swatches as tables.
func formatText(p *palette.Palette, showPreview bool) string {
	if p.Len() == 0 {
		return "No colours found\n"
	}

	var sb strings.Builder
	dominant := p.Dominant()
	fmt.Fprintf(&sb, "%d swatches, dominant %s (population %d)\n\n", p.Len(), dominant.Hex(), dominant.Population())

	targets := newSwatchTable("Target", showPreview)
	for _, t := range p.Targets() {
		targets.AddRow(swatchRow(t.Name, p.SwatchForTarget(t), showPreview)...)
	}
	if targets.Len() > 0 {
		sb.WriteString(targets.Render())
		sb.WriteString("\n")
	}

	swatches := newSwatchTable("#", showPreview)
	for i, s := range p.Swatches() {
		swatches.AddRow(swatchRow(strconv.Itoa(i+1), s, showPreview)...)
	}
	sb.WriteString(swatches.Render())
	return sb.String()
}

func newSwatchTable(label string, showPreview bool) *Table {
	if showPreview {
		return NewTable(label, "Preview", "Colour", "Population", "Title", "Body")
	}
	return NewTable(label, "Colour", "Population", "Title", "Body")
}

func swatchRow(label string, s *palette.Swatch, showPreview bool) []string {
	row := []string{label}
	if s == nil {
		if showPreview {
			row = append(row, "")
		}
		return append(row, "-")
	}

	text := s.TextColours()
	if showPreview {
		row = append(row, colour.PreviewWithText(s.RGB(), text.Title, "Aa", previewWidth))
	}
	return append(row,
		s.Hex(),
		strconv.Itoa(s.Population()),
		colour.HexARGB(text.Title),
		colour.HexARGB(text.Body),
	)
}

// formatHex prints one "name #rrggbb" line per selected target, followed by
// the dominant colour.
func formatHex(p *palette.Palette) string {
	var sb strings.Builder
	for _, t := range p.Targets() {
		if s := p.SwatchForTarget(t); s != nil {
			fmt.Fprintf(&sb, "%s %s\n", t.Name, s.Hex())
		}
	}
	if d := p.Dominant(); d != nil {
		fmt.Fprintf(&sb, "dominant %s\n", d.Hex())
	}
	return sb.String()
}

type swatchJSON struct {
	Colour     string     `json:"colour"`
	Population int        `json:"population"`
	HSL        [3]float64 `json:"hsl"`
	TitleText  string     `json:"titleText"`
	BodyText   string     `json:"bodyText"`
}

type paletteJSON struct {
	Dominant *swatchJSON            `json:"dominant,omitempty"`
	Targets  map[string]*swatchJSON `json:"targets"`
	Swatches []*swatchJSON          `json:"swatches"`
}

func newSwatchJSON(s *palette.Swatch) *swatchJSON {
	if s == nil {
		return nil
	}
	hsl := s.HSL()
	text := s.TextColours()
	return &swatchJSON{
		Colour:     s.Hex(),
		Population: s.Population(),
		HSL:        [3]float64{hsl.H, hsl.S, hsl.L},
		TitleText:  colour.HexARGB(text.Title),
		BodyText:   colour.HexARGB(text.Body),
	}
}

// newPaletteJSON converts p for JSON output. Targets without a selection
// map to null.
func newPaletteJSON(p *palette.Palette) paletteJSON {
	out := paletteJSON{
		Dominant: newSwatchJSON(p.Dominant()),
		Targets:  make(map[string]*swatchJSON),
		Swatches: make([]*swatchJSON, 0, p.Len()),
	}
	for _, t := range p.Targets() {
		out.Targets[t.Name] = newSwatchJSON(p.SwatchForTarget(t))
	}
	for _, s := range p.Swatches() {
		out.Swatches = append(out.Swatches, newSwatchJSON(s))
	}
	return out
}
