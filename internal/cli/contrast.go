package cli

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

// maxContrastRatio is the contrast of black on white.
const maxContrastRatio = 21.0

type contrastOptions struct {
	body    float64
	title   float64
	preview string
}

func newContrastCmd() *cobra.Command {
	opts := &contrastOptions{}
	cmd := &cobra.Command{
		Use:   "contrast <colour>",
		Short: "Compute readable text colours for a background colour",
		Long: `Compute the title and body text colours for a background colour.

Text is white or black with the lowest alpha that still meets the minimum
contrast ratio. If neither can reach it, the opaque colour with the higher
contrast is used and marked as best effort.

Examples:
  swatch contrast '#3f51b5'
  swatch contrast --body 7 --title 4.5 f5f5f5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContrast(cmd, opts, args[0])
		},
	}

	cmd.Flags().Float64Var(&opts.body, "body", colour.MinContrastBodyText, "minimum contrast ratio for body text")
	cmd.Flags().Float64Var(&opts.title, "title", colour.MinContrastTitleText, "minimum contrast ratio for title text")
	cmd.Flags().StringVar(&opts.preview, "preview", "auto", "show colour previews ("+strings.Join(previewModes, ", ")+")")

	return cmd
}

// parseColour parses a #rgb or #rrggbb colour, with or without the leading #.
func parseColour(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return colour.RGB(r, g, b), nil
}

func runContrast(cmd *cobra.Command, opts *contrastOptions, arg string) error {
	for _, v := range []struct {
		name  string
		ratio float64
	}{{"body", opts.body}, {"title", opts.title}} {
		if v.ratio < 1 || v.ratio > maxContrastRatio {
			return fmt.Errorf("invalid %s contrast ratio %g: must be between 1 and %g", v.name, v.ratio, maxContrastRatio)
		}
	}
	if err := validatePreviewMode(opts.preview); err != nil {
		return err
	}

	bg, err := parseColour(arg)
	if err != nil {
		return err
	}
	newLogger(cmd).Debug("solving text colours", "background", colour.Hex(bg), "body", opts.body, "title", opts.title)

	text := colour.SolveTextColours(bg, opts.body, opts.title)
	showPreview := previewEnabled(opts.preview, cmd.OutOrStdout())

	table := NewTable("", "", "", "")
	table.AddRow("Background", colour.Hex(bg), fmt.Sprintf("luminance %.3f", colour.Luminance(bg)))
	for _, row := range []struct {
		label string
		fg    uint32
		min   float64
		exact bool
	}{
		{"Title", text.Title, opts.title, text.TitleExact},
		{"Body", text.Body, opts.body, text.BodyExact},
	} {
		// bg is opaque, so the ratio cannot fail.
		ratio, _ := colour.ContrastRatio(row.fg, bg)
		note := fmt.Sprintf("%.2f:1 (min %.1f)", ratio, row.min)
		if !row.exact {
			note += " best effort"
		}
		cells := []string{row.label, colour.HexARGB(row.fg), note}
		if showPreview {
			cells = append(cells, colour.PreviewWithText(bg, row.fg, row.label, 10))
		}
		table.AddRow(cells...)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), table.Render())
	return err
}
