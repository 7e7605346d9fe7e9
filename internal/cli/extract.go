package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	imageloader "github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/raster"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

var (
	outputFormats = []string{"text", "hex", "json"}
	previewModes  = []string{"auto", "always", "never"}
)

type extractOptions struct {
	colours            int
	resizeArea         int
	resizeMaxDimension int
	region             string
	noDefaultFilter    bool
	targets            []string
	bilinear           bool

	format  string
	preview string
	output  string
	watch   bool
	cache   bool
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image.

The image is scaled down, quantized with median cut into at most --colours
swatches, and the best swatch is selected for each target. Every swatch gets
a title and body text colour that meets the minimum contrast ratio.

The image may be a file, a directory (a random image is picked) or an
HTTP(S) URL. Supported formats: JPEG, PNG, GIF, WebP, AVIF, optionally
compressed with xz or zstd.

Examples:
  # Extract the default targets from an image
  swatch extract wallpaper.jpg

  # Use fewer colours and bilinear scaling, output JSON
  swatch extract -c 8 --bilinear -f json wallpaper.png

  # Only consider the top-left quarter of a 1920x1080 image
  swatch extract --region 0,0,960,540 wallpaper.jpg

  # Select only two targets and re-run whenever the file changes
  swatch extract --target vibrant --target dark-muted --watch wallpaper.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}

	registerConfigFlags(cmd.Flags(), opts)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format ("+strings.Join(outputFormats, ", ")+")")
	cmd.Flags().StringVar(&opts.preview, "preview", "auto", "show colour previews ("+strings.Join(previewModes, ", ")+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-extract whenever the image file changes")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "keep downloaded images in the user cache directory")

	return cmd
}

// registerConfigFlags registers the flags that map onto palette.Config.
func registerConfigFlags(fs *pflag.FlagSet, opts *extractOptions) {
	defaults := palette.DefaultConfig()
	fs.IntVarP(&opts.colours, "colours", "c", defaults.MaximumColourCount, "maximum number of colours to quantize to")
	fs.IntVar(&opts.resizeArea, "resize-area", defaults.ResizeArea, "pixel area to scale the image down to (0 disables)")
	fs.IntVar(&opts.resizeMaxDimension, "resize-max-dimension", defaults.ResizeMaxDimension, "longest side to scale the image down to (replaces --resize-area)")
	fs.StringVar(&opts.region, "region", "", "only use this region of the image, as left,top,right,bottom")
	fs.BoolVar(&opts.noDefaultFilter, "no-default-filter", false, "keep near-black, near-white and skin-tone colours")
	fs.StringSliceVar(&opts.targets, "target", palette.TargetNames(), "targets to select ("+strings.Join(palette.TargetNames(), ", ")+")")
	fs.BoolVar(&opts.bilinear, "bilinear", false, "use bilinear instead of nearest-neighbour scaling")
}

// config builds the palette configuration from the parsed flags.
func (o *extractOptions) config(fs *pflag.FlagSet, logger hclog.Logger) (palette.Config, error) {
	cfg := palette.DefaultConfig()
	cfg.Logger = logger
	cfg.MaximumColourCount = o.colours
	cfg.ResizeArea = o.resizeArea
	cfg.ResizeMaxDimension = o.resizeMaxDimension

	// A max dimension on its own replaces the default area.
	if fs.Changed("resize-max-dimension") && !fs.Changed("resize-area") {
		cfg.ResizeArea = 0
	}

	if o.bilinear {
		cfg.Scaling = raster.BiLinear
	}
	if o.noDefaultFilter {
		cfg.Filters = nil
	}

	if o.region != "" {
		region, err := parseRegion(o.region)
		if err != nil {
			return palette.Config{}, err
		}
		cfg.Region = &region
	}

	cfg.Targets = cfg.Targets[:0]
	for _, name := range o.targets {
		target, ok := palette.TargetByName(name)
		if !ok {
			return palette.Config{}, fmt.Errorf("unknown target: %s (valid: %s)", name, strings.Join(palette.TargetNames(), ", "))
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	return cfg, nil
}

// validate checks the output options.
func (o *extractOptions) validate() error {
	if !slices.Contains(outputFormats, o.format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", o.format, strings.Join(outputFormats, ", "))
	}
	return validatePreviewMode(o.preview)
}

// parseRegion parses "left,top,right,bottom" into a rectangle.
func parseRegion(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: expected left,top,right,bottom", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= v[0] || v[3] <= v[1] {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: right and bottom must exceed left and top", s)
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, opts *extractOptions, path string) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger := newLogger(cmd)
	cfg, err := opts.config(cmd.Flags(), logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.watch {
		return watchExtract(ctx, cmd, opts, cfg, path)
	}
	return extractOnce(ctx, cmd, opts, cfg, path)
}

// extractOnce loads the image at path, generates its palette and writes it.
func extractOnce(ctx context.Context, cmd *cobra.Command, opts *extractOptions, cfg palette.Config, path string) error {
	log := cfg.Logger

	resolved, err := imageloader.ResolveImagePath(path)
	if err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	if err := imageloader.ValidateImagePath(resolved); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	loader := imageloader.NewSmartLoader()
	if opts.cache {
		cache, err := imagecache.New("", nil)
		if err != nil {
			return err
		}
		loader.WithCache(cache)
		log.Debug("caching remote images", "dir", cache.Dir())
	}

	log.Debug("loading image", "path", resolved)
	img, err := loader.LoadContext(ctx, resolved)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	log.Debug("image loaded", "size", img.Bounds().Size())

	p, err := palette.FromImage(img, cfg)
	if err != nil {
		return fmt.Errorf("failed to generate palette: %w", err)
	}
	log.Debug("palette generated", "swatches", p.Len())

	showPreview := opts.preview == "always" || (opts.output == "" && previewEnabled(opts.preview, cmd.OutOrStdout()))
	output, err := formatPalette(p, opts.format, showPreview)
	if err != nil {
		return err
	}

	if opts.output != "" {
		log.Debug("writing output", "file", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - palette output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), output)
	return err
}

// previewEnabled resolves a preview mode for output written to w. In auto
// mode previews are shown only when w is a terminal.
func previewEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func validatePreviewMode(mode string) error {
	if !slices.Contains(previewModes, mode) {
		return fmt.Errorf("invalid preview mode: %s (valid: %s)", mode, strings.Join(previewModes, ", "))
	}
	return nil
}
