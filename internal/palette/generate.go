package palette

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/jmylchreest/swatch/internal/raster"
)

// ErrNoSwatches is returned by FromSwatches for an empty swatch list.
var ErrNoSwatches = errors.New("list of swatches is not valid")

// FromImage generates a palette from an image: the image is scaled down,
// cropped to the configured region, quantized, and the targets selected.
func FromImage(img image.Image, cfg Config) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidConfig)
	}
	bounds := img.Bounds()
	if err := cfg.Validate(bounds); err != nil {
		return nil, err
	}
	log := cfg.logger()

	start := time.Now()
	scaled, scale := raster.Scale(img, cfg.scaleOptions())
	bitmap := raster.FromImage(scaled)
	if scale != 1 {
		log.Debug("scaled image", "from", bounds.Size(), "to", scaled.Bounds().Size(),
			"method", cfg.Scaling, "elapsed", time.Since(start))
	}

	region := bitmap.Bounds()
	if cfg.Region != nil {
		// Validate has already checked the region intersects the image.
		source, err := cfg.region(bounds)
		if err != nil {
			return nil, err
		}
		// Move into the bitmap's origin before scaling.
		source = source.Sub(bounds.Min)
		region = raster.ScaleRect(source, scale, bitmap.Bounds())
		if region.Empty() {
			return nil, fmt.Errorf("%w: %w: region %v is empty after scaling", ErrInvalidConfig, ErrRegionOutOfBounds, *cfg.Region)
		}
	}

	return generate(bitmap, region, cfg)
}

// FromRaster generates a palette from a raster without scaling it.
func FromRaster(r raster.Raster, cfg Config) (*Palette, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: raster cannot be nil", ErrInvalidConfig)
	}
	bounds := image.Rect(0, 0, r.Width(), r.Height())
	if err := cfg.Validate(bounds); err != nil {
		return nil, err
	}
	region, err := cfg.region(bounds)
	if err != nil {
		return nil, err
	}
	return generate(r, region, cfg)
}

// FromSwatches creates a palette from existing swatches. A nil targets
// slice selects the default targets.
func FromSwatches(swatches []*Swatch, targets []Target) (*Palette, error) {
	if len(swatches) == 0 {
		return nil, ErrNoSwatches
	}
	if targets == nil {
		targets = DefaultTargets()
	}
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return New(swatches, targets), nil
}

func generate(r raster.Raster, region image.Rectangle, cfg Config) (*Palette, error) {
	log := cfg.logger()

	pixels, err := readRegion(r, region)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	swatches, err := Quantize(pixels, cfg.MaximumColourCount, cfg.Filters)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize colours: %w", err)
	}
	log.Debug("quantized colours", "pixels", len(pixels), "swatches", len(swatches),
		"max", cfg.MaximumColourCount, "elapsed", time.Since(start))

	start = time.Now()
	p := New(swatches, cfg.Targets)
	log.Debug("selected targets", "targets", len(p.targets), "selected", len(p.selected),
		"elapsed", time.Since(start))

	return p, nil
}

func readRegion(r raster.Raster, region image.Rectangle) ([]uint32, error) {
	w, h := region.Dx(), region.Dy()
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	pixels := make([]uint32, w*h)
	if err := r.ReadPixels(pixels, 0, w, region.Min.X, region.Min.Y, w, h); err != nil {
		return nil, fmt.Errorf("failed to read pixels: %w", err)
	}
	return pixels, nil
}
