package palette

import (
	"errors"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/raster"
)

// DefaultMaximumColourCount is the default number of quantization buckets.
const DefaultMaximumColourCount = 16

var (
	// ErrInvalidConfig is returned for configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRegionOutOfBounds is returned when the region does not intersect the image.
	ErrRegionOutOfBounds = errors.New("region must intersect with the image bounds")
)

// Config holds the options for generating a palette from an image.
type Config struct {
	// MaximumColourCount is the maximum number of swatches quantization may produce.
	MaximumColourCount int

	// ResizeArea is the pixel area images are scaled down to before
	// quantization. A value <= 0 disables area-based scaling.
	ResizeArea int

	// ResizeMaxDimension scales images so their longest side fits. A value
	// <= 0 disables it. It cannot be combined with ResizeArea.
	ResizeMaxDimension int

	// Scaling selects the sampling method used when scaling down.
	Scaling raster.Method

	// Region restricts extraction to part of the image, in source pixel
	// coordinates. Nil means the whole image.
	Region *image.Rectangle

	// Filters decide which colours may appear in the palette.
	Filters []Filter

	// Targets are selected in order.
	Targets []Target

	// Logger receives debug output. Nil disables logging.
	Logger hclog.Logger
}

// DefaultConfig returns the default palette configuration.
func DefaultConfig() Config {
	return Config{
		MaximumColourCount: DefaultMaximumColourCount,
		ResizeArea:         raster.DefaultResizeArea,
		Scaling:            raster.NearestNeighbor,
		Filters:            []Filter{DefaultFilter},
		Targets:            DefaultTargets(),
	}
}

// Validate checks the configuration against an image with the given bounds.
func (c Config) Validate(bounds image.Rectangle) error {
	if c.MaximumColourCount < 1 {
		return fmt.Errorf("%w: %w, got %d", ErrInvalidConfig, ErrInvalidColourCount, c.MaximumColourCount)
	}
	if c.ResizeArea > 0 && c.ResizeMaxDimension > 0 {
		return fmt.Errorf("%w: resize area and resize max dimension are mutually exclusive", ErrInvalidConfig)
	}
	if c.Scaling != raster.NearestNeighbor && c.Scaling != raster.BiLinear {
		return fmt.Errorf("%w: unknown scaling method %s", ErrInvalidConfig, c.Scaling)
	}
	for _, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Region != nil {
		if _, err := c.region(bounds); err != nil {
			return err
		}
	}
	return nil
}

// region returns the configured region clipped to bounds.
func (c Config) region(bounds image.Rectangle) (image.Rectangle, error) {
	if c.Region == nil {
		return bounds, nil
	}
	r := c.Region.Canon().Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %w: region %v, image %v", ErrInvalidConfig, ErrRegionOutOfBounds, *c.Region, bounds)
	}
	return r, nil
}

func (c Config) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c Config) scaleOptions() raster.ScaleOptions {
	return raster.ScaleOptions{
		Area:         c.ResizeArea,
		MaxDimension: c.ResizeMaxDimension,
		Method:       c.Scaling,
	}
}
