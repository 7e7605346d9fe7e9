package raster

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// DefaultResizeArea is the pixel budget images are scaled down to before
// quantization (112×112).
const DefaultResizeArea = 112 * 112

// Method selects the sampling used when scaling.
type Method int

const (
	// NearestNeighbor picks the closest source pixel. It keeps exact colours.
	NearestNeighbor Method = iota
	// BiLinear blends the four closest source pixels.
	BiLinear
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case NearestNeighbor:
		return "nearest"
	case BiLinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return NearestNeighbor, nil
	case "bilinear":
		return BiLinear, nil
	default:
		return 0, fmt.Errorf("%w: unknown scaling method %q (valid: nearest, bilinear)", ErrInvalidArgument, s)
	}
}

func (m Method) interpolator() draw.Interpolator {
	if m == BiLinear {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

// ScaleOptions controls how an image is scaled down. Area takes precedence
// over MaxDimension; a value <= 0 disables that budget.
type ScaleOptions struct {
	Area         int
	MaxDimension int
	Method       Method
}

// Ratio returns the factor that brings a width×height image within budget,
// or 1 when no scaling is needed.
func (o ScaleOptions) Ratio(width, height int) float64 {
	if o.Area > 0 {
		area := width * height
		if area > o.Area {
			return math.Sqrt(float64(o.Area) / float64(area))
		}
		return 1
	}
	if o.MaxDimension > 0 {
		maxDimension := max(width, height)
		if maxDimension > o.MaxDimension {
			return float64(o.MaxDimension) / float64(maxDimension)
		}
	}
	return 1
}

// Scale returns img scaled down to fit the budget, preserving aspect ratio,
// together with the horizontal scale actually applied. Images already within
// budget are returned unchanged with a scale of 1.
func Scale(img image.Image, opts ScaleOptions) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return img, 1
	}

	ratio := opts.Ratio(w, h)
	if ratio >= 1 {
		return img, 1
	}

	dw := max(int(math.Ceil(float64(w)*ratio)), 1)
	dh := max(int(math.Ceil(float64(h)*ratio)), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	opts.Method.interpolator().Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst, float64(dw) / float64(w)
}

// ScaleRect maps a rectangle in source coordinates onto an image scaled by
// scale, flooring the origin, rounding the size up and clipping to bounds.
func ScaleRect(r image.Rectangle, scale float64, bounds image.Rectangle) image.Rectangle {
	if scale == 1 {
		return r.Intersect(bounds)
	}
	x := int(math.Floor(float64(r.Min.X) * scale))
	y := int(math.Floor(float64(r.Min.Y) * scale))
	w := int(math.Ceil(float64(r.Dx()) * scale))
	h := int(math.Ceil(float64(r.Dy()) * scale))
	return image.Rect(x, y, x+w, y+h).Intersect(bounds)
}
