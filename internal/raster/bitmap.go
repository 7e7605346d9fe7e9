// Package raster provides the pixel buffers consumed by the quantizer and the
// scaling applied to source images before quantization.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrInvalidArgument is returned for negative coordinates, sizes or strides.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfBounds is returned when a read falls outside the raster or the
	// destination buffer.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Raster is a source of packed ARGB pixels.
type Raster interface {
	Width() int
	Height() int

	// ReadPixels copies the w×h rectangle at (x, y) into buf. Row i of the
	// rectangle starts at buf[offset+i*stride]; stride may be negative.
	ReadPixels(buf []uint32, offset, stride, x, y, w, h int) error
}

// Bitmap is an in-memory raster of non-premultiplied ARGB pixels in row-major
// order. It also implements image.Image and draw.Image.
type Bitmap struct {
	width  int
	height int
	pix    []uint32
}

// NewBitmap creates a transparent bitmap of the given size.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap dimensions must be positive, got %dx%d", ErrInvalidArgument, width, height)
	}
	return &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}, nil
}

// NewBitmapFromPixels wraps an existing pixel slice. The slice is used
// directly and must hold exactly width*height pixels.
func NewBitmapFromPixels(width, height int, pix []uint32) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap dimensions must be positive, got %dx%d", ErrInvalidArgument, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: pixel array has %d elements, want %d", ErrInvalidArgument, len(pix), width*height)
	}
	return &Bitmap{width: width, height: height, pix: pix}, nil
}

// FromImage converts any image to a bitmap. An empty image gives an empty bitmap.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return &Bitmap{}
	}

	b := &Bitmap{width: w, height: h, pix: make([]uint32, w*h)}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4 : x*4+4]
				b.pix[y*w+x] = packNRGBA(color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4 : x*4+4]
				rgba := color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
				b.pix[y*w+x] = packNRGBA(color.NRGBAModel.Convert(rgba).(color.NRGBA))
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				b.pix[y*w+x] = packNRGBA(c)
			}
		}
	}

	return b
}

func packNRGBA(c color.NRGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func unpackNRGBA(p uint32) color.NRGBA {
	return color.NRGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int {
	return b.height
}

// Pixels returns a copy of every pixel in row-major order.
func (b *Bitmap) Pixels() []uint32 {
	out := make([]uint32, len(b.pix))
	copy(out, b.pix)
	return out
}

// Pixel returns the packed ARGB value at (x, y), or 0 outside the bitmap.
func (b *Bitmap) Pixel(x, y int) uint32 {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// SetPixel stores a packed ARGB value at (x, y). Writes outside the bitmap
// are ignored.
func (b *Bitmap) SetPixel(x, y int, argb uint32) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = argb
}

// Fill sets every pixel inside r to argb, clipped to the bitmap.
func (b *Bitmap) Fill(r image.Rectangle, argb uint32) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.pix[y*b.width+x] = argb
		}
	}
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	return unpackNRGBA(b.Pixel(x, y))
}

// Set implements draw.Image.
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetPixel(x, y, packNRGBA(color.NRGBAModel.Convert(c).(color.NRGBA)))
}

// ReadPixels implements Raster.
func (b *Bitmap) ReadPixels(buf []uint32, offset, stride, x, y, w, h int) error {
	if err := b.checkPixelsAccess(len(buf), offset, stride, x, y, w, h); err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return nil
	}

	for row := 0; row < h; row++ {
		src := b.pix[(y+row)*b.width+x : (y+row)*b.width+x+w]
		dst := offset + row*stride
		copy(buf[dst:dst+w], src)
	}
	return nil
}

// checkPixelsAccess validates a sub-rectangle copy against the bitmap and
// the destination buffer.
func (b *Bitmap) checkPixelsAccess(length, offset, stride, x, y, w, h int) error {
	if x < 0 {
		return fmt.Errorf("%w: x must be >= 0, got %d", ErrInvalidArgument, x)
	}
	if y < 0 {
		return fmt.Errorf("%w: y must be >= 0, got %d", ErrInvalidArgument, y)
	}
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: width and height must be >= 0, got %dx%d", ErrInvalidArgument, w, h)
	}
	if x+w > b.width {
		return fmt.Errorf("%w: x + width must be <= bitmap width (%d + %d > %d)", ErrOutOfBounds, x, w, b.width)
	}
	if y+h > b.height {
		return fmt.Errorf("%w: y + height must be <= bitmap height (%d + %d > %d)", ErrOutOfBounds, y, h, b.height)
	}
	if abs(stride) < w {
		return fmt.Errorf("%w: abs(stride) must be >= width, got stride %d for width %d", ErrInvalidArgument, stride, w)
	}
	if w == 0 || h == 0 {
		return nil
	}

	lastScanline := offset + (h-1)*stride
	if offset < 0 || offset+w > length || lastScanline < 0 || lastScanline+w > length {
		return fmt.Errorf("%w: buffer of %d elements too small for offset %d, stride %d, %dx%d",
			ErrOutOfBounds, length, offset, stride, w, h)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
