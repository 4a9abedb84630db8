// Package imaging bounds uploaded images to a maximum box before storage.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	// Registered decoders.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when the upload cannot be decoded as an image.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

const jpegQuality = 85

// DefaultMaxPixels caps the decoded size of an upload. A small compressed file can
// declare dimensions whose pixel buffer would not fit in memory.
const DefaultMaxPixels = 50_000_000

// Resizer scales images to fit inside MaxWidth x MaxHeight, keeping aspect ratio.
// Images already inside the box are re-encoded at their original size.
type Resizer struct {
	MaxWidth  int
	MaxHeight int
	// MaxPixels rejects images whose declared width*height exceeds it, before decoding.
	MaxPixels int64
}

// NewResizer creates a Resizer for the given bounding box with DefaultMaxPixels.
func NewResizer(maxWidth, maxHeight int) *Resizer {
	return &Resizer{MaxWidth: maxWidth, MaxHeight: maxHeight, MaxPixels: DefaultMaxPixels}
}

// Resize decodes data, scales it and re-encodes it. JPEG input stays JPEG;
// every other format is written as PNG. The returned string is the content type.
func (r *Resizer) Resize(data []byte) ([]byte, string, error) {
	if err := r.checkDimensions(data); err != nil {
		return nil, "", err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := src.Bounds()
	w, h := FitInside(b.Dx(), b.Dy(), r.MaxWidth, r.MaxHeight)

	out := src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	if err := png.Encode(&buf, out); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

// checkDimensions reads only the image header.
func (r *Resizer) checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}

	maxPixels := r.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// FitInside returns the largest size with w:h aspect that fits in maxW x maxH.
// Sizes already inside the box are returned unchanged.
func FitInside(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	// Compare w/maxW against h/maxH without floating point.
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}
