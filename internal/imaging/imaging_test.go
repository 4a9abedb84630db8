package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/0xHy0kR1/LF-backend/internal/testutil"
)

func TestFitInside(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"already inside", 800, 600, 800, 600},
		{"exact box", 1080, 1920, 1080, 1920},
		{"too wide", 4000, 1000, 1080, 270},
		{"too tall", 1000, 4000, 480, 1920},
		{"both too big portrait", 2160, 3840, 1080, 1920},
		{"extreme panorama", 100000, 10, 1080, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitInside(tt.w, tt.h, 1080, 1920)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitInside(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func decodeSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return cfg.Width, cfg.Height, format
}

func TestResize_JPEGDownscaled(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(400, 100), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, ct, err := NewResizer(200, 200).Resize(buf.Bytes())
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if ct != "image/jpeg" {
		t.Errorf("content type = %s, want image/jpeg", ct)
	}

	w, h, format := decodeSize(t, out)
	if w != 200 || h != 50 || format != "jpeg" {
		t.Errorf("got %dx%d %s, want 200x50 jpeg", w, h, format)
	}
}

func TestResize_PNGInsideBoxKeepsSize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(50, 80)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, ct, err := NewResizer(1080, 1920).Resize(buf.Bytes())
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if ct != "image/png" {
		t.Errorf("content type = %s, want image/png", ct)
	}

	w, h, _ := decodeSize(t, out)
	if w != 50 || h != 80 {
		t.Errorf("got %dx%d, want 50x80", w, h)
	}
}

func TestResize_GIFBecomesPNG(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 300, 300), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, pal, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, ct, err := NewResizer(100, 100).Resize(buf.Bytes())
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if ct != "image/png" {
		t.Errorf("content type = %s, want image/png", ct)
	}
	w, h, format := decodeSize(t, out)
	if w != 100 || h != 100 || format != "png" {
		t.Errorf("got %dx%d %s, want 100x100 png", w, h, format)
	}
}

func TestResize_Garbage(t *testing.T) {
	_, _, err := NewResizer(100, 100).Resize([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestResize_RejectsOversizedDimensions(t *testing.T) {
	header := testutil.PNGHeader(60000, 60000)

	_, _, err := NewResizer(1080, 1920).Resize(header)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if !strings.Contains(err.Error(), "60000x60000") {
		t.Errorf("error should name the declared size: %v", err)
	}
}

func TestResize_PixelBudget(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(100, 100)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	r := NewResizer(1080, 1920)
	r.MaxPixels = 100 * 100
	if _, _, err := r.Resize(buf.Bytes()); err != nil {
		t.Fatalf("image at the budget should pass: %v", err)
	}

	r.MaxPixels = 100*100 - 1
	if _, _, err := r.Resize(buf.Bytes()); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage over the budget, got %v", err)
	}
}

func TestResize_HeaderOnlyWithinBudget(t *testing.T) {
	// Passes the dimension check, then fails in the real decode.
	_, _, err := NewResizer(1080, 1920).Resize(testutil.PNGHeader(10, 10))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestResize_ExtremeAspectRatios(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"one pixel", 1, 1, 1, 1},
		{"wide strip", 20000, 1, 1080, 1},
		{"tall strip", 1, 30000, 1, 1920},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, solid(tt.w, tt.h)); err != nil {
				t.Fatalf("encode: %v", err)
			}

			out, ct, err := NewResizer(1080, 1920).Resize(buf.Bytes())
			if err != nil {
				t.Fatalf("Resize: %v", err)
			}
			if ct != "image/png" {
				t.Errorf("content type = %s, want image/png", ct)
			}
			w, h, _ := decodeSize(t, out)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResize_TruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(64, 64), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := buf.Bytes()[:buf.Len()/2]

	_, _, err := NewResizer(1080, 1920).Resize(data)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}
