package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodePNG renders a solid test image as PNG bytes.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNewProcessor_Defaults(t *testing.T) {
	t.Parallel()

	p := NewProcessor(0, -1)
	if p.maxDimension != DefaultMaxDimension {
		t.Errorf("expected default max dimension, got %d", p.maxDimension)
	}
	if p.maxBytes != DefaultMaxBytes {
		t.Errorf("expected default max bytes, got %d", p.maxBytes)
	}

	p = NewProcessor(800, 100*1024)
	if p.maxDimension != 800 || p.maxBytes != 100*1024 {
		t.Error("expected custom values preserved")
	}
}

func TestProcessor_Process_SmallImageKeepsDimensions(t *testing.T) {
	t.Parallel()

	p := NewProcessor(1200, 500*1024)
	out, err := p.Process(encodePNG(t, 100, 60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 60 {
		t.Errorf("expected 100x60, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessor_Process_ScalesDownLongestSide(t *testing.T) {
	t.Parallel()

	p := NewProcessor(200, 500*1024)
	out, err := p.Process(encodePNG(t, 400, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	// アスペクト比を保ったまま長辺が200になる
	if cfg.Width != 200 || cfg.Height != 50 {
		t.Errorf("expected 200x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessor_Process_PortraitImage(t *testing.T) {
	t.Parallel()

	p := NewProcessor(200, 500*1024)
	out, err := p.Process(encodePNG(t, 100, 400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 200 {
		t.Errorf("expected 50x200, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessor_Process_AcceptsJPEGInput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	p := NewProcessor(1200, 500*1024)
	if _, err := p.Process(buf.Bytes()); err != nil {
		t.Errorf("expected JPEG input to be accepted, got %v", err)
	}
}

func TestProcessor_Process_RejectsNonImage(t *testing.T) {
	t.Parallel()

	p := NewProcessor(1200, 500*1024)
	if _, err := p.Process([]byte("not an image at all")); err == nil {
		t.Error("expected error for non-image input")
	}
}
