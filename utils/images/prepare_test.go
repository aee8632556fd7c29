package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("unable to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare_Bitmap(t *testing.T) {
	data := makePNG(t, 40, 20)

	p, err := Prepare(data, Options{MaxDimension: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", p.MimeType)
	}
	if p.Width != 40 || p.Height != 20 {
		t.Errorf("size = %dx%d, want 40x20", p.Width, p.Height)
	}
	if !bytes.Equal(p.Data, data) {
		t.Error("data was re-encoded without need")
	}
}

func TestPrepare_Downscale(t *testing.T) {
	p, err := Prepare(makePNG(t, 400, 100), Options{MaxDimension: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Width != 100 || p.Height != 25 {
		t.Errorf("size = %dx%d, want 100x25", p.Width, p.Height)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("result is not png: %v", err)
	}
	if cfg.Width != 100 {
		t.Errorf("encoded width = %d, want 100", cfg.Width)
	}
}

func TestPrepare_SVG(t *testing.T) {
	t.Run("rasterize", func(t *testing.T) {
		p, err := Prepare(testSVG, Options{RasterizeSVG: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.MimeType != "image/png" || p.Width != 100 || p.Height != 50 {
			t.Errorf("got %s %dx%d", p.MimeType, p.Width, p.Height)
		}
	})
	t.Run("keep vector", func(t *testing.T) {
		p, err := Prepare(testSVG, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.MimeType != mimeSVG || !bytes.Equal(p.Data, testSVG) {
			t.Errorf("vector image was changed: %s", p.MimeType)
		}
	})
}

func TestPrepare_NotImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"html", []byte("<html><body>not found</body></html>")},
		{"text", []byte("just some text")},
		{"truncated png", makePNG(t, 10, 10)[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.data, Options{})
			if !errors.Is(err, ErrNotImage) {
				t.Errorf("expected ErrNotImage, got %v", err)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		keep         bool
		wantW, wantH int
	}{
		{"frame", 1000, 10, false, 400, 300},
		{"small image", 100, 50, true, 100, 50},
		{"wide image", 800, 200, true, 400, 100},
		{"tall image", 300, 900, true, 100, 300},
		{"unknown size", 0, 0, true, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.w, tt.h, 400, 300, tt.keep)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Fit() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
