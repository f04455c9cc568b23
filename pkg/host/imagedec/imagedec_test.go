package imagedec

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	h, err := New().DecodeImage(context.Background(), jpegBytes(t, 40, 20))
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if w, ht := h.Size(); w != 40 || ht != 20 {
		t.Errorf("Size = %dx%d, want 40x20", w, ht)
	}
	if h.MediaType() != MediaPNG {
		t.Errorf("MediaType = %q", h.MediaType())
	}
	if !bytes.HasPrefix(h.Data(), []byte("\x89PNG")) {
		t.Error("data is not PNG encoded")
	}
}

func TestDecodeImage_Fits(t *testing.T) {
	d := &Decoder{MaxSide: 50}
	h, err := d.DecodeImage(context.Background(), jpegBytes(t, 200, 100))
	if err != nil {
		t.Fatal(err)
	}
	if w, ht := h.Size(); w != 50 || ht != 25 {
		t.Errorf("Size = %dx%d, want 50x25", w, ht)
	}
}

func TestDecodeImage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().DecodeImage(context.Background(), tt.data)
			if !errors.Is(err, errors.ErrCodeAsset) {
				t.Errorf("err = %v, want ASSET", err)
			}
		})
	}
}
