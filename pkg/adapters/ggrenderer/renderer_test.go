package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/mdposter/pkg/ports"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	img := r.CreateCanvas(100, 80, color.White).ToImage()
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("expected 100x80, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if r, g, b, _ := img.At(50, 40).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("expected white background, got %v", img.At(50, 40))
	}
}

func TestCanvas_DrawImageAtOffset(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(30, 30, color.White)
	canvas.DrawImage(solid(10, 10, color.RGBA{R: 255, A: 255}), 10, 10)
	img := canvas.ToImage()

	if r, _, _, _ := img.At(15, 15).RGBA(); r != 0xffff {
		t.Errorf("expected red inside the drawn area, got %v", img.At(15, 15))
	}
	if _, g, _, _ := img.At(5, 5).RGBA(); g != 0xffff {
		t.Errorf("expected padding to keep the background, got %v", img.At(5, 5))
	}
}

func TestRenderer_EncodeDecodePNG(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(solid(50, 40, color.RGBA{B: 255, A: 255}), ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	decoded, err := r.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if decoded.Bounds().Dx() != 50 || decoded.Bounds().Dy() != 40 {
		t.Errorf("expected 50x40, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestRenderer_EncodeJPEGFlattensAlpha(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(solid(20, 20, color.Transparent), ports.FormatJPEG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	decoded, err := r.DecodeImage(data, ports.FormatJPEG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	// JPEG is lossy; a flattened transparent image should decode near white.
	if rr, _, _, _ := decoded.At(10, 10).RGBA(); rr < 0xf000 {
		t.Errorf("expected transparent pixels to flatten to white, got %v", decoded.At(10, 10))
	}
}

func TestRenderer_DecodeGarbage(t *testing.T) {
	if _, err := New().DecodeImage([]byte("not an image"), ports.FormatPNG); err == nil {
		t.Error("expected decode error")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	resized := r.ResizeImage(solid(100, 100, color.Black), 50, 25)
	if resized.Bounds().Dx() != 50 || resized.Bounds().Dy() != 25 {
		t.Errorf("expected 50x25, got %dx%d", resized.Bounds().Dx(), resized.Bounds().Dy())
	}
}
