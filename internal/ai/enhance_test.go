package ai

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEnhanceDownscalesLargeImages(t *testing.T) {
	out, err := Enhance(pngBytes(t, 2048, 1024))
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 512 {
		t.Fatalf("expected 1024x512, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEnhanceKeepsSmallImages(t *testing.T) {
	out, err := Enhance(pngBytes(t, 200, 100))
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("expected 200x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEnhanceRejectsGarbage(t *testing.T) {
	if _, err := Enhance([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
