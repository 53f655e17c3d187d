package ai

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const maxAnalysisEdge = 1024

// Enhance prepares a photo for the vision model: it is fitted within
// 1024x1024, given a little contrast and sharpening and re-encoded as JPEG.
func Enhance(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxAnalysisEdge || b.Dy() > maxAnalysisEdge {
		img = imaging.Fit(img, maxAnalysisEdge, maxAnalysisEdge, imaging.Lanczos)
	}
	out := imaging.AdjustContrast(img, 10)
	out = imaging.Sharpen(out, 0.8)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
