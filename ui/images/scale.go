package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit shrinks src so that it fits within maxW x maxH preserving aspect
// ratio and returns the applied scale factor. Images that already fit are
// returned unchanged with a factor of 1; frames are never enlarged.
func ScaleToFit(src image.Image, maxW, maxH int) (image.Image, float64) {
	if src == nil {
		return nil, 1
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src, 1
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := max(int(float64(w)*ratio+0.5), 1)
	newH := max(int(float64(h)*ratio+0.5), 1)
	return imaging.Resize(src, newW, newH, imaging.Linear), float64(newW) / float64(w)
}
