package images

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ExtractROI crops a square of side size centered at (cx, cy). The square is
// shifted to stay inside the frame and shrunk only when the frame is smaller
// than size. The returned rectangle is in frame coordinates.
func ExtractROI(frame image.Image, cx, cy, size int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if size < 1 {
		size = 1
	}
	b := frame.Bounds()
	w := min(size, b.Dx())
	h := min(size, b.Dy())
	if w < 1 || h < 1 {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	x0 := min(max(cx-size/2, b.Min.X), b.Max.X-w)
	y0 := min(max(cy-size/2, b.Min.Y), b.Max.Y-h)
	roi := image.Rect(x0, y0, x0+w, y0+h)
	return imaging.Crop(frame, roi), roi, nil
}

// Loupe returns a nearest-neighbour magnification of the area around (cx, cy)
// for precise corner placement.
func Loupe(frame image.Image, cx, cy, size, zoom int) (image.Image, error) {
	roi, _, err := ExtractROI(frame, cx, cy, size)
	if err != nil {
		return nil, errors.Wrap(err, "loupe")
	}
	if zoom < 1 {
		zoom = 1
	}
	b := roi.Bounds()
	return imaging.Resize(roi, b.Dx()*zoom, b.Dy()*zoom, imaging.NearestNeighbor), nil
}
