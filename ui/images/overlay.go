package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/gesture"
)

// Style holds the overlay colors and stroke sizes.
type Style struct {
	Box          color.RGBA
	Highlight    color.RGBA
	Preview      color.RGBA
	Anchor       color.RGBA
	LabelText    color.RGBA
	LabelBg      color.RGBA
	Thickness    int
	AnchorRadius int
}

// DefaultStyle returns the light theme overlay style.
func DefaultStyle() Style {
	return Style{
		Box:          color.RGBA{0x25, 0x63, 0xeb, 0xff},
		Highlight:    color.RGBA{0x10, 0xb9, 0x81, 0xff},
		Preview:      color.RGBA{0xdc, 0x26, 0x26, 0xff},
		Anchor:       color.RGBA{0xfa, 0xcc, 0x15, 0xff},
		LabelText:    color.RGBA{0xff, 0xff, 0xff, 0xff},
		LabelBg:      color.RGBA{0x1e, 0x29, 0x3b, 0xff},
		Thickness:    2,
		AnchorRadius: 6,
	}
}

// DarkStyle returns the overlay style used with the dark theme.
func DarkStyle() Style {
	st := DefaultStyle()
	st.Box = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	st.Preview = color.RGBA{0xef, 0x44, 0x44, 0xff}
	st.LabelBg = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	return st
}

// Scene is everything drawn on top of a frame.
type Scene struct {
	Rects []annotation.Rect
	// Hit addresses the rectangle nearest the pointer; it is highlighted and
	// its addressed handle gets an anchor circle.
	Hit annotation.Hit
	// Preview is the gesture in progress, nil when idle.
	Preview *gesture.Preview
	// Target is the rectangle being relabelled while assigning an identity.
	Target *annotation.Rect
}

// Render copies frame into a new RGBA image and draws the scene on it. The
// frame itself is left untouched.
func Render(frame image.Image, sc Scene, st Style) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, b.Min, draw.Src)
	if st.Thickness < 1 {
		st.Thickness = 1
	}

	for i, r := range sc.Rects {
		c := st.Box
		if sc.Preview == nil && i == sc.Hit.Index {
			c = st.Highlight
		}
		strokeRect(dst, r, st.Thickness, c)
		label(dst, r, strconv.Itoa(r.ObjectID), st)
	}

	if sc.Preview == nil {
		if sc.Hit.Found() && sc.Hit.Index < len(sc.Rects) {
			if x, y, ok := anchorPoint(sc.Rects[sc.Hit.Index], sc.Hit.Region); ok {
				ring(dst, x, y, st.AnchorRadius, st.Anchor)
			}
		}
		return dst
	}

	p := sc.Preview
	if p.State == gesture.StateAssigningIdentity {
		if sc.Target != nil {
			strokeRect(dst, *sc.Target, st.Thickness, st.Preview)
			label(dst, *sc.Target, fmt.Sprintf("%d -> %d", sc.Target.ObjectID, p.Proposal), st)
		}
		return dst
	}
	strokeRect(dst, p.Rect, st.Thickness, st.Preview)
	label(dst, p.Rect, strconv.Itoa(p.Rect.ObjectID), st)
	if x, y, ok := anchorPoint(p.Rect, p.Corner); ok {
		ring(dst, x, y, st.AnchorRadius, st.Anchor)
	}
	return dst
}

func anchorPoint(r annotation.Rect, region annotation.Region) (int, int, bool) {
	switch region {
	case annotation.RegionUpperLeft:
		return r.X1, r.Y1, true
	case annotation.RegionUpperRight:
		return r.X2, r.Y1, true
	case annotation.RegionLowerLeft:
		return r.X1, r.Y2, true
	case annotation.RegionLowerRight:
		return r.X2, r.Y2, true
	case annotation.RegionCenter:
		return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2, true
	}
	return 0, 0, false
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// strokeRect draws the border of r inside its inclusive extents.
func strokeRect(dst *image.RGBA, r annotation.Rect, t int, c color.RGBA) {
	x1, y1, x2, y2 := r.X1, r.Y1, r.X2+1, r.Y2+1
	fill(dst, image.Rect(x1, y1, x2, y1+t), c)
	fill(dst, image.Rect(x1, y2-t, x2, y2), c)
	fill(dst, image.Rect(x1, y1, x1+t, y2), c)
	fill(dst, image.Rect(x2-t, y1, x2, y2), c)
}

// ring draws a one pixel circle outline.
func ring(dst *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius < 1 {
		return
	}
	outer := (radius + 1) * (radius + 1)
	inner := (radius - 1) * (radius - 1)
	for y := -radius - 1; y <= radius+1; y++ {
		for x := -radius - 1; x <= radius+1; x++ {
			d := x*x + y*y
			if d > inner && d < outer {
				fill(dst, image.Rect(cx+x, cy+y, cx+x+1, cy+y+1), c)
			}
		}
	}
}

// label writes text just above the top-left corner of r, or inside the
// rectangle when there is no room above it.
func label(dst *image.RGBA, r annotation.Rect, text string, st Style) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 2
	h := face.Height
	top := r.Y1 - h
	if top < dst.Bounds().Min.Y {
		top = r.Y1 + st.Thickness
	}
	fill(dst, image.Rect(r.X1, top, r.X1+w, top+h), st.LabelBg)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.LabelText),
		Face: face,
		Dot:  fixed.P(r.X1+1, top+face.Ascent),
	}
	d.DrawString(text)
}
