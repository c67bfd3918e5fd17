package annotation

import "fmt"

// Rect is an annotated bounding box with inclusive pixel extents and the
// identity of the object it belongs to. Use NewRect to build one from two
// arbitrary corners.
type Rect struct {
	X1, Y1   int
	X2, Y2   int
	ObjectID int
}

// NewRect orders the two corners so that X1<=X2 and Y1<=Y2.
func NewRect(x1, y1, x2, y2, objectID int) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2, ObjectID: objectID}
}

// Width returns the inclusive pixel width.
func (r Rect) Width() int { return r.X2 - r.X1 + 1 }

// Height returns the inclusive pixel height.
func (r Rect) Height() int { return r.Y2 - r.Y1 + 1 }

// Center returns the geometric center.
func (r Rect) Center() (float64, float64) {
	return 0.5 * float64(r.X1+r.X2), 0.5 * float64(r.Y1+r.Y2)
}

// Translate shifts the rectangle by (dx, dy) keeping its identity.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy, ObjectID: r.ObjectID}
}

func (r Rect) String() string {
	return fmt.Sprintf("#%d[(%d,%d)-(%d,%d)]", r.ObjectID, r.X1, r.Y1, r.X2, r.Y2)
}

// Region is the semantic part of a rectangle addressed by a pointer.
type Region int

const (
	RegionNone Region = iota
	RegionUpperLeft
	RegionUpperRight
	RegionLowerLeft
	RegionLowerRight
	RegionCenter
	RegionGeneral
)

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionUpperLeft:
		return "upper-left"
	case RegionUpperRight:
		return "upper-right"
	case RegionLowerLeft:
		return "lower-left"
	case RegionLowerRight:
		return "lower-right"
	case RegionCenter:
		return "center"
	case RegionGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// IsCorner reports whether r is one of the four corner handles.
func (r Region) IsCorner() bool {
	switch r {
	case RegionUpperLeft, RegionUpperRight, RegionLowerLeft, RegionLowerRight:
		return true
	}
	return false
}

// Handle identifies a rectangle inside one frame. Handles are never reused
// within a frame, so they stay valid while other rectangles come and go.
type Handle uint64

// Hit is the result of hit testing a pointer position against a frame.
// Index is the position in frame order, -1 when the frame is empty.
type Hit struct {
	Index  int
	Handle Handle
	Region Region
}

// Found reports whether the hit addresses a rectangle at all.
func (h Hit) Found() bool { return h.Index >= 0 }

// Thresholds are the pointer distances (pixels) under which a corner or a
// center handle is considered addressed.
type Thresholds struct {
	Corner float64
	Center float64
}

// DefaultThresholds returns the standard 8 px corner / 10 px center radii.
func DefaultThresholds() Thresholds {
	return Thresholds{Corner: 8, Center: 10}
}
