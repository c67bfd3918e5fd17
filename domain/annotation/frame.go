package annotation

import "math"

type entry struct {
	handle Handle
	rect   Rect
}

// Frame owns the rectangles of one video frame in insertion order.
// The zero value is an empty, usable frame.
type Frame struct {
	entries []entry
	next    Handle
}

// Len returns the number of rectangles.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Rects returns a copy of the rectangles in frame order.
func (f *Frame) Rects() []Rect {
	if f == nil {
		return nil
	}
	out := make([]Rect, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.rect
	}
	return out
}

// At returns the rectangle and handle at index i.
func (f *Frame) At(i int) (Rect, Handle, bool) {
	if f == nil || i < 0 || i >= len(f.entries) {
		return Rect{}, 0, false
	}
	e := f.entries[i]
	return e.rect, e.handle, true
}

// Get returns the rectangle stored under h.
func (f *Frame) Get(h Handle) (Rect, bool) {
	i := f.indexOf(h)
	if i < 0 {
		return Rect{}, false
	}
	return f.entries[i].rect, true
}

// Add appends r and returns its handle.
func (f *Frame) Add(r Rect) Handle {
	f.next++
	f.entries = append(f.entries, entry{handle: f.next, rect: r})
	return f.next
}

// Remove deletes the rectangle stored under h.
func (f *Frame) Remove(h Handle) (Rect, bool) {
	i := f.indexOf(h)
	if i < 0 {
		return Rect{}, false
	}
	r := f.entries[i].rect
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return r, true
}

// Replace overwrites the rectangle stored under h in place.
func (f *Frame) Replace(h Handle, r Rect) bool {
	i := f.indexOf(h)
	if i < 0 {
		return false
	}
	f.entries[i].rect = r
	return true
}

// SetObjectID changes the identity of the rectangle stored under h.
func (f *Frame) SetObjectID(h Handle, id int) bool {
	i := f.indexOf(h)
	if i < 0 {
		return false
	}
	f.entries[i].rect.ObjectID = id
	return true
}

// FindObject returns the handle of the first rectangle carrying id.
func (f *Frame) FindObject(id int) (Handle, bool) {
	if f == nil {
		return 0, false
	}
	for _, e := range f.entries {
		if e.rect.ObjectID == id {
			return e.handle, true
		}
	}
	return 0, false
}

// Clear removes every rectangle. Handles are not reused afterwards.
func (f *Frame) Clear() {
	f.entries = nil
}

// SetRects replaces the content with rs, assigning fresh handles.
func (f *Frame) SetRects(rs []Rect) {
	f.Clear()
	for _, r := range rs {
		f.Add(r)
	}
}

func (f *Frame) indexOf(h Handle) int {
	if f == nil {
		return -1
	}
	for i, e := range f.entries {
		if e.handle == h {
			return i
		}
	}
	return -1
}

// Locate resolves which rectangle and which part of it the pointer (x, y)
// addresses. A handle counts as addressed up to and including its threshold
// distance. Corners win over centers whenever a corner is in range; ties go to
// the first rectangle in frame order.
func (f *Frame) Locate(x, y int, th Thresholds) Hit {
	if f == nil || len(f.entries) == 0 {
		return Hit{Index: -1, Region: RegionNone}
	}
	px, py := float64(x), float64(y)

	minD := math.MaxFloat64
	best := -1
	region := RegionNone
	for i, e := range f.entries {
		r := e.rect
		corners := [4]struct {
			x, y float64
			reg  Region
		}{
			{float64(r.X1), float64(r.Y1), RegionUpperLeft},
			{float64(r.X1), float64(r.Y2), RegionLowerLeft},
			{float64(r.X2), float64(r.Y1), RegionUpperRight},
			{float64(r.X2), float64(r.Y2), RegionLowerRight},
		}
		for _, c := range corners {
			d := sqDist(px, py, c.x, c.y)
			if d < minD {
				minD, best, region = d, i, c.reg
			}
		}
	}
	if minD <= th.Corner*th.Corner {
		return Hit{Index: best, Handle: f.entries[best].handle, Region: region}
	}

	minD = math.MaxFloat64
	best = -1
	for i, e := range f.entries {
		cx, cy := e.rect.Center()
		d := sqDist(px, py, cx, cy)
		if d < minD {
			minD, best = d, i
		}
	}
	if best < 0 {
		return Hit{Index: -1, Region: RegionNone}
	}
	h := Hit{Index: best, Handle: f.entries[best].handle, Region: RegionGeneral}
	if minD <= th.Center*th.Center {
		h.Region = RegionCenter
	}
	return h
}

func sqDist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
