package annotation

// PlaceholderName marks a video whose display name has not been provided yet.
const PlaceholderName = "NO-NAME"

// Video is a fixed-length sequence of frames plus a display name. The frame
// count is set at construction and never changes.
type Video struct {
	Name   string
	files  []string
	frames []*Frame
}

// NewVideo creates a video with one empty frame per source file.
func NewVideo(files []string) *Video {
	v := &Video{files: append([]string(nil), files...), frames: make([]*Frame, len(files))}
	for i := range v.frames {
		v.frames[i] = &Frame{}
	}
	return v
}

// Len returns the number of frames.
func (v *Video) Len() int { return len(v.frames) }

// Frame returns the frame at index i (0-based), nil when out of range.
func (v *Video) Frame(i int) *Frame {
	if i < 0 || i >= len(v.frames) {
		return nil
	}
	return v.frames[i]
}

// File returns the source image name of frame i.
func (v *Video) File(i int) string {
	if i < 0 || i >= len(v.files) {
		return ""
	}
	return v.files[i]
}

// HasName reports whether a real display name is set.
func (v *Video) HasName() bool {
	return v.Name != "" && v.Name != PlaceholderName
}

// MaxObjectID returns the largest object id used by any rectangle, 0 if none.
func (v *Video) MaxObjectID() int {
	max := 0
	for _, f := range v.frames {
		for _, e := range f.entries {
			if e.rect.ObjectID > max {
				max = e.rect.ObjectID
			}
		}
	}
	return max
}

// Count returns the total number of rectangles over all frames.
func (v *Video) Count() int {
	n := 0
	for _, f := range v.frames {
		n += f.Len()
	}
	return n
}
