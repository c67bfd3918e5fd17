package model

// ViewportModel maps pointer positions on the displayed (possibly shrunk)
// frame back to frame pixel coordinates. The zero value is an identity
// mapping and is usable.
type ViewportModel struct {
	scale float64
}

// SetScale stores the display scale factor (displayed / original).
// Non-positive values reset to identity.
func (m *ViewportModel) SetScale(k float64) {
	if m == nil {
		return
	}
	if k <= 0 {
		k = 1
	}
	m.scale = k
}

// Scale returns the current display scale factor.
func (m *ViewportModel) Scale() float64 {
	if m == nil || m.scale <= 0 {
		return 1
	}
	return m.scale
}

// ToFrame converts display coordinates to frame coordinates.
func (m *ViewportModel) ToFrame(x, y int) (int, int) {
	k := m.Scale()
	if k == 1 {
		return x, y
	}
	return int(float64(x)/k + 0.5), int(float64(y)/k + 0.5)
}
