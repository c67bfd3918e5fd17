package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRect_NormalizesCornerOrder(t *testing.T) {
	r := NewRect(50, 40, 10, 5, 3)
	assert.Equal(t, Rect{X1: 10, Y1: 5, X2: 50, Y2: 40, ObjectID: 3}, r)
	assert.Equal(t, 41, r.Width())
	assert.Equal(t, 36, r.Height())
}

func TestFrame_HandlesSurviveRemoval(t *testing.T) {
	var f Frame
	h1 := f.Add(NewRect(0, 0, 10, 10, 1))
	h2 := f.Add(NewRect(20, 20, 30, 30, 2))
	h3 := f.Add(NewRect(40, 40, 50, 50, 3))

	_, ok := f.Remove(h1)
	require.True(t, ok)

	r, ok := f.Get(h3)
	require.True(t, ok)
	assert.Equal(t, 3, r.ObjectID)

	require.True(t, f.SetObjectID(h2, 9))
	got, _ := f.Get(h2)
	assert.Equal(t, 9, got.ObjectID)

	h4 := f.Add(NewRect(1, 1, 2, 2, 4))
	assert.NotEqual(t, h1, h4, "handles must not be reused")

	_, ok = f.Remove(h1)
	assert.False(t, ok, "removing twice must fail")
}

func TestFrame_FindObject(t *testing.T) {
	var f Frame
	f.Add(NewRect(0, 0, 10, 10, 1))
	h := f.Add(NewRect(20, 20, 30, 30, 2))
	got, ok := f.FindObject(2)
	require.True(t, ok)
	assert.Equal(t, h, got)
	_, ok = f.FindObject(7)
	assert.False(t, ok)
}

func TestLocate_CornerCenterGeneral(t *testing.T) {
	var f Frame
	f.Add(NewRect(10, 10, 50, 50, 1))
	th := DefaultThresholds()

	hit := f.Locate(10, 10, th)
	assert.Equal(t, 0, hit.Index)
	assert.Equal(t, RegionUpperLeft, hit.Region)

	hit = f.Locate(30, 30, th)
	assert.Equal(t, 0, hit.Index)
	assert.Equal(t, RegionCenter, hit.Region)

	hit = f.Locate(1000, 1000, th)
	assert.Equal(t, 0, hit.Index)
	assert.Equal(t, RegionGeneral, hit.Region)
}

func TestLocate_AllCorners(t *testing.T) {
	var f Frame
	f.Add(NewRect(10, 10, 50, 50, 1))
	th := DefaultThresholds()
	cases := map[Region][2]int{
		RegionUpperLeft:  {11, 9},
		RegionUpperRight: {49, 12},
		RegionLowerLeft:  {12, 48},
		RegionLowerRight: {51, 51},
	}
	for want, p := range cases {
		assert.Equal(t, want, f.Locate(p[0], p[1], th).Region, "point %v", p)
	}
}

func TestLocate_EmptyFrame(t *testing.T) {
	var f Frame
	hit := f.Locate(5, 5, DefaultThresholds())
	assert.Equal(t, -1, hit.Index)
	assert.Equal(t, RegionNone, hit.Region)
	assert.False(t, hit.Found())
}

func TestLocate_CornerAtExactThresholdBeatsCloserCenter(t *testing.T) {
	var f Frame
	// Flat box: the center (8,1) is much closer to the pointer than any corner.
	f.Add(NewRect(0, 0, 16, 2, 1))
	th := DefaultThresholds()
	// Exactly 8 px from both upper corners; upper-left is checked first.
	hit := f.Locate(8, 0, th)
	assert.Equal(t, RegionUpperLeft, hit.Region)
}

func TestLocate_CornerPriorityOverOtherCenter(t *testing.T) {
	var f Frame
	f.Add(NewRect(100, 100, 200, 200, 1))
	f.Add(NewRect(0, 0, 8, 8, 2))
	hit := f.Locate(4, 4, DefaultThresholds())
	// (4,4) is the exact center of the second box but only ~5.7 px from its corners.
	assert.Equal(t, 1, hit.Index)
	assert.True(t, hit.Region.IsCorner())
}

func TestLocate_TieGoesToFirstRectangle(t *testing.T) {
	var f Frame
	f.Add(NewRect(10, 10, 20, 20, 1))
	f.Add(NewRect(10, 10, 20, 20, 2))
	hit := f.Locate(10, 10, DefaultThresholds())
	assert.Equal(t, 0, hit.Index)
}

func TestVideo_FixedLength(t *testing.T) {
	v := NewVideo([]string{"a.png", "b.png", "c.png"})
	assert.Equal(t, 3, v.Len())
	assert.Nil(t, v.Frame(3))
	assert.Equal(t, "b.png", v.File(1))
	v.Frame(2).Add(NewRect(0, 0, 1, 1, 6))
	assert.Equal(t, 6, v.MaxObjectID())
	assert.Equal(t, 1, v.Count())
	assert.False(t, v.HasName())
	v.Name = PlaceholderName
	assert.False(t, v.HasName())
	v.Name = "street"
	assert.True(t, v.HasName())
}
