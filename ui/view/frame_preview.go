package view

import (
	"image"

	"github.com/soocke/frame-annotator-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// FramePreview shows the annotated frame and the magnified area under the pointer.
type FramePreview interface {
	UpdateFrame(img image.Image)
	UpdateLoupe(img image.Image)
	FrameLabel() *LabelWidget
}

type framePreview struct {
	frameLabel *LabelWidget
	loupeLabel *LabelWidget
	prevFrame  *Img // last Tk photo shown in the frame label
	prevLoupe  *Img
}

// NewFramePreview creates the frame label at (row, col) of the root window and
// the loupe label inside panel at loupeRow.
func NewFramePreview(row, col int, panel *FrameWidget, loupeRow int) FramePreview {
	framePNG := images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 640, 480)))
	loupePNG := images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 160, 160)))
	framePhoto := NewPhoto(Data(framePNG))
	loupePhoto := NewPhoto(Data(loupePNG))
	frame := Label(Image(framePhoto), Borderwidth(1), Relief("sunken"), Cursor("crosshair"))
	loupe := Label(Image(loupePhoto), Borderwidth(1), Relief("sunken"))
	Grid(frame, Row(row), Column(col), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(loupe, In(panel), Row(loupeRow), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"), Pady("0.4m"))
	return &framePreview{frameLabel: frame, loupeLabel: loupe, prevFrame: framePhoto, prevLoupe: loupePhoto}
}

func (v *framePreview) FrameLabel() *LabelWidget { return v.frameLabel }

// UpdateFrame replaces the frame photo. The previous photo is deleted so
// stepping through a long video does not pile up pixel buffers in Tk.
func (v *framePreview) UpdateFrame(img image.Image) {
	if v.frameLabel == nil || img == nil {
		return
	}
	if v.prevFrame != nil {
		v.prevFrame.Delete()
	}
	v.prevFrame = NewPhoto(Data(images.EncodePNG(img)))
	v.frameLabel.Configure(Image(v.prevFrame))
}

func (v *framePreview) UpdateLoupe(img image.Image) {
	if v.loupeLabel == nil || img == nil {
		return
	}
	if v.prevLoupe != nil {
		v.prevLoupe.Delete()
	}
	v.prevLoupe = NewPhoto(Data(images.EncodePNG(img)))
	v.loupeLabel.Configure(Image(v.prevLoupe))
}
