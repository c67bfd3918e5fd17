package annofile

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

// MaxObjectNr bounds the object ids accepted from a file. The registry holds
// one slot per id up to the highest one in use.
const MaxObjectNr = 100000

type tagsetXML struct {
	XMLName xml.Name   `xml:"tagset"`
	Videos  []videoXML `xml:"video"`
}

type videoXML struct {
	Names   []nameXML   `xml:"videoName"`
	Objects []objectXML `xml:"object"`
}

type nameXML struct {
	Text string `xml:",chardata"`
}

type objectXML struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Boxes []bboxXML  `xml:"bbox"`
}

type bboxXML struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// Document is a decoded annotation file.
type Document struct {
	Video    *annotation.Video
	Registry *annotation.Registry
	// Notices are tolerated oddities the operator should hear about.
	Notices []string
}

// Write encodes v and reg. Only object ids with at least one rectangle are
// written, in ascending order, each with its boxes in frame order.
func Write(w io.Writer, v *annotation.Video, reg *annotation.Registry) error {
	name := v.Name
	if name == "" {
		name = annotation.PlaceholderName
	}
	byID := map[int][]bboxXML{}
	for i := 0; i < v.Len(); i++ {
		for _, r := range v.Frame(i).Rects() {
			byID[r.ObjectID] = append(byID[r.ObjectID], bboxXML{Attrs: []xml.Attr{
				intAttr("x", r.X1),
				intAttr("y", r.Y1),
				intAttr("width", r.Width()),
				intAttr("height", r.Height()),
				intAttr("framenr", i+1),
				{Name: xml.Name{Local: "framefile"}, Value: v.File(i)},
			}})
		}
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	doc := tagsetXML{Videos: []videoXML{{Names: []nameXML{{Text: name}}}}}
	for _, id := range ids {
		doc.Videos[0].Objects = append(doc.Videos[0].Objects, objectXML{
			Attrs: []xml.Attr{intAttr("nr", id), intAttr("class", reg.Class(id))},
			Boxes: byID[id],
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode annotation")
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, "write trailer")
	}
	return nil
}

// Read decodes an annotation document for a video made of files. Any missing
// element or attribute, or a box outside the video, fails the whole read with
// a *StructuralError.
func Read(r io.Reader, files []string) (*Document, error) {
	var doc tagsetXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &StructuralError{Element: "tagset", Reason: "malformed document", Err: err}
	}
	switch len(doc.Videos) {
	case 0:
		return nil, structural("video", "no video element")
	case 1:
	default:
		return nil, structural("video", "%d video elements, only one is supported", len(doc.Videos))
	}
	vx := doc.Videos[0]
	if len(vx.Names) != 1 {
		return nil, structural("videoName", "expected exactly one, found %d", len(vx.Names))
	}

	out := &Document{Video: annotation.NewVideo(files), Registry: annotation.NewRegistry()}
	v := out.Video
	v.Name = vx.Names[0].Text
	if !v.HasName() {
		v.Name = annotation.PlaceholderName
		out.Notices = append(out.Notices, "the video name is empty, provide one before saving")
	}
	if len(vx.Objects) == 0 {
		out.Notices = append(out.Notices, "the file does not contain any objects")
	}

	for _, ox := range vx.Objects {
		nr, err := requireInt(ox.Attrs, "object", "nr")
		if err != nil {
			return nil, err
		}
		if nr < 1 {
			return nil, structural("object", "nr %d is not positive", nr)
		}
		if nr > MaxObjectNr {
			return nil, structural("object", "nr %d exceeds the limit of %d", nr, MaxObjectNr)
		}
		class, err := requireInt(ox.Attrs, "object", "class")
		if err != nil {
			return nil, err
		}
		out.Registry.Assign(nr, class)
		if len(ox.Boxes) == 0 {
			return nil, structural("object", "object %d has no bbox", nr)
		}
		for _, bx := range ox.Boxes {
			rect, frame, err := decodeBox(bx, nr, v.Len())
			if err != nil {
				return nil, err
			}
			v.Frame(frame).Add(rect)
		}
	}
	return out, nil
}

func decodeBox(bx bboxXML, nr, frames int) (annotation.Rect, int, error) {
	var vals [5]int
	for i, name := range []string{"x", "y", "width", "height", "framenr"} {
		n, err := requireInt(bx.Attrs, "bbox", name)
		if err != nil {
			return annotation.Rect{}, 0, err
		}
		vals[i] = n
	}
	x, y, w, h, fnr := vals[0], vals[1], vals[2], vals[3], vals[4]
	if w < 1 || h < 1 {
		return annotation.Rect{}, 0, structural("bbox", "object %d has a %dx%d box", nr, w, h)
	}
	if fnr < 1 || fnr > frames {
		return annotation.Rect{}, 0, structural("bbox", "object %d: frame %d outside video of %d frames", nr, fnr, frames)
	}
	return annotation.NewRect(x, y, x+w-1, y+h-1, nr), fnr - 1, nil
}

func requireInt(attrs []xml.Attr, element, name string) (int, error) {
	s, ok := getAttr(attrs, name)
	if !ok {
		return 0, structural(element, "missing attribute %q", name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &StructuralError{Element: element, Reason: "attribute " + strconv.Quote(name) + " is not an integer", Err: err}
	}
	return n, nil
}

func getAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func intAttr(name string, v int) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: strconv.Itoa(v)}
}
