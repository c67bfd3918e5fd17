package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

// Kind classifies a problem.
type Kind int

const (
	KindGap Kind = iota
	KindDuplicate
	KindUnassigned
	KindMissingName
)

func (k Kind) String() string {
	switch k {
	case KindGap:
		return "gap"
	case KindDuplicate:
		return "duplicate"
	case KindUnassigned:
		return "unassigned"
	case KindMissingName:
		return "missing-name"
	default:
		return "unknown"
	}
}

// Problem is one advisory finding. Frame numbers are 1-based.
type Problem struct {
	Kind     Kind
	ObjectID int
	From, To int
	IDs      []int
}

func (p Problem) String() string {
	switch p.Kind {
	case KindGap:
		return fmt.Sprintf("object %d: hole between frames %d and %d", p.ObjectID, p.From, p.To)
	case KindDuplicate:
		return fmt.Sprintf("frame %d: object %d appears more than once", p.From, p.ObjectID)
	case KindUnassigned:
		ids := make([]string, len(p.IDs))
		for i, id := range p.IDs {
			ids[i] = fmt.Sprint(id)
		}
		return "objects without class: " + strings.Join(ids, ", ")
	case KindMissingName:
		return "video name is missing"
	default:
		return "unknown problem"
	}
}

// Report aggregates the problems found by Check.
type Report struct {
	Problems []Problem
}

// OK reports whether nothing was found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Count returns the number of problems of kind k.
func (r Report) Count(k Kind) int {
	n := 0
	for _, p := range r.Problems {
		if p.Kind == k {
			n++
		}
	}
	return n
}

func (r Report) String() string {
	if r.OK() {
		return "no problems found"
	}
	lines := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

// Check inspects the whole annotation and lists everything suspicious. It
// never fails.
func Check(v *annotation.Video, reg *annotation.Registry) Report {
	var rep Report
	appearances := map[int][]int{}
	for i := 0; i < v.Len(); i++ {
		seen := map[int]int{}
		for _, r := range v.Frame(i).Rects() {
			seen[r.ObjectID]++
			if seen[r.ObjectID] == 1 {
				appearances[r.ObjectID] = append(appearances[r.ObjectID], i+1)
			}
		}
		dups := make([]int, 0)
		for id, n := range seen {
			if n > 1 {
				dups = append(dups, id)
			}
		}
		sort.Ints(dups)
		for _, id := range dups {
			rep.Problems = append(rep.Problems, Problem{Kind: KindDuplicate, ObjectID: id, From: i + 1, To: i + 1})
		}
	}

	ids := make([]int, 0, len(appearances))
	for id := range appearances {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		frames := appearances[id]
		for j := 1; j < len(frames); j++ {
			if frames[j]-frames[j-1] > 1 {
				rep.Problems = append(rep.Problems, Problem{Kind: KindGap, ObjectID: id, From: frames[j-1], To: frames[j]})
			}
		}
	}

	if reg != nil {
		if un := reg.UnassignedIDs(); len(un) > 0 {
			rep.Problems = append(rep.Problems, Problem{Kind: KindUnassigned, IDs: un})
		}
	}
	if !v.HasName() {
		rep.Problems = append(rep.Problems, Problem{Kind: KindMissingName})
	}
	return rep
}
