package gesture

import "github.com/soocke/frame-annotator-go/domain/annotation"

// State enumerates the phases of a pointer gesture.
type State int

const (
	StateIdle State = iota
	StateDraggingCorner
	StateDraggingBody
	StateDrawingNew
	StateAssigningIdentity
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraggingCorner:
		return "dragging-corner"
	case StateDraggingBody:
		return "dragging-body"
	case StateDrawingNew:
		return "drawing"
	case StateAssigningIdentity:
		return "assigning-identity"
	default:
		return "unknown"
	}
}

// transitions lists the legal successors of every state. Every transient
// state leads back to idle only.
var transitions = map[State][]State{
	StateIdle:              {StateDraggingCorner, StateDraggingBody, StateDrawingNew, StateAssigningIdentity},
	StateDraggingCorner:    {StateIdle},
	StateDraggingBody:      {StateIdle},
	StateDrawingNew:        {StateIdle},
	StateAssigningIdentity: {StateIdle},
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Config tunes gesture recognition.
type Config struct {
	Thresholds annotation.Thresholds
	// ClickThreshold is the largest pointer displacement (both axes) of a draw
	// that is still treated as a click and discarded.
	ClickThreshold int
	// IdentityStep is the vertical pointer travel per identity increment.
	IdentityStep int
	MaxObjectID  int
	// MinBodySize keeps a dragged body this far inside the right/bottom edge.
	MinBodySize int
}

// DefaultConfig returns the stock gesture tuning.
func DefaultConfig() Config {
	return Config{
		Thresholds:     annotation.DefaultThresholds(),
		ClickThreshold: 5,
		IdentityStep:   20,
		MaxObjectID:    100,
		MinBodySize:    10,
	}
}

// Preview describes the gesture in progress for live rendering.
type Preview struct {
	State  State
	Corner annotation.Region
	Rect   annotation.Rect
	// Target is the rectangle being relabelled while assigning an identity.
	Target   annotation.Handle
	Proposal int
}

// Listener is notified after every accepted state change.
type Listener func(prev, next State)
