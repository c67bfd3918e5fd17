package presenter

import (
	"time"

	"github.com/soocke/frame-annotator-go/domain/gesture"
)

// StateView sets the mode label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives gesture state changes from the session listener and
// reflects the latest one on the next tick.
type StatePresenter struct {
	view    StateView
	latest  gesture.State
	shown   bool
	pending []gesture.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state. Its signature matches gesture.Listener.
func (p *StatePresenter) OnState(_, next gesture.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick updates the view with the most recent queued state.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if !p.shown {
		p.shown = true
		p.view.SetStateLabel("Mode: " + p.latest.String())
	}
	if len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if last != p.latest {
		p.latest = last
		p.view.SetStateLabel("Mode: " + last.String())
	}
}
