package presenter

import (
	"time"

	"github.com/soocke/frame-annotator-go/ui/model"
)

// SessionView displays the current editing stretch and the total editing time.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter pushes editing durations from the activity model to the view.
type SessionPresenter struct {
	activity *model.ActivityModel
	view     SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(activity *model.ActivityModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{activity: activity, view: view}
}

// Tick advances the activity model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.activity == nil || p.view == nil {
		return
	}
	p.activity.OnTick(now)
	s, t := p.activity.Values()
	p.view.SetSession(s, t)
}
