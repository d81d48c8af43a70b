package app

import (
	"time"

	"weather-globe/internal/tween"
)

// PopupFade is how long a closing popup takes to fade out.
const PopupFade = 500 * time.Millisecond

// Popup is the transient message box. Show replaces whatever is on screen; Close fades it out.
// With a timeout set it closes itself that long after being shown.
type Popup struct {
	sched    *tween.Scheduler
	timeout  time.Duration
	now      func() time.Time
	text     string
	opacity  float64
	visible  bool
	closing  bool
	deadline time.Time
}

func newPopup(sched *tween.Scheduler, timeout time.Duration, now func() time.Time) *Popup {
	return &Popup{sched: sched, timeout: timeout, now: now}
}

// Show displays text at full opacity, cancelling a fade in progress.
func (p *Popup) Show(text string) {
	p.text = text
	p.sched.Set(&p.opacity, 1)
	p.visible = true
	p.closing = false
	p.deadline = time.Time{}
	if p.timeout > 0 {
		p.deadline = p.now().Add(p.timeout)
	}
}

// Close starts the fade-out. Closing a hidden or already fading popup does nothing.
func (p *Popup) Close() {
	if !p.visible || p.closing {
		return
	}
	p.closing = true
	p.sched.To([]tween.Prop{{Ptr: &p.opacity, To: 0}}, PopupFade, tween.Linear, func() {
		p.visible = false
		p.closing = false
		p.text = ""
	})
}

func (p *Popup) tick() {
	if p.visible && !p.closing && !p.deadline.IsZero() && !p.now().Before(p.deadline) {
		p.Close()
	}
}

func (p *Popup) Visible() bool {
	return p.visible
}

func (p *Popup) Text() string {
	return p.text
}

// Opacity is in [0, 1].
func (p *Popup) Opacity() float64 {
	return p.opacity
}
