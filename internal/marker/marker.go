package marker

import (
	"time"

	"weather-globe/internal/geo"
	"weather-globe/internal/tween"
)

const (
	// StartScale is the scale a marker is created at and shrinks back to.
	StartScale = 0.01
	// SurfaceOffset lifts the marker off the globe along its normal.
	SurfaceOffset = 0.001

	// Ring geometry in globe-local units, before scaling.
	RingInner = 0.015
	RingOuter = 0.02
	DotRadius = 0.005

	PingDuration   = time.Second
	FadeDuration   = 500 * time.Millisecond
	ShrinkDuration = 500 * time.Millisecond
)

// Marker is a pulsing ring attached to the globe at a surface point. Scale and Opacity are driven
// by the manager's tweens; read them when drawing.
type Marker struct {
	Position geo.Vec3
	Normal   geo.Vec3
	Scale    float64
	Opacity  float64
	removing bool
}

// Removing reports whether the marker is shrinking out.
func (mk *Marker) Removing() bool {
	return mk.removing
}

// Manager places and clears markers. Markers being cleared stay attached until their shrink
// animation completes, so more than one can be drawn at once.
type Manager struct {
	sched    *tween.Scheduler
	active   []*Marker
	attached []*Marker
}

// NewManager returns a manager that animates through sched.
func NewManager(sched *tween.Scheduler) *Manager {
	return &Manager{sched: sched}
}

// Place attaches a new marker at surface point p (globe-local) and starts its ping loop.
func (m *Manager) Place(p geo.Vec3) *Marker {
	n := p.Normalize()
	mk := &Marker{
		Position: p.Add(n.Scale(SurfaceOffset)),
		Normal:   n,
		Scale:    StartScale,
		Opacity:  1,
	}
	m.active = append(m.active, mk)
	m.attached = append(m.attached, mk)
	m.ping(mk)
	return mk
}

// ping grows the marker, fades it, snaps it back and repeats until the marker is cleared.
func (m *Manager) ping(mk *Marker) {
	if mk.removing {
		return
	}
	m.sched.To([]tween.Prop{{Ptr: &mk.Scale, To: 1}}, PingDuration, tween.Power2Out, func() {
		if mk.removing {
			return
		}
		m.sched.To([]tween.Prop{{Ptr: &mk.Opacity, To: 0}}, FadeDuration, nil, func() {
			if mk.removing {
				return
			}
			m.sched.Set(&mk.Scale, StartScale)
			mk.Opacity = 1
			m.ping(mk)
		})
	})
}

// Clear shrinks every active marker out and detaches it when the animation ends. The active list
// is empty as soon as Clear returns. With no markers it does nothing.
func (m *Manager) Clear() {
	if len(m.active) == 0 {
		return
	}
	for _, mk := range m.active {
		mk := mk
		mk.removing = true
		m.sched.To([]tween.Prop{{Ptr: &mk.Scale, To: StartScale}}, ShrinkDuration, tween.BackIn, func() {
			m.detach(mk)
		})
	}
	m.active = nil
}

func (m *Manager) detach(mk *Marker) {
	for i, a := range m.attached {
		if a == mk {
			m.attached = append(m.attached[:i], m.attached[i+1:]...)
			return
		}
	}
}

// Attached returns every marker still drawn, including ones shrinking out.
func (m *Manager) Attached() []*Marker {
	return m.attached
}
