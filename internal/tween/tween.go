package tween

import (
	"time"
)

// Prop is one animated property: a pointer to the value and the value to end on.
type Prop struct {
	Ptr *float64
	To  float64
}

// Tween animates one or more properties towards their targets over a fixed duration.
// It is created and advanced by a Scheduler.
type Tween struct {
	props      []Prop
	from       []float64
	duration   time.Duration
	elapsed    time.Duration
	ease       Ease
	onComplete func()
	// finished is set when the tween completes or is superseded. A superseded tween never runs
	// its completion callback.
	finished bool
}

func (tw *Tween) stop() {
	tw.finished = true
}

// drop removes ptr from the tween's property set. Returns true when nothing is left to animate.
func (tw *Tween) drop(ptr *float64) bool {
	for i, p := range tw.props {
		if p.Ptr == ptr {
			tw.props = append(tw.props[:i], tw.props[i+1:]...)
			tw.from = append(tw.from[:i], tw.from[i+1:]...)
			break
		}
	}
	return len(tw.props) == 0
}

func (tw *Tween) apply(progress float64) {
	if progress >= 1 {
		for _, p := range tw.props {
			*p.Ptr = p.To
		}
		return
	}
	k := tw.ease(progress)
	for i, p := range tw.props {
		*p.Ptr = tw.from[i] + (p.To-tw.from[i])*k
	}
}

// Scheduler owns every running tween. It is not safe for concurrent use: create tweens and call
// Update from the render thread only.
//
// A property belongs to at most one tween. Starting a tween on a property that is already
// animating takes the property away from the older tween (last write wins); an older tween left
// with no properties is stopped without calling its completion.
type Scheduler struct {
	active []*Tween
	owner  map[*float64]*Tween
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{owner: make(map[*float64]*Tween)}
}

// To starts a tween of props over d. A nil ease means Power1Out. onComplete may be nil.
// With d <= 0 the targets are written and onComplete runs before To returns.
func (s *Scheduler) To(props []Prop, d time.Duration, ease Ease, onComplete func()) *Tween {
	if ease == nil {
		ease = Power1Out
	}
	tw := &Tween{
		props:      make([]Prop, 0, len(props)),
		from:       make([]float64, 0, len(props)),
		duration:   d,
		ease:       ease,
		onComplete: onComplete,
	}
	for _, p := range props {
		s.Kill(p.Ptr)
		tw.props = append(tw.props, p)
		tw.from = append(tw.from, *p.Ptr)
	}

	if d <= 0 {
		tw.apply(1)
		tw.stop()
		if onComplete != nil {
			onComplete()
		}
		return tw
	}

	for _, p := range tw.props {
		s.owner[p.Ptr] = tw
	}
	s.active = append(s.active, tw)
	return tw
}

// Set writes v to ptr immediately, superseding any tween on it.
func (s *Scheduler) Set(ptr *float64, v float64) {
	s.To([]Prop{{Ptr: ptr, To: v}}, 0, Linear, nil)
}

// Kill stops animating ptr. The value is left where it is.
func (s *Scheduler) Kill(ptr *float64) {
	tw, ok := s.owner[ptr]
	if !ok {
		return
	}
	delete(s.owner, ptr)
	if tw.drop(ptr) {
		tw.stop()
		s.remove(tw)
	}
}

// Animating reports whether ptr is owned by a running tween.
func (s *Scheduler) Animating(ptr *float64) bool {
	_, ok := s.owner[ptr]
	return ok
}

// Len returns the number of running tweens.
func (s *Scheduler) Len() int {
	return len(s.active)
}

// Update advances every running tween by dt. Completion callbacks run after all tweens have been
// stepped, in start order; tweens they start are first stepped on the next Update.
func (s *Scheduler) Update(dt time.Duration) {
	if len(s.active) == 0 {
		return
	}
	step := make([]*Tween, len(s.active))
	copy(step, s.active)

	var completed []*Tween
	for _, tw := range step {
		if tw.finished {
			continue
		}
		tw.elapsed += dt
		progress := 1.0
		if tw.elapsed < tw.duration {
			progress = float64(tw.elapsed) / float64(tw.duration)
		}
		tw.apply(progress)
		if progress >= 1 {
			completed = append(completed, tw)
		}
	}

	for _, tw := range completed {
		for _, p := range tw.props {
			if s.owner[p.Ptr] == tw {
				delete(s.owner, p.Ptr)
			}
		}
		tw.stop()
		s.remove(tw)
	}
	for _, tw := range completed {
		if tw.onComplete != nil {
			tw.onComplete()
		}
	}
}

func (s *Scheduler) remove(tw *Tween) {
	for i, t := range s.active {
		if t == tw {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}
