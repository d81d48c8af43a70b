package interaction

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"

	"weather-globe/internal/backend"
	"weather-globe/internal/geo"
	"weather-globe/internal/marker"
	"weather-globe/internal/panel"
	"weather-globe/internal/tween"
)

// ViewState is the top-level mode of the globe view.
type ViewState int

const (
	Overview ViewState = iota
	Focused
)

func (s ViewState) String() string {
	switch s {
	case Overview:
		return "overview"
	case Focused:
		return "focused"
	default:
		return "unknown"
	}
}

const (
	MinZoom       = 0.75
	MaxZoom       = 10.0
	InitialZoom   = geo.OverviewCameraZ
	ZoomStep      = 0.1
	BaseDragSpeed = 0.0025

	RotateDuration = time.Second
	FocusDuration  = 750 * time.Millisecond
	ZoomDuration   = 500 * time.Millisecond

	IntroStartScale     = 0.01
	IntroScaleDuration  = 2750 * time.Millisecond
	IntroRotateDuration = 3 * time.Second
)

// Animator starts tweens. *tween.Scheduler satisfies it.
type Animator interface {
	To(props []tween.Prop, d time.Duration, ease tween.Ease, onComplete func()) *tween.Tween
	Set(ptr *float64, v float64)
}

// Markers places and clears selection markers. *marker.Manager satisfies it.
type Markers interface {
	Place(p geo.Vec3) *marker.Marker
	Clear()
}

// WeatherSource starts an asynchronous weather lookup. The result must come back through
// Machine.WeatherArrived with the same seq, on the goroutine that drives the machine.
type WeatherSource interface {
	LookupWeather(seq uint64, at geo.LatLon)
}

// Machine is the Overview/Focused state machine. It owns the globe pose, the zoom level and the
// details panel state. It is driven from a single goroutine.
type Machine struct {
	state   ViewState
	pose    *geo.Pose
	zoom    float64
	anim    Animator
	markers Markers
	weather WeatherSource

	details    panel.Details
	hasData    bool
	seq        uint64
	refreshSeq uint64
	entry      string
	selected   geo.LatLon
	hasSel     bool

	dragging     bool
	lastX, lastY float64

	now func() time.Time

	// OnTransition, if set, runs after every state change.
	OnTransition func(from, to ViewState)
}

// New returns a machine in Overview at the initial zoom. pose is animated in place.
func New(pose *geo.Pose, anim Animator, markers Markers, weather WeatherSource) *Machine {
	return &Machine{
		state:   Overview,
		pose:    pose,
		zoom:    InitialZoom,
		anim:    anim,
		markers: markers,
		weather: weather,
		now:     time.Now,
	}
}

// SetClock replaces time.Now for local-time rendering.
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Machine) State() ViewState { return m.state }

func (m *Machine) Pose() *geo.Pose { return m.pose }

func (m *Machine) Zoom() float64 { return m.zoom }

func (m *Machine) Details() panel.Details { return m.details }

func (m *Machine) Dragging() bool { return m.dragging }

// Visibility is derived from the state alone.
func (m *Machine) Visibility() panel.Visibility {
	return panel.VisibilityFor(m.state == Focused)
}

// DragSpeed is the radians of rotation per pixel of drag. It grows with the zoom level so a drag
// feels the same at every distance.
func (m *Machine) DragSpeed() float64 {
	return BaseDragSpeed * m.zoom * 0.25
}

// CurrentCity returns the favourite key ("City:CC") of the current selection, or "" when no city
// was resolved.
func (m *Machine) CurrentCity() string {
	if m.state != Focused {
		return ""
	}
	return m.details.CityKey
}

// Selected returns the coordinates of the current selection.
func (m *Machine) Selected() (geo.LatLon, bool) {
	return m.selected, m.hasSel && m.state == Focused
}

// Click handles a pointer click. hit is the globe intersection in globe-local space, nil when
// the click missed. With the drag modifier held clicks do nothing.
func (m *Machine) Click(hit *geo.Vec3, modifier bool) {
	if hit == nil || modifier {
		return
	}
	switch m.state {
	case Overview:
		m.selectAt(*hit, geo.WorldToLatLon(*hit), "")
	case Focused:
		m.deselect()
	}
}

// SearchSelect focuses on coordinates from a city search. entry is what the user searched for
// ("Paris" or "Paris, FR"). A focused view is left first, so the overview panel set is in place
// before the new selection starts.
func (m *Machine) SearchSelect(at geo.LatLon, entry string) {
	if m.state == Focused {
		m.deselect()
	}
	m.selectAt(geo.LatLonToWorld(at.Lat, at.Lon), at, panel.EntryName(entry))
}

// Escape leaves the focused view.
func (m *Machine) Escape() {
	if m.state == Focused {
		m.deselect()
	}
}

func (m *Machine) selectAt(p geo.Vec3, at geo.LatLon, entry string) {
	m.markers.Clear()
	m.markers.Place(p)

	m.details = panel.Loading()
	m.hasData = false
	m.entry = entry
	m.selected = at
	m.hasSel = true
	m.seq++
	m.weather.LookupWeather(m.seq, at)

	rot := geo.FacingRotation(p)
	m.anim.To([]tween.Prop{
		{Ptr: &m.pose.Pitch, To: rot.Pitch},
		{Ptr: &m.pose.Yaw, To: nearestAngle(m.pose.Yaw, rot.Yaw)},
	}, RotateDuration, tween.Power1Out, nil)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.CameraZ, To: geo.FocusedCameraZ}}, FocusDuration, tween.Power1Out, nil)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.PositionX, To: geo.FocusedPositionX}}, FocusDuration, tween.Power1Out, nil)

	m.setState(Focused)
}

func (m *Machine) deselect() {
	m.anim.To([]tween.Prop{{Ptr: &m.pose.CameraZ, To: m.zoom}}, FocusDuration, tween.Power1Out, nil)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.PositionX, To: geo.OverviewPositionX}}, FocusDuration, tween.Power1Out, nil)
	m.markers.Clear()
	// Lookups still in flight belong to the old selection.
	m.seq++
	m.hasSel = false
	m.setState(Overview)
}

func (m *Machine) setState(to ViewState) {
	from := m.state
	m.state = to
	if m.OnTransition != nil && from != to {
		m.OnTransition(from, to)
	}
}

// WeatherArrived applies a lookup result. Results for anything but the latest lookup are
// dropped; the return value reports whether this one was applied. A failed refresh leaves the
// details already shown in place.
func (m *Machine) WeatherArrived(seq uint64, rec backend.WeatherRecord, err error) bool {
	if seq != m.seq || m.state != Focused {
		return false
	}
	if err != nil {
		if seq != m.refreshSeq || !m.hasData {
			m.details = panel.Failed()
		}
		return true
	}
	m.details = panel.BuildDetails(rec, m.entry, m.now())
	m.hasData = true
	return true
}

// Refresh re-fetches weather for the current selection without resetting the panel.
func (m *Machine) Refresh() bool {
	at, ok := m.Selected()
	if !ok {
		return false
	}
	m.seq++
	m.refreshSeq = m.seq
	m.weather.LookupWeather(m.seq, at)
	return true
}

// Wheel zooms the overview camera one step per notch in the direction of deltaY.
func (m *Machine) Wheel(deltaY float64) {
	if m.state != Overview || deltaY == 0 {
		return
	}
	m.zoom = clamp(m.zoom+math.Copysign(ZoomStep, deltaY), MinZoom, MaxZoom)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.CameraZ, To: m.zoom}}, ZoomDuration, tween.Power1Out, nil)
}

// PointerDown starts a drag when the modifier is held in Overview.
func (m *Machine) PointerDown(x, y float64, modifier bool) {
	if !modifier || m.state != Overview {
		return
	}
	m.dragging = true
	m.lastX, m.lastY = x, y
}

// PointerMove rotates the globe by the pointer delta while dragging.
func (m *Machine) PointerMove(x, y float64) {
	if !m.dragging {
		return
	}
	if m.state != Overview {
		m.dragging = false
		return
	}
	dx, dy := x-m.lastX, y-m.lastY
	m.lastX, m.lastY = x, y
	speed := m.DragSpeed()
	m.anim.Set(&m.pose.Yaw, m.pose.Yaw+dx*speed)
	m.anim.Set(&m.pose.Pitch, m.pose.Pitch+dy*speed)
}

// PointerUp ends a drag.
func (m *Machine) PointerUp() {
	m.dragging = false
}

// Intro plays the start-up animation: the globe springs up from a dot while spinning once.
func (m *Machine) Intro() {
	m.anim.Set(&m.pose.Scale, IntroStartScale)
	m.anim.Set(&m.pose.Pitch, 0)
	m.anim.Set(&m.pose.Yaw, 0)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.Scale, To: 1}}, IntroScaleDuration, tween.ElasticOut(1, 0.5), nil)
	m.anim.To([]tween.Prop{{Ptr: &m.pose.Yaw, To: 2 * math.Pi}}, IntroRotateDuration, tween.Power4Out, nil)
}

// nearestAngle returns the angle equivalent to target that is closest to from.
func nearestAngle(from, target float64) float64 {
	d := math.Remainder(target-from, 2*math.Pi)
	return from + d
}

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
