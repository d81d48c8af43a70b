package geo

import "math"

// Initial pose values for the Overview view.
const (
	OverviewCameraZ   = 5.0
	OverviewPositionX = 0.0
	FocusedCameraZ    = 3.5
	FocusedPositionX  = 0.5
)

// Pose is the globe's placement in the world plus the camera distance. Every field is animated
// through the tween scheduler, which holds pointers to them, so a Pose must not be copied while
// tweens are running.
type Pose struct {
	Rotation
	PositionX float64
	CameraZ   float64
	Scale     float64
}

// NewPose returns the Overview pose at full scale.
func NewPose() *Pose {
	return &Pose{PositionX: OverviewPositionX, CameraZ: OverviewCameraZ, Scale: 1}
}

// LocalToWorld maps a globe-local point into world space: scale, rotate Y, rotate X, translate.
func (p *Pose) LocalToWorld(v Vec3) Vec3 {
	v = v.Scale(p.scale())
	v = rotateY(v, p.Yaw)
	v = rotateX(v, p.Pitch)
	return v.Add(Vec3{X: p.PositionX})
}

// WorldToLocal is the inverse of LocalToWorld.
func (p *Pose) WorldToLocal(v Vec3) Vec3 {
	v = v.Sub(Vec3{X: p.PositionX})
	v = rotateX(v, -p.Pitch)
	v = rotateY(v, -p.Yaw)
	return v.Scale(1 / p.scale())
}

// Center returns the globe centre in world space.
func (p *Pose) Center() Vec3 {
	return Vec3{X: p.PositionX}
}

// Radius returns the world-space radius of the globe at the current scale.
func (p *Pose) Radius() float64 {
	return GlobeRadius * p.scale()
}

func (p *Pose) scale() float64 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}

func rotateX(v Vec3, a float64) Vec3 {
	s, c := math.Sincos(a)
	return Vec3{X: v.X, Y: v.Y*c - v.Z*s, Z: v.Y*s + v.Z*c}
}

func rotateY(v Vec3, a float64) Vec3 {
	s, c := math.Sincos(a)
	return Vec3{X: v.X*c + v.Z*s, Y: v.Y, Z: -v.X*s + v.Z*c}
}

// RaySphere intersects a ray with a sphere and returns the nearest hit point in front of the
// origin. dir does not need to be normalized.
func RaySphere(origin, dir, center Vec3, radius float64) (Vec3, bool) {
	d := dir.Normalize()
	oc := origin.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return Vec3{}, false
	}
	return origin.Add(d.Scale(t)), true
}
