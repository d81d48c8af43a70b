package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestWorldToLatLon_Axes(t *testing.T) {
	tests := []struct {
		name string
		p    Vec3
		want LatLon
	}{
		{"front", Vec3{0, 0, 0.5}, LatLon{0, -1}},
		{"east", Vec3{0.5, 0, 0}, LatLon{0, 89}},
		{"west", Vec3{-0.5, 0, 0}, LatLon{0, -91}},
		{"north pole", Vec3{0, 0.5, 0}, LatLon{90, -1}},
		{"south pole", Vec3{0, -0.5, 0}, LatLon{-90, -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WorldToLatLon(tc.p)
			assert.InDelta(t, tc.want.Lat, got.Lat, eps)
			assert.InDelta(t, tc.want.Lon, got.Lon, eps)
		})
	}
}

func TestWorldToLatLon_Range(t *testing.T) {
	for i := 0; i < 360; i++ {
		a := float64(i) * math.Pi / 180
		for _, y := range []float64{-0.49, -0.2, 0, 0.3, 0.49} {
			got := WorldToLatLon(Vec3{X: math.Sin(a) * 0.3, Y: y, Z: math.Cos(a) * 0.3})
			require.GreaterOrEqual(t, got.Lat, -90.0)
			require.LessOrEqual(t, got.Lat, 90.0)
			require.GreaterOrEqual(t, got.Lon, -181.0)
			require.Less(t, got.Lon, 179.0)
		}
	}
}

func TestWorldToLatLon_BackSeam(t *testing.T) {
	// Directly behind the globe atan2 returns +pi; the wrap sends it to -180 before the offset.
	got := WorldToLatLon(Vec3{X: 0, Y: 0, Z: -0.5})
	assert.InDelta(t, -181.0, got.Lon, eps)
}

func TestLatLonToWorld_OnSurface(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -180.0; lon < 180; lon += 30 {
			p := LatLonToWorld(lat, lon)
			assert.InDelta(t, GlobeRadius, p.Len(), eps)
		}
	}
}

func TestLatLonToWorld_Origin(t *testing.T) {
	// lon -1 lands on +Z; latitude carries the 0.03 rad skew.
	p := LatLonToWorld(0, -1)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, GlobeRadius*math.Sin(0.03), p.Y, eps)
	assert.InDelta(t, GlobeRadius*math.Cos(0.03), p.Z, eps)
}

func TestRoundTrip_KnownDrift(t *testing.T) {
	skewDeg := 0.03 * 180 / math.Pi
	for lat := -85.0; lat < 88; lat += 7.5 {
		for lon := -180.0; lon < 179; lon += 11 {
			got := WorldToLatLon(LatLonToWorld(lat, lon))
			assert.InDelta(t, lat+skewDeg, got.Lat, 1e-6, "lat %v lon %v", lat, lon)
			assert.InDelta(t, lon, got.Lon, 1e-6, "lat %v lon %v", lat, lon)
		}
	}
}

func TestFacingRotation_BringsPointToFront(t *testing.T) {
	points := []Vec3{
		LatLonToWorld(48.85, 2.35),
		LatLonToWorld(-33.87, 151.21),
		LatLonToWorld(64.1, -21.9),
		{0.3, -0.2, -0.35},
	}
	for _, p := range points {
		pose := NewPose()
		pose.Rotation = FacingRotation(p)
		w := pose.LocalToWorld(p)
		assert.InDelta(t, 0, w.X, 1e-9)
		assert.InDelta(t, 0, w.Y, 1e-9)
		assert.InDelta(t, p.Len(), w.Z, 1e-9)
	}
}

func TestPose_WorldLocalInverse(t *testing.T) {
	pose := &Pose{Rotation: Rotation{Pitch: 0.4, Yaw: -1.3}, PositionX: 0.5, CameraZ: 3.5, Scale: 0.8}
	p := Vec3{0.1, -0.25, 0.4}
	back := pose.WorldToLocal(pose.LocalToWorld(p))
	assert.InDelta(t, p.X, back.X, eps)
	assert.InDelta(t, p.Y, back.Y, eps)
	assert.InDelta(t, p.Z, back.Z, eps)
}

func TestRaySphere(t *testing.T) {
	hit, ok := RaySphere(Vec3{0, 0, 5}, Vec3{0, 0, -1}, Vec3{}, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.5, hit.Z, eps)

	_, ok = RaySphere(Vec3{0, 2, 5}, Vec3{0, 0, -1}, Vec3{}, 0.5)
	assert.False(t, ok)

	_, ok = RaySphere(Vec3{0, 0, 5}, Vec3{0, 0, 1}, Vec3{}, 0.5)
	assert.False(t, ok, "sphere behind the ray")
}
