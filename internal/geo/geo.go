package geo

import "math"

const (
	// GlobeRadius is the radius of the globe mesh in local units.
	GlobeRadius = 0.5

	// latSkewRad is added to latitude on the way back to the sphere. The forward conversion has
	// no matching term, so a round trip drifts north by about 1.72 degrees.
	latSkewRad = 0.03
	// lonOffsetDeg aligns the texture seam with the prime meridian. Subtracted going to lat/lon,
	// added going back.
	lonOffsetDeg = 1
)

// Vec3 is a point or direction in globe-local or world space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// LatLon is a geographic position in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WorldToLatLon converts a point on (or near) the globe surface, in globe-local coordinates, to
// latitude/longitude in degrees. Longitude is measured from +Z towards +X.
//
// Latitude is in [-90, 90]. Longitude is in [-181, 179): the one degree seam offset is applied
// after wrapping and is not renormalized.
func WorldToLatLon(p Vec3) LatLon {
	lon := math.Atan2(p.X, p.Z)
	lat := math.Atan2(p.Y, math.Hypot(p.X, p.Z))

	// math.Mod keeps the sign of the dividend, which the +540 shift makes irrelevant here.
	lonDeg := math.Mod(lon*180/math.Pi+540, 360) - 180 - lonOffsetDeg
	return LatLon{Lat: lat * 180 / math.Pi, Lon: lonDeg}
}

// LatLonToWorld places a latitude/longitude (degrees) on the globe surface in local coordinates.
// It is not the exact inverse of WorldToLatLon: latitude gains latSkewRad on the way in.
func LatLonToWorld(latDeg, lonDeg float64) Vec3 {
	lat := latDeg*math.Pi/180 + latSkewRad
	lon := (math.Mod(lonDeg+lonOffsetDeg+180, 360) - 180) * math.Pi / 180

	return Vec3{
		X: GlobeRadius * math.Sin(lon) * math.Cos(lat),
		Y: GlobeRadius * math.Sin(lat),
		Z: GlobeRadius * math.Cos(lon) * math.Cos(lat),
	}
}

// Rotation is a globe orientation as Euler angles in radians, applied X then Y
// (world = Rx(Pitch) * Ry(Yaw) * local).
type Rotation struct {
	Pitch float64
	Yaw   float64
}

// FacingRotation returns the rotation that brings local point p onto the +Z axis, i.e. facing a
// camera that looks down -Z.
func FacingRotation(p Vec3) Rotation {
	dir := p.Normalize()
	return Rotation{
		Pitch: math.Asin(clampUnit(dir.Y)),
		Yaw:   -math.Atan2(dir.X, dir.Z),
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
