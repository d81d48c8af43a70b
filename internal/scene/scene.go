// Package scene renders the globe: camera, backdrop, the textured sphere and the selection
// markers. It also turns a mouse position into a point on the globe.
package scene

import (
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"weather-globe/internal/geo"
	"weather-globe/internal/marker"
	"weather-globe/internal/primitives"
	"weather-globe/internal/theme"
)

const (
	// Fovy is the vertical field of view in degrees. It is narrow so the globe fills the view
	// from a few units away.
	Fovy     = 16.5
	starSeed = 42
)

var (
	// lightDir points from the globe towards the light.
	lightDir    = [3]float32{-3, 3, 4}
	markerColor = rl.NewColor(0, 255, 0, 255)
	zAxis       = rl.NewVector3(0, 0, 1)
)

// Options configures New.
type Options struct {
	// Stars draws a star field behind the globe when no skybox image is found.
	Stars  bool
	Logger zerolog.Logger
}

// Scene holds a 3D camera and draws the globe world. Call Sync once per frame before Pick and Draw
// so the camera follows the pose.
type Scene struct {
	Camera rl.Camera3D
	prims  *primitives.Registry
	sky    *skybox
	stars  *stars
	log    zerolog.Logger

	tex         rl.Texture2D
	uOffset     float32
	pendingPath string
	pending     bool
}

// New returns a scene looking down -Z at the origin. Texture loading is deferred to the first
// Draw, after the window exists.
func New(opts Options) *Scene {
	s := &Scene{
		prims: primitives.NewRegistry(),
		log:   opts.Logger.With().Str("component", "scene").Logger(),
	}
	s.Camera.Position = rl.NewVector3(0, 0, geo.OverviewCameraZ)
	s.Camera.Target = rl.NewVector3(0, 0, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = Fovy
	s.Camera.Projection = rl.CameraPerspective

	s.sky = findSkybox()
	if s.sky == nil && opts.Stars {
		s.stars = newStars(starSeed)
	}
	return s
}

// SetTheme switches the globe texture. The file is loaded on the next Draw.
func (s *Scene) SetTheme(t theme.Theme) {
	s.pendingPath = t.Texture
	s.uOffset = float32(t.UOffset)
	s.pending = true
}

func (s *Scene) ensureTexture() {
	if !s.pending {
		return
	}
	s.pending = false
	if rl.IsTextureValid(s.tex) {
		rl.UnloadTexture(s.tex)
		s.tex = rl.Texture2D{}
	}
	if _, err := os.Stat(s.pendingPath); err != nil {
		s.log.Warn().Err(err).Str("texture", s.pendingPath).Msg("globe texture not found, drawing untextured")
		return
	}
	s.tex = rl.LoadTexture(s.pendingPath)
	if !rl.IsTextureValid(s.tex) {
		s.log.Warn().Str("texture", s.pendingPath).Msg("error loading globe texture")
		return
	}
	rl.SetTextureWrap(s.tex, rl.WrapRepeat)
	rl.SetTextureFilter(s.tex, rl.FilterBilinear)
	s.log.Debug().Str("texture", s.pendingPath).Msg("globe texture loaded")
}

// Sync moves the camera to the pose's distance.
func (s *Scene) Sync(p *geo.Pose) {
	z := float32(p.CameraZ)
	s.Camera.Position = rl.NewVector3(0, 0, z)
	s.Camera.Target = rl.NewVector3(0, 0, z-1)
}

// Pick returns the globe-local point under the screen position, or nil when the ray misses.
func (s *Scene) Pick(screen rl.Vector2, p *geo.Pose) *geo.Vec3 {
	ray := rl.GetScreenToWorldRay(screen, s.Camera)
	origin := geo.Vec3{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := geo.Vec3{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)}
	hit, ok := geo.RaySphere(origin, dir, p.Center(), p.Radius())
	if !ok {
		return nil
	}
	local := p.WorldToLocal(hit)
	return &local
}

// globeMatrix is the model transform of the globe: scale, yaw, pitch, then the sideways offset.
func globeMatrix(p *geo.Pose) rl.Matrix {
	sc := float32(p.Scale)
	m := rl.MatrixScale(sc, sc, sc)
	m = rl.MatrixMultiply(m, rl.MatrixRotateY(float32(p.Yaw)))
	m = rl.MatrixMultiply(m, rl.MatrixRotateX(float32(p.Pitch)))
	return rl.MatrixMultiply(m, rl.MatrixTranslate(float32(p.PositionX), 0, 0))
}

// markerMatrix places a unit ring at the marker, facing out along its normal, inside the globe
// transform.
func markerMatrix(mk *marker.Marker, globe rl.Matrix) rl.Matrix {
	sc := float32(mk.Scale)
	n := rl.NewVector3(float32(mk.Normal.X), float32(mk.Normal.Y), float32(mk.Normal.Z))
	m := rl.MatrixScale(sc, sc, sc)
	m = rl.MatrixMultiply(m, rl.QuaternionToMatrix(rl.QuaternionFromVector3ToVector3(zAxis, n)))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(float32(mk.Position.X), float32(mk.Position.Y), float32(mk.Position.Z)))
	return rl.MatrixMultiply(m, globe)
}

// Draw renders backdrop, globe and markers. Call after ClearBackground and before the 2D overlay.
func (s *Scene) Draw(p *geo.Pose, markers []*marker.Marker) {
	s.ensureTexture()
	rl.BeginMode3D(s.Camera)
	switch {
	case s.sky != nil:
		s.sky.draw(s.Camera.Position)
	case s.stars != nil:
		s.stars.draw()
	}

	pos := s.Camera.Position
	s.prims.SetView([3]float32{pos.X, pos.Y, pos.Z}, lightDir)
	globe := globeMatrix(p)
	s.prims.DrawGlobe(globe, s.tex, s.uOffset)

	for _, mk := range markers {
		m := markerMatrix(mk, globe)
		primitives.DrawRing(m, marker.RingInner, marker.RingOuter, 0, rl.Fade(markerColor, float32(mk.Opacity)))
		primitives.DrawDisc(m, marker.DotRadius, marker.SurfaceOffset, markerColor)
	}
	rl.EndMode3D()
}

// Close releases the globe texture.
func (s *Scene) Close() {
	if rl.IsTextureValid(s.tex) {
		rl.UnloadTexture(s.tex)
	}
}
