package scene

import (
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Star field box: x and y in [-starSpread, starSpread], z in [-starDepth, -starNear] (behind the
// globe as seen from the camera).
const (
	starCount  = 6000
	starSpread = 200
	starDepth  = 600
	starNear   = 20
	starSize   = 0.12
)

type stars struct {
	points []rl.Vector3
}

func newStars(seed uint64) *stars {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := &stars{points: make([]rl.Vector3, starCount)}
	for i := range s.points {
		s.points[i] = rl.NewVector3(
			(r.Float32()-0.5)*2*starSpread,
			(r.Float32()-0.5)*2*starSpread,
			-starNear-r.Float32()*(starDepth-starNear),
		)
	}
	return s
}

// draw emits every star as a short white line segment in one batch.
func (s *stars) draw() {
	rl.Begin(rl.Lines)
	rl.Color4ub(255, 255, 255, 255)
	for _, p := range s.points {
		rl.Vertex3f(p.X, p.Y, p.Z)
		rl.Vertex3f(p.X+starSize, p.Y, p.Z)
	}
	rl.End()
}
