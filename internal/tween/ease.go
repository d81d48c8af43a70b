package tween

import (
	"math"

	"github.com/gen2brain/raylib-go/easings"
)

// Ease maps linear progress in [0, 1] to eased progress. Ease(0) == 0 and Ease(1) == 1.
type Ease func(t float64) float64

// curve adapts a Penner function from easings to a unit Ease. Endpoints are pinned so float32
// rounding never leaves a property short of its target.
func curve(f func(t, b, c, d float32) float32) Ease {
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return float64(f(float32(t), 0, 1, 1))
	}
}

var (
	// Linear is the identity ease.
	Linear = curve(easings.LinearNone)

	// Power1Out decelerates quadratically. It is the default when no ease is given.
	Power1Out = curve(easings.QuadOut)

	// Power2Out decelerates cubically.
	Power2Out = curve(easings.CubicOut)

	// BackIn pulls back before accelerating towards the end, with the usual 1.70158 overshoot.
	BackIn = curve(easings.BackIn)
)

// Power4Out decelerates with a fifth-power curve.
func Power4Out(t float64) float64 { return 1 - math.Pow(1-t, 5) }

// ElasticOut overshoots and settles like a spring. amplitude below 1 is treated as 1.
func ElasticOut(amplitude, period float64) Ease {
	amp := math.Max(1, amplitude)
	if period <= 0 {
		period = 0.3
	}
	shift := period / (2 * math.Pi) * math.Asin(1/amp)
	freq := 2 * math.Pi / period
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		return amp*math.Pow(2, -10*t)*math.Sin((t-shift)*freq) + 1
	}
}
