package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEases_Endpoints(t *testing.T) {
	eases := map[string]Ease{
		"linear":  Linear,
		"power1":  Power1Out,
		"power2o": Power2Out,
		"power4":  Power4Out,
		"back":    BackIn,
		"elastic": ElasticOut(1, 0.5),
	}
	for name, e := range eases {
		assert.InDelta(t, 0, e(0), 1e-9, name)
		assert.InDelta(t, 1, e(1), 1e-9, name)
	}
}

func TestBackIn_DipsBelowZero(t *testing.T) {
	assert.Less(t, BackIn(0.2), 0.0)
}

func TestEases_Curves(t *testing.T) {
	for _, x := range []float64{0.1, 0.3, 0.5, 0.9} {
		assert.InDelta(t, 1-(1-x)*(1-x), Power1Out(x), 1e-6, "quad out at %v", x)
		assert.InDelta(t, 1-(1-x)*(1-x)*(1-x), Power2Out(x), 1e-6, "cubic out at %v", x)
		assert.InDelta(t, x*x*(2.70158*x-1.70158), BackIn(x), 1e-6, "back in at %v", x)
		assert.InDelta(t, x, Linear(x), 1e-6, "linear at %v", x)
	}
	assert.Equal(t, 0.0, Power2Out(-1))
	assert.Equal(t, 1.0, BackIn(2))
}

func TestElasticOut_Overshoots(t *testing.T) {
	e := ElasticOut(1, 0.5)
	peak := 0.0
	for i := 1; i < 100; i++ {
		if v := e(float64(i) / 100); v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, 1.0)
}

func TestScheduler_ToReachesTarget(t *testing.T) {
	s := New()
	v := 0.0
	completed := false
	tw := s.To([]Prop{{Ptr: &v, To: 10}}, time.Second, Linear, func() { completed = true })

	s.Update(500 * time.Millisecond)
	assert.InDelta(t, 5, v, 1e-9)
	assert.False(t, completed)
	assert.True(t, s.Animating(&v))

	s.Update(600 * time.Millisecond)
	assert.Equal(t, 10.0, v)
	assert.True(t, completed)
	assert.True(t, tw.finished)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Animating(&v))
}

func TestScheduler_ZeroDurationIsSynchronous(t *testing.T) {
	s := New()
	v := 1.0
	calls := 0
	tw := s.To([]Prop{{Ptr: &v, To: 3}}, 0, nil, func() { calls++ })
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 1, calls)
	assert.True(t, tw.finished)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_LastWriteWins(t *testing.T) {
	s := New()
	v := 0.0
	firstDone := false
	first := s.To([]Prop{{Ptr: &v, To: 100}}, time.Second, Linear, func() { firstDone = true })
	s.Update(100 * time.Millisecond)

	second := s.To([]Prop{{Ptr: &v, To: -10}}, time.Second, Linear, nil)
	assert.True(t, first.finished, "superseded tween is finished")
	assert.False(t, second.finished)

	s.Update(2 * time.Second)
	assert.Equal(t, -10.0, v)
	assert.False(t, firstDone, "superseded completion never runs")
}

func TestScheduler_PartialSupersedeKeepsOtherProps(t *testing.T) {
	s := New()
	a, b := 0.0, 0.0
	done := false
	first := s.To([]Prop{{Ptr: &a, To: 1}, {Ptr: &b, To: 1}}, time.Second, Linear, func() { done = true })
	s.Set(&a, 7)

	assert.False(t, first.finished)
	s.Update(time.Second)
	assert.Equal(t, 7.0, a)
	assert.Equal(t, 1.0, b)
	assert.True(t, done)
}

func TestScheduler_ChainFromCompletion(t *testing.T) {
	s := New()
	v := 0.0
	var second *Tween
	s.To([]Prop{{Ptr: &v, To: 1}}, time.Second, Linear, func() {
		second = s.To([]Prop{{Ptr: &v, To: 2}}, time.Second, Linear, nil)
	})
	s.Update(time.Second)
	require.NotNil(t, second)
	assert.Equal(t, 1.0, v)

	s.Update(time.Second)
	assert.Equal(t, 2.0, v)
	assert.True(t, second.finished)
}

func TestScheduler_Kill(t *testing.T) {
	s := New()
	v := 0.0
	tw := s.To([]Prop{{Ptr: &v, To: 1}}, time.Second, Linear, nil)
	s.Update(250 * time.Millisecond)
	s.Kill(&v)
	s.Update(time.Second)

	assert.InDelta(t, 0.25, v, 1e-9)
	assert.True(t, tw.finished)
	s.Kill(&v)
}
