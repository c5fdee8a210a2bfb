package physics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

const tol = 1e-6

func TestNewBallSpeed(t *testing.T) {
	b := NewBall(surface.V(341, 513), surface.V(180, 240), 20)
	assert.InDelta(t, 300, b.Speed, tol)
}

func TestIntegrate(t *testing.T) {
	b := NewBall(surface.V(0, 0), surface.V(180, 240), 20)
	b.Integrate(0.5)

	assert.InDelta(t, 90, b.Pos.X, tol)
	assert.InDelta(t, 120, b.Pos.Y, tol)
	assert.InDelta(t, 300, b.Vel.Len(), tol)
}

func TestIntegrateCorrectsDrift(t *testing.T) {
	b := NewBall(surface.V(0, 0), surface.V(180, 240), 20)
	b.Vel = surface.V(100, 10) // what the min vertical speed rule can leave behind

	b.Integrate(1.0 / 60)

	assert.InDelta(t, 300, b.Vel.Len(), tol)
	assert.InDelta(t, 10.0/100, b.Vel.Y/b.Vel.X, tol, "direction is kept")
}

func TestIntegrateZeroVelocityPanics(t *testing.T) {
	b := Ball{Pos: surface.V(1, 1), Radius: 5, Speed: 300}
	assert.PanicsWithValue(t, ErrZeroVelocity, func() { b.Integrate(0.1) })
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name   string
		vel    surface.Vec
		normal surface.Vec
		want   surface.Vec
	}{
		{"floor normal flips vy", surface.V(180, 240), surface.V(0, -1), surface.V(180, -240)},
		{"unnormalized normal", surface.V(180, 240), surface.V(0, 25), surface.V(180, -240)},
		{"wall normal flips vx", surface.V(180, 240), surface.V(1, 0), surface.V(-180, 240)},
		{"head-on diagonal", surface.V(300/math.Sqrt2, 300/math.Sqrt2), surface.V(-1, -1), surface.V(-300/math.Sqrt2, -300/math.Sqrt2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBall(surface.V(0, 0), tc.vel, 20)
			require.NoError(t, b.Reflect(tc.normal, 300))
			assert.InDelta(t, tc.want.X, b.Vel.X, tol)
			assert.InDelta(t, tc.want.Y, b.Vel.Y, tol)
			assert.InDelta(t, 300, b.Vel.Len(), tol)
		})
	}
}

func TestReflectRescalesToRequestedSpeed(t *testing.T) {
	b := NewBall(surface.V(0, 0), surface.V(3, 4), 1)
	require.NoError(t, b.Reflect(surface.V(0, 1), 300))

	assert.InDelta(t, 180, b.Vel.X, tol)
	assert.InDelta(t, -240, b.Vel.Y, tol)
}

func TestReflectDegenerateNormal(t *testing.T) {
	for _, n := range []surface.Vec{surface.V(0, 0), surface.V(math.NaN(), 1), surface.V(math.Inf(1), 0)} {
		b := NewBall(surface.V(0, 0), surface.V(180, 240), 20)
		err := b.Reflect(n, 300)
		assert.ErrorIs(t, err, ErrDegenerateNormal)
		assert.Equal(t, surface.V(180, 240), b.Vel, "velocity must be untouched")
	}
}

func TestEnforceMinVerticalSpeed(t *testing.T) {
	tests := []struct {
		name   string
		vel    surface.Vec
		wantVX float64
		wantVY float64
	}{
		{"slow downward lifted", surface.V(100, 10), 100, 40},
		{"slow upward keeps sign", surface.V(100, -10), 100, -40},
		{"zero goes downward", surface.V(100, 0), 100, 40},
		{"fast enough untouched", surface.V(100, -41), 100, -41},
		{"exactly eps untouched", surface.V(5, 40), 5, 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := Ball{Vel: tc.vel}
			b.EnforceMinVerticalSpeed(40)
			assert.Equal(t, tc.wantVX, b.Vel.X)
			assert.Equal(t, tc.wantVY, b.Vel.Y)
		})
	}
}

func TestBroadOverlap(t *testing.T) {
	o, err := surface.New(100, 100, 2, 50, surface.RoleBlock) // half extents 50 x 25
	require.NoError(t, err)

	tests := []struct {
		name string
		pos  surface.Vec
		want bool
	}{
		{"center", surface.V(100, 100), true},
		{"just inside right", surface.V(100+50+9.9, 100), true},
		{"touching right", surface.V(100+50+10, 100), false},
		{"just inside top", surface.V(100, 100-25-9.9), true},
		{"outside top", surface.V(100, 100-25-10.1), false},
		{"box corner counts", surface.V(159, 134), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := Ball{Pos: tc.pos, Radius: 10}
			assert.Equal(t, tc.want, BroadOverlap(b, o))
			assert.Equal(t, tc.want, b.Bounds().Intersects(o.Bounds()), "agrees with rectangle overlap")
		})
	}
}

// Speed is conserved through arbitrary sequences of reflections and integrations.
func TestSpeedConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewBall(surface.V(700, 460), surface.V(180, 240), 20)

	for i := range 5000 {
		n := surface.V(rng.Float64()*2-1, rng.Float64()*2-1)
		if !n.IsZero() {
			require.NoError(t, b.Reflect(n, b.Speed))
		}
		if i%7 == 0 {
			b.EnforceMinVerticalSpeed(40)
		}
		b.Integrate(1.0 / 60)
		require.InDelta(t, 300, b.Vel.Len(), tol, "iteration %d", i)
	}
}
