package sim

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/superbreak/internal/config"
	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

const frameDT = 1.0 / 60

func newTestSession(t *testing.T, mutate ...func(*config.Config)) *Session {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s
}

// hideRow destroys every block in row without scoring.
func hideRow(s *Session, row int) {
	for col := range s.grid.Cols() {
		b := s.grid.At(row, col)
		if !b.Hidden {
			b.Hidden = true
			s.destroyed++
		}
	}
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 0, s.Destroyed())
	assert.Equal(t, 32, s.Total())
	assert.False(t, s.PartialWin())
	assert.False(t, s.FullWin())
	assert.False(t, s.Paused())

	ball := s.Ball()
	assert.Equal(t, surface.V(341, 513), ball.Pos)
	assert.Equal(t, 300.0, ball.Speed)

	paddle := s.Paddle()
	assert.Equal(t, surface.RolePaddle, paddle.Role)
	assert.Equal(t, core.NewRectF(550, 706, 300, 60), paddle.Bounds())

	res := s.Tick(Input{Delta: 0, PointerX: 700})
	require.Len(t, res.Blocks, 32)
	assert.Equal(t, Key{0, 0}, res.Blocks[0].Key)
	assert.Equal(t, core.NewRectF(0, 0, 164, 82), res.Blocks[0].Bounds)
	assert.Equal(t, 32, res.Total)
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Rows = 0

	_, err := NewSession(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTickIntegratesAndMovesPaddle(t *testing.T) {
	s := newTestSession(t)

	res := s.Tick(Input{Delta: 0.1, PointerX: 400})

	ball := s.Ball()
	assert.InDelta(t, 359, ball.Pos.X, 1e-9)
	assert.InDelta(t, 537, ball.Pos.Y, 1e-9)
	assert.Equal(t, 400.0, s.Paddle().CX)
	assert.Equal(t, core.NewRectF(250, 706, 300, 60), res.Paddle)
	assert.Equal(t, uint64(1), s.Ticks())
}

func TestPauseFreezesSimulation(t *testing.T) {
	s := newTestSession(t)
	before := s.Ball()

	res := s.Tick(Input{Delta: 1, PointerX: 100, TogglePause: true})
	assert.True(t, res.Paused)
	assert.Equal(t, before, s.Ball())
	assert.Equal(t, 700.0, s.Paddle().CX, "paddle ignores the pointer while paused")
	assert.Zero(t, s.Ticks())

	for range 10 {
		s.Tick(Input{Delta: 1, PointerX: 100})
	}
	assert.Equal(t, before, s.Ball())

	res = s.Tick(Input{Delta: 0.1, PointerX: 700, TogglePause: true})
	assert.False(t, res.Paused)
	assert.Equal(t, uint64(1), s.Ticks())
	assert.NotEqual(t, before.Pos, s.Ball().Pos)
}

func TestPaddleContactIsEdgeTriggered(t *testing.T) {
	s := newTestSession(t)
	s.ball.Pos = surface.V(700, 687)
	s.ball.Vel = surface.V(0, 300)
	s.combo = 3

	res := s.Tick(Input{Delta: 0, PointerX: 700})
	require.True(t, res.PaddleHit)
	assert.Equal(t, 0, res.Combo, "paddle contact resets the combo")
	assert.Less(t, s.ball.Vel.Y, 0.0, "ball sent back up")
	assert.InDelta(t, 300, s.ball.Vel.Len(), 1e-9)

	after := s.ball.Vel
	res = s.Tick(Input{Delta: 0, PointerX: 700})
	assert.False(t, res.PaddleHit, "still overlapping, no second reflection")
	assert.InDelta(t, after.X, s.ball.Vel.X, 1e-9)
	assert.InDelta(t, after.Y, s.ball.Vel.Y, 1e-9)

	// Separate, then come back.
	s.ball.Pos = surface.V(700, 500)
	res = s.Tick(Input{Delta: 0, PointerX: 700})
	assert.False(t, res.PaddleHit)
	assert.False(t, s.paddleContact)

	s.ball.Pos = surface.V(700, 687)
	s.ball.Vel = surface.V(0, 300)
	res = s.Tick(Input{Delta: 0, PointerX: 700})
	assert.True(t, res.PaddleHit)
}

func TestBlockHitsResolveInRowMajorOrder(t *testing.T) {
	s := newTestSession(t)
	// Overlaps blocks (0,0) and (1,0) at once.
	s.ball.Pos = surface.V(82, 101)
	s.ball.Vel = surface.V(0, -300)

	res := s.Tick(Input{Delta: 0, PointerX: 700})

	assert.Equal(t, []Key{{0, 0}, {1, 0}}, res.Hits)
	assert.Equal(t, 2, res.Combo)
	assert.Equal(t, 20*1+20*2, res.Score)
	assert.Equal(t, 2, res.Destroyed)
	assert.Len(t, res.Blocks, 30)
	assert.True(t, s.grid.At(0, 0).Hidden)
	assert.True(t, s.grid.At(1, 0).Hidden)
	// The closing min-vy pass may lift the speed above the target until
	// the next integration rescales it.
	maxSpeed := math.Hypot(s.ball.Speed, s.cfg.Ball.MinVerticalSpeed)
	assert.GreaterOrEqual(t, s.ball.Vel.Len(), s.ball.Speed-1e-9)
	assert.LessOrEqual(t, s.ball.Vel.Len(), maxSpeed+1e-9)

	// Hidden blocks never collide again.
	s.ball.Integrate(0)
	assert.InDelta(t, 300, s.ball.Vel.Len(), 1e-9)
	res = s.Tick(Input{Delta: 0, PointerX: 700})
	assert.Empty(t, res.Hits)
	assert.Equal(t, 60, res.Score)
	assert.Equal(t, 2, res.Combo)
}

func TestComboGrowsUntilPaddle(t *testing.T) {
	s := newTestSession(t)

	hit := func(row, col int) FrameResult {
		b := s.grid.At(row, col)
		s.ball.Pos = surface.V(b.CX, b.CY+b.HalfHeight()+s.ball.Radius-1)
		s.ball.Vel = surface.V(0, -300)
		return s.Tick(Input{Delta: 0, PointerX: 700})
	}

	// Row 3 blocks have nothing below them, so each hit is a single block.
	assert.Equal(t, 20, hit(3, 0).Score)
	assert.Equal(t, 20+40, hit(3, 2).Score)
	res := hit(3, 4)
	assert.Equal(t, 20+40+60, res.Score)
	assert.Equal(t, 3, res.Combo)

	s.ball.Pos = surface.V(700, 687)
	s.ball.Vel = surface.V(0, 300)
	res = s.Tick(Input{Delta: 0, PointerX: 700})
	require.True(t, res.PaddleHit)
	assert.Equal(t, 0, res.Combo)

	assert.Equal(t, 120+20, hit(3, 6).Score)
}

func TestFullClearAwardsBonusOnce(t *testing.T) {
	s := newTestSession(t)
	for row := range 3 {
		hideRow(s, row)
	}
	for col := range 7 {
		s.grid.At(3, col).Hidden = true
		s.destroyed++
	}
	require.Equal(t, 31, s.destroyed)

	s.ball.Pos = surface.V(1307, 377)
	s.ball.Vel = surface.V(0, -300)
	res := s.Tick(Input{Delta: 0, PointerX: 700})

	require.True(t, res.FullWin)
	assert.False(t, res.PartialWin)
	assert.Equal(t, 32, res.Destroyed)
	assert.Equal(t, 20+500, res.Score)
	assert.Empty(t, res.Blocks)

	for range 600 {
		res = s.Tick(Input{Delta: frameDT, PointerX: s.ball.Pos.X})
	}
	assert.Equal(t, 520, res.Score)
	assert.True(t, res.FullWin)
	assert.False(t, res.PartialWin, "no partial win after a full clear")
}

func TestPartialWinWhenBallLeavesTop(t *testing.T) {
	s := newTestSession(t)
	hideRow(s, 0)
	s.ball.Pos = surface.V(700, 5)
	s.ball.Vel = surface.V(0, -300)

	res := s.Tick(Input{Delta: 0.1, PointerX: 700})
	require.True(t, res.PartialWin)
	assert.False(t, res.FullWin)
	assert.Less(t, s.ball.Vel.Y, 0.0, "no top wall by default")

	res = s.Tick(Input{Delta: 0.1, PointerX: 700})
	assert.True(t, res.PartialWin)
	assert.Less(t, s.ball.Pos.Y, -40.0)
}

func TestTopBounce(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.World.TopBounce = true })
	hideRow(s, 0)
	s.ball.Pos = surface.V(700, 5)
	s.ball.Vel = surface.V(0, -300)

	res := s.Tick(Input{Delta: 0.1, PointerX: 700})
	assert.True(t, res.PartialWin)
	assert.Greater(t, s.ball.Vel.Y, 0.0)
}

func TestWallReflections(t *testing.T) {
	tests := []struct {
		name     string
		pos, vel surface.Vec
		check    func(t *testing.T, v surface.Vec)
	}{
		{
			name: "left wall",
			pos:  surface.V(10, 500), vel: surface.V(-180, 240),
			check: func(t *testing.T, v surface.Vec) { assert.InDelta(t, 180, v.X, 1e-9) },
		},
		{
			name: "right wall",
			pos:  surface.V(1395, 500), vel: surface.V(180, 240),
			check: func(t *testing.T, v surface.Vec) { assert.InDelta(t, -180, v.X, 1e-9) },
		},
		{
			name: "bottom wall",
			pos:  surface.V(100, 905), vel: surface.V(180, 240),
			check: func(t *testing.T, v surface.Vec) { assert.InDelta(t, -240, v.Y, 1e-9) },
		},
		{
			name: "moving away from the left wall",
			pos:  surface.V(10, 500), vel: surface.V(180, 240),
			check: func(t *testing.T, v surface.Vec) { assert.InDelta(t, 180, v.X, 1e-9) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t)
			s.ball.Pos = tc.pos
			s.ball.Vel = tc.vel
			s.Tick(Input{Delta: 0, PointerX: 700})
			tc.check(t, s.ball.Vel)
		})
	}
}

func TestMinVerticalSpeedApplied(t *testing.T) {
	s := newTestSession(t)
	s.ball.Pos = surface.V(700, 500)
	s.ball.Vel = surface.V(300, 0)

	s.Tick(Input{Delta: 0, PointerX: 700})
	assert.Equal(t, 40.0, s.ball.Vel.Y)

	s.ball.Vel = surface.V(299, -5)
	s.Tick(Input{Delta: 0, PointerX: 700})
	assert.Equal(t, -40.0, s.ball.Vel.Y)
}

func TestDegenerateNormalSkipsReflectionOnly(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	s, err := NewSession(cfg, WithLogger(log.New(&buf)))
	require.NoError(t, err)

	// An overflowing scale turns the normal into NaN at the center row.
	b := s.grid.At(0, 0)
	b.ScaleY = math.MaxFloat64
	s.ball.Pos = surface.V(b.CX, b.CY)
	s.ball.Vel = surface.V(180, 240)

	res := s.Tick(Input{Delta: 0, PointerX: 700})

	assert.Equal(t, 1, res.Degenerate)
	assert.Equal(t, 1, s.DegenerateNormals())
	assert.Equal(t, []Key{{0, 0}}, res.Hits, "block still destroyed")
	assert.Equal(t, 20, res.Score)
	assert.True(t, b.Hidden)
	assert.InDelta(t, 180, s.ball.Vel.X, 1e-9, "velocity unchanged")
	assert.InDelta(t, 240, s.ball.Vel.Y, 1e-9)
	assert.Contains(t, buf.String(), "skipping reflection")
}

func TestDegeneratePaddleNormal(t *testing.T) {
	s := newTestSession(t)
	s.paddle.ScaleY = math.MaxFloat64
	s.ball.Pos = surface.V(700, s.paddle.CY)
	s.ball.Vel = surface.V(180, 240)

	res := s.Tick(Input{Delta: 0, PointerX: 700})
	assert.True(t, res.PaddleHit)
	assert.Equal(t, 1, res.Degenerate)
	assert.InDelta(t, 240, s.ball.Vel.Y, 1e-9)
}

func followBall(s *Session) Input {
	x := core.ClampF(s.ball.Pos.X, 0, s.cfg.World.Width)
	return Input{Delta: frameDT, PointerX: x}
}

func TestLongRunInvariants(t *testing.T) {
	s := newTestSession(t)
	eps := s.cfg.Ball.MinVerticalSpeed
	maxSpeed := math.Hypot(s.ball.Speed, eps)

	prevScore, prevDestroyed := 0, 0
	wasPartial, wasFull := false, false
	for i := range 20000 {
		res := s.Tick(followBall(s))

		if res.Destroyed < prevDestroyed || res.Score < prevScore {
			t.Fatalf("tick %d: destroyed %d->%d score %d->%d", i, prevDestroyed, res.Destroyed, prevScore, res.Score)
		}
		if (wasPartial && !res.PartialWin) || (wasFull && !res.FullWin) {
			t.Fatalf("tick %d: win flag cleared", i)
		}
		if res.FullWin != (res.Destroyed == res.Total) {
			t.Fatalf("tick %d: full win %v with %d/%d destroyed", i, res.FullWin, res.Destroyed, res.Total)
		}
		if len(res.Blocks) != res.Total-res.Destroyed {
			t.Fatalf("tick %d: %d visible blocks, want %d", i, len(res.Blocks), res.Total-res.Destroyed)
		}

		v := s.ball.Vel
		if !v.IsFinite() || !s.ball.Pos.IsFinite() {
			t.Fatalf("tick %d: non-finite ball state %+v", i, s.ball)
		}
		if math.Abs(v.Y) < eps-1e-9 {
			t.Fatalf("tick %d: |vy| = %g below %g", i, math.Abs(v.Y), eps)
		}
		if l := v.Len(); l < s.ball.Speed-1e-6 || l > maxSpeed+1e-6 {
			t.Fatalf("tick %d: speed %g outside [%g, %g]", i, l, s.ball.Speed, maxSpeed)
		}

		prevScore, prevDestroyed = res.Score, res.Destroyed
		wasPartial, wasFull = res.PartialWin, res.FullWin
		if res.PartialWin {
			break
		}
	}
	assert.Positive(t, s.Destroyed(), "ball should break something")
}

func TestDeterminism(t *testing.T) {
	run := func() uint64 {
		s := newTestSession(t)
		for range 3000 {
			s.Tick(followBall(s))
		}
		snap := s.Snapshot()
		return snap.Hash()
	}

	assert.Equal(t, run(), run())
}
