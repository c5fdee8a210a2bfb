package superbreak

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/superbreak/internal/config"
	"github.com/vovakirdan/superbreak/internal/core"
)

const frameDT = 1.0 / 60

func newTestGame(t *testing.T) (*Game, *core.Screen) {
	t.Helper()
	g, err := New(config.Default())
	require.NoError(t, err)

	rt := core.DefaultConfig()
	g.Reset(rt)
	return g, core.NewScreen(rt.ScreenW, rt.ScreenH)
}

func step(g *Game, dt float64, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	in.Delta = dt
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Ball.Radius = 0

	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestGameIdentity(t *testing.T) {
	g, _ := newTestGame(t)
	assert.Equal(t, "superbreak", g.ID())
	assert.Equal(t, "Superbreak", g.Title())

	state := g.State()
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, 32, state.Total)
	assert.False(t, state.Paused)
}

func TestPointerMapsColumnToWorld(t *testing.T) {
	g, _ := newTestGame(t)

	in := core.NewInputFrame()
	in.Point(0)
	g.Step(in)
	assert.InDelta(t, 8.75, g.Pointer(), 1e-9)
	assert.InDelta(t, 8.75, g.Session().Paddle().CX, 1e-9)

	in.Clear()
	in.Point(79)
	g.Step(in)
	assert.InDelta(t, 1391.25, g.Pointer(), 1e-9)

	in.Clear()
	in.Point(500)
	g.Step(in)
	assert.Equal(t, 1400.0, g.Pointer(), "clamped to the world")
}

func TestKeysNudgePointer(t *testing.T) {
	g, _ := newTestGame(t)
	require.Equal(t, 700.0, g.Pointer())

	step(g, 0, core.ActionLeft)
	assert.Equal(t, 660.0, g.Pointer())

	step(g, 0, core.ActionRight)
	step(g, 0, core.ActionRight)
	assert.Equal(t, 740.0, g.Pointer())

	for range 100 {
		step(g, 0, core.ActionLeft)
	}
	assert.Equal(t, 0.0, g.Pointer())
}

func TestPauseToggle(t *testing.T) {
	g, screen := newTestGame(t)

	res := step(g, frameDT, core.ActionPause)
	require.True(t, res.State.Paused)
	before := g.Session().Ball()

	step(g, 1)
	assert.Equal(t, before, g.Session().Ball())

	g.Render(screen)
	out := screen.String()
	assert.Contains(t, out, "PAUSED")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")

	res = step(g, frameDT, core.ActionPause)
	assert.False(t, res.State.Paused)
}

func TestRenderLayout(t *testing.T) {
	g, screen := newTestGame(t)
	g.Render(screen)

	assert.Contains(t, screen.Row(0), "Score: 0")
	assert.Contains(t, screen.Row(0), "Blocks: 0/32")

	cell := screen.GetCell(4, 1)
	assert.Equal(t, BlockChar, cell.Rune, "top-left block starts on the first field row")
	assert.Equal(t, core.RowColor(0), cell.Color)

	out := screen.String()
	assert.Contains(t, out, string(BallChar))
	assert.Contains(t, out, string(PaddleChar))
	assert.NotContains(t, screen.Row(0), string(BlockChar), "field never draws over the HUD")
}

func TestRenderTooSmall(t *testing.T) {
	g, _ := newTestGame(t)
	g.Resize(19, 6)

	screen := core.NewScreen(19, 6)
	g.Render(screen)
	assert.Contains(t, screen.String(), "too small")
}

func TestResizeKeepsSession(t *testing.T) {
	g, _ := newTestGame(t)
	for range 60 {
		step(g, frameDT)
	}
	s := g.Session()
	ticks := s.Ticks()

	g.Resize(120, 40)
	assert.Same(t, s, g.Session())
	assert.Equal(t, ticks, g.Session().Ticks())
}

func TestResetStartsFreshSession(t *testing.T) {
	g, _ := newTestGame(t)
	for range 60 {
		step(g, frameDT)
	}
	old := g.Session()

	g.Reset(core.DefaultConfig())
	assert.NotSame(t, old, g.Session())
	assert.Zero(t, g.Session().Ticks())
	assert.Equal(t, 700.0, g.Pointer())
}

func TestFullWinOverlay(t *testing.T) {
	g, screen := newTestGame(t)

	snap := g.Session().Snapshot()
	for i := range snap.Hidden {
		snap.Hidden[i] = true
	}
	snap.Destroyed = len(snap.Hidden)
	snap.FullWin = true
	snap.Score = 1140
	require.NoError(t, g.Session().Restore(snap))
	g.last = g.Session().Frame()

	g.Render(screen)
	out := screen.String()
	assert.Contains(t, out, "All blocks destroyed! Score: 1140")
	assert.Equal(t, 1, strings.Count(out, "┌"), "overlay is framed")
	assert.NotContains(t, out, string(BlockChar))
	assert.True(t, g.State().FullWin)
}

func TestDeterminism(t *testing.T) {
	run := func() uint64 {
		g, _ := newTestGame(t)
		in := core.NewInputFrame()
		for i := range 2000 {
			in.Clear()
			in.Delta = frameDT
			in.Point((i / 7) % 80)
			g.Step(in)
		}
		snap := g.Session().Snapshot()
		return snap.Hash()
	}

	assert.Equal(t, run(), run())
}
