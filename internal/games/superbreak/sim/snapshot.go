package sim

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

// ErrSnapshotMismatch is returned when a snapshot does not fit the session grid.
var ErrSnapshotMismatch = errors.New("sim: snapshot does not match session")

// Snapshot is the complete mutable session state, using primitive types only
// for stable serialization.
type Snapshot struct {
	Tick uint64 `msgpack:"tick"`

	BallX      float64 `msgpack:"ball_x"`
	BallY      float64 `msgpack:"ball_y"`
	BallVX     float64 `msgpack:"ball_vx"`
	BallVY     float64 `msgpack:"ball_vy"`
	BallRadius float64 `msgpack:"ball_r"`
	BallSpeed  float64 `msgpack:"ball_speed"`
	PaddleX    float64 `msgpack:"paddle_x"`

	Score     int `msgpack:"score"`
	Combo     int `msgpack:"combo"`
	Destroyed int `msgpack:"destroyed"`

	PaddleContact bool `msgpack:"paddle_contact"`
	PartialWin    bool `msgpack:"partial_win"`
	FullWin       bool `msgpack:"full_win"`
	Paused        bool `msgpack:"paused"`

	Degenerate int `msgpack:"degenerate"` // Reflections skipped so far

	// Hidden flags, row*cols + col.
	Rows   int    `msgpack:"rows"`
	Cols   int    `msgpack:"cols"`
	Hidden []bool `msgpack:"hidden"`
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	hidden := make([]bool, 0, s.grid.Len())
	s.grid.Each(func(_ Key, b *surface.Obstacle) {
		hidden = append(hidden, b.Hidden)
	})

	return Snapshot{
		Tick:          s.ticks,
		BallX:         s.ball.Pos.X,
		BallY:         s.ball.Pos.Y,
		BallVX:        s.ball.Vel.X,
		BallVY:        s.ball.Vel.Y,
		BallRadius:    s.ball.Radius,
		BallSpeed:     s.ball.Speed,
		PaddleX:       s.paddle.CX,
		Score:         s.score,
		Combo:         s.combo,
		Destroyed:     s.destroyed,
		PaddleContact: s.paddleContact,
		PartialWin:    s.partialWin,
		FullWin:       s.fullWin,
		Paused:        s.paused,
		Degenerate:    s.degenerate,
		Rows:          s.grid.Rows(),
		Cols:          s.grid.Cols(),
		Hidden:        hidden,
	}
}

// Restore replaces the session state with snap. The session is unchanged when
// an error is returned.
func (s *Session) Restore(snap Snapshot) error {
	if snap.Rows != s.grid.Rows() || snap.Cols != s.grid.Cols() || len(snap.Hidden) != s.grid.Len() {
		return fmt.Errorf("%w: grid %dx%d with %d flags, want %dx%d",
			ErrSnapshotMismatch, snap.Rows, snap.Cols, len(snap.Hidden), s.grid.Rows(), s.grid.Cols())
	}
	hidden := 0
	for _, h := range snap.Hidden {
		if h {
			hidden++
		}
	}
	if hidden != snap.Destroyed {
		return fmt.Errorf("%w: %d hidden blocks but destroyed=%d", ErrSnapshotMismatch, hidden, snap.Destroyed)
	}
	if snap.FullWin && snap.Destroyed != s.grid.Len() {
		return fmt.Errorf("%w: full win with %d/%d blocks destroyed", ErrSnapshotMismatch, snap.Destroyed, s.grid.Len())
	}
	if snap.Score < 0 || snap.Combo < 0 || snap.Degenerate < 0 {
		return fmt.Errorf("%w: negative counter (score=%d combo=%d degenerate=%d)",
			ErrSnapshotMismatch, snap.Score, snap.Combo, snap.Degenerate)
	}
	vel := surface.V(snap.BallVX, snap.BallVY)
	if vel.IsZero() || !vel.IsFinite() || !(snap.BallSpeed > 0) || math.IsInf(snap.BallSpeed, 0) {
		return fmt.Errorf("%w: ball velocity (%g, %g) speed %g",
			ErrSnapshotMismatch, snap.BallVX, snap.BallVY, snap.BallSpeed)
	}
	if !(snap.BallRadius > 0) || math.IsInf(snap.BallRadius, 0) {
		return fmt.Errorf("%w: ball radius %g", ErrSnapshotMismatch, snap.BallRadius)
	}
	if !surface.V(snap.BallX, snap.BallY).IsFinite() || math.IsNaN(snap.PaddleX) || math.IsInf(snap.PaddleX, 0) {
		return fmt.Errorf("%w: ball (%g, %g) paddle x %g",
			ErrSnapshotMismatch, snap.BallX, snap.BallY, snap.PaddleX)
	}

	i := 0
	s.grid.Each(func(_ Key, b *surface.Obstacle) {
		b.Hidden = snap.Hidden[i]
		i++
	})

	s.ticks = snap.Tick
	s.ball.Pos = surface.V(snap.BallX, snap.BallY)
	s.ball.Vel = vel
	s.ball.Radius = snap.BallRadius
	s.ball.Speed = snap.BallSpeed
	s.paddle.CX = snap.PaddleX
	s.score = snap.Score
	s.combo = snap.Combo
	s.destroyed = snap.Destroyed
	s.paddleContact = snap.PaddleContact
	s.partialWin = snap.PartialWin
	s.fullWin = snap.FullWin
	s.paused = snap.Paused
	s.degenerate = snap.Degenerate
	return nil
}

// EncodeSnapshot writes snap to w as msgpack.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("sim: encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a msgpack snapshot from r.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("sim: decode snapshot: %w", err)
	}
	return snap, nil
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	var h uint64 = 17
	mix := func(v uint64) { h = h*31 + v }
	mixf := func(f float64) { mix(math.Float64bits(f)) }
	mixb := func(b bool) {
		if b {
			mix(1)
		} else {
			mix(0)
		}
	}

	mix(snap.Tick)
	mixf(snap.BallX)
	mixf(snap.BallY)
	mixf(snap.BallVX)
	mixf(snap.BallVY)
	mixf(snap.BallRadius)
	mixf(snap.BallSpeed)
	mixf(snap.PaddleX)
	mix(uint64(snap.Score))      //#nosec G115 -- hash computation
	mix(uint64(snap.Combo))      //#nosec G115 -- hash computation
	mix(uint64(snap.Destroyed))  //#nosec G115 -- hash computation
	mix(uint64(snap.Degenerate)) //#nosec G115 -- hash computation
	mixb(snap.PaddleContact)
	mixb(snap.PartialWin)
	mixb(snap.FullWin)
	mixb(snap.Paused)
	for _, v := range snap.Hidden {
		mixb(v)
	}
	return h
}
