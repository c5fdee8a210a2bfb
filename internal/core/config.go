package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to the terminal size.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Frames per second requested from the platform (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// FrameInterval returns the wall-clock time between frames.
func (c RuntimeConfig) FrameInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is a summary of the game for the platform layer.
type GameState struct {
	Score      int
	Combo      int
	Destroyed  int
	Total      int
	Paused     bool
	PartialWin bool // Ball left through the top with blocks remaining
	FullWin    bool // Every block destroyed
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
