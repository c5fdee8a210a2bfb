package core

// Game is the interface the platform drives.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier, used for score storage and file names.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh game sized for the given terminal.
	Reset(cfg RuntimeConfig)

	// Resize adapts the projection to a new terminal size without touching
	// game state.
	Resize(width, height int)

	// Step advances the simulation by in.Delta seconds.
	Step(in InputFrame) StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *Screen)

	// State returns the current game summary.
	State() GameState
}
