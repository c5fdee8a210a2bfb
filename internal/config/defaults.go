package config

import (
	_ "embed"
)

//go:embed defaults/superbreak.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration. It matches the
// embedded YAML and is the fallback when that fails to parse.
func Default() Config {
	return Config{
		World: World{
			Width:  1400,
			Height: 920,
		},
		Grid: Grid{
			Columns:  8,
			Rows:     4,
			Margin:   10,
			ScaleY:   2,
			AreaRows: 3,
		},
		Paddle: Paddle{
			HypRadius: 150,
			ScaleY:    5,
			YFraction: 0.8,
			KeyStep:   40,
		},
		Ball: Ball{
			X:                341,
			Y:                513,
			VX:               180,
			VY:               240,
			Radius:           20,
			MinVerticalSpeed: 40,
		},
		Scoring: Scoring{
			Increment:  20,
			ClearBonus: 500,
		},
		Timing: Timing{
			MaxDelta: 0.25,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
