// Package config provides YAML-based configuration loading, validation and
// difficulty presets for superbreak.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains all gameplay constants. They are fixed once a session starts.
type Config struct {
	World   World   `yaml:"world"`
	Grid    Grid    `yaml:"grid"`
	Paddle  Paddle  `yaml:"paddle"`
	Ball    Ball    `yaml:"ball"`
	Scoring Scoring `yaml:"scoring"`
	Timing  Timing  `yaml:"timing"`
}

// World defines the play field in world units.
type World struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	TopBounce bool    `yaml:"top_bounce"` // Reflect at the top instead of letting the ball break out
}

// Grid defines the block layout.
type Grid struct {
	Columns  int     `yaml:"columns"`
	Rows     int     `yaml:"rows"`
	Margin   float64 `yaml:"margin"`    // Horizontal gap between neighbouring blocks
	ScaleY   float64 `yaml:"scale_y"`   // Superellipse vertical scale of every block
	AreaRows int     `yaml:"area_rows"` // Row spacing is height / (area_rows*(rows-1)+1)
}

// Paddle defines the paddle shape and placement.
type Paddle struct {
	HypRadius float64 `yaml:"hypradius"`
	ScaleY    float64 `yaml:"scale_y"`
	YFraction float64 `yaml:"y_fraction"` // Center y as a fraction of the world height
	KeyStep   float64 `yaml:"key_step"`   // Pointer nudge per key press, world units
}

// Ball defines the initial ball state.
type Ball struct {
	X                float64 `yaml:"x"`
	Y                float64 `yaml:"y"`
	VX               float64 `yaml:"vx"`
	VY               float64 `yaml:"vy"`
	Radius           float64 `yaml:"radius"`
	MinVerticalSpeed float64 `yaml:"min_vertical_speed"`
}

// Scoring defines score awards.
type Scoring struct {
	Increment  int `yaml:"increment"`   // Multiplied by the combo for each block
	ClearBonus int `yaml:"clear_bonus"` // Awarded once when every block is destroyed
}

// Timing defines frame delta handling.
type Timing struct {
	MaxDelta float64 `yaml:"max_delta"` // Seconds; 0 disables the cap
}

// BlockHypRadius derives the block half-width from the world width and
// column count so neighbours sit roughly 2*h + margin apart.
func (c Config) BlockHypRadius() float64 {
	if c.Grid.Columns <= 0 {
		return 0
	}
	return math.Floor((math.Floor(c.World.Width/float64(c.Grid.Columns)) - c.Grid.Margin) / 2)
}

// StepX returns the horizontal distance between block centers.
func (c Config) StepX() float64 {
	if c.Grid.Columns <= 0 {
		return 0
	}
	return math.Floor(c.World.Width / float64(c.Grid.Columns))
}

// StepY returns the vertical distance between block centers.
func (c Config) StepY() float64 {
	div := c.Grid.AreaRows*(c.Grid.Rows-1) + 1
	if div <= 0 {
		return 0
	}
	return math.Floor(c.World.Height / float64(div))
}

// Validate checks the constants the simulation relies on.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, name, v))
		}
	}

	finite := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be a finite number, got %g", ErrInvalidConfig, name, v))
		}
	}

	finite("grid.margin", c.Grid.Margin)
	finite("paddle.y_fraction", c.Paddle.YFraction)
	finite("paddle.key_step", c.Paddle.KeyStep)
	finite("ball.x", c.Ball.X)
	finite("ball.y", c.Ball.Y)
	finite("ball.vx", c.Ball.VX)
	finite("ball.vy", c.Ball.VY)
	finite("ball.min_vertical_speed", c.Ball.MinVerticalSpeed)
	finite("timing.max_delta", c.Timing.MaxDelta)

	positive("world.width", c.World.Width)
	positive("world.height", c.World.Height)
	positive("grid.scale_y", c.Grid.ScaleY)
	positive("paddle.hypradius", c.Paddle.HypRadius)
	positive("paddle.scale_y", c.Paddle.ScaleY)
	positive("ball.radius", c.Ball.Radius)

	if c.Grid.Columns <= 0 || c.Grid.Rows <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid must have at least one column and row, got %dx%d",
			ErrInvalidConfig, c.Grid.Columns, c.Grid.Rows))
	} else {
		positive("block hypradius (world.width/grid.columns - grid.margin)/2", c.BlockHypRadius())
	}
	if c.Grid.AreaRows <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid.area_rows must be positive, got %d", ErrInvalidConfig, c.Grid.AreaRows))
	}
	if c.Ball.VX == 0 && c.Ball.VY == 0 {
		errs = append(errs, fmt.Errorf("%w: ball velocity must be non-zero", ErrInvalidConfig))
	}
	if c.Ball.MinVerticalSpeed < 0 {
		errs = append(errs, fmt.Errorf("%w: ball.min_vertical_speed must not be negative", ErrInvalidConfig))
	}
	if speed := math.Hypot(c.Ball.VX, c.Ball.VY); c.Ball.MinVerticalSpeed >= speed && speed > 0 {
		errs = append(errs, fmt.Errorf("%w: ball.min_vertical_speed %g must be below the ball speed %g",
			ErrInvalidConfig, c.Ball.MinVerticalSpeed, speed))
	}
	if c.Paddle.YFraction <= 0 || c.Paddle.YFraction >= 1 {
		errs = append(errs, fmt.Errorf("%w: paddle.y_fraction must be in (0, 1), got %g", ErrInvalidConfig, c.Paddle.YFraction))
	}
	if c.Scoring.Increment < 0 || c.Scoring.ClearBonus < 0 {
		errs = append(errs, fmt.Errorf("%w: scoring values must not be negative", ErrInvalidConfig))
	}
	if c.Timing.MaxDelta < 0 {
		errs = append(errs, fmt.Errorf("%w: timing.max_delta must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset. Empty input yields "".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "":
		return "", nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset scales ball speed and paddle size for a difficulty preset.
// Normal leaves the configuration as loaded.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	var speed, paddle float64
	switch preset {
	case DifficultyEasy:
		speed, paddle = 0.8, 1.25
	case DifficultyHard:
		speed, paddle = 1.3, 0.75
	default:
		return
	}
	cfg.Ball.VX *= speed
	cfg.Ball.VY *= speed
	cfg.Ball.MinVerticalSpeed *= speed
	cfg.Paddle.HypRadius *= paddle
}
