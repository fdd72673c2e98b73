// Package config provides YAML-based game configuration loading for the
// arcade platform.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// BubblesConfig contains all configuration for the Bubble Shooter game.
type BubblesConfig struct {
	Board   BubblesBoard   `yaml:"board"`
	Physics BubblesPhysics `yaml:"physics"`
	Spawn   BubblesSpawn   `yaml:"spawn"`
	Aim     BubblesAim     `yaml:"aim"`
}

// BubblesBoard defines the grid geometry.
type BubblesBoard struct {
	Cols    int     `yaml:"cols"`
	MaxRow  int     `yaml:"max_row"`
	LossRow int     `yaml:"loss_row"`
	Radius  float64 `yaml:"radius"`
	Height  float64 `yaml:"height"`
}

// BubblesPhysics defines projectile parameters.
type BubblesPhysics struct {
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	ShooterOffset   float64 `yaml:"shooter_offset"`
}

// BubblesSpawn defines how the starting board is dealt.
type BubblesSpawn struct {
	InitialRows int     `yaml:"initial_rows"`
	FillChance  float64 `yaml:"fill_chance"`
}

// BubblesAim defines the shooter arc. Min and Max are in units of pi.
type BubblesAim struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"` // Radians per key press
}

// Validate checks that the configuration describes a playable board.
func (c BubblesConfig) Validate() error {
	switch {
	case c.Board.Cols <= 0:
		return fmt.Errorf("%w: board.cols must be positive, got %d", ErrInvalidConfig, c.Board.Cols)
	case c.Board.MaxRow <= 0:
		return fmt.Errorf("%w: board.max_row must be positive, got %d", ErrInvalidConfig, c.Board.MaxRow)
	case c.Board.LossRow <= 0 || c.Board.LossRow > c.Board.MaxRow:
		return fmt.Errorf("%w: board.loss_row must be in [1, %d], got %d", ErrInvalidConfig, c.Board.MaxRow, c.Board.LossRow)
	case c.Board.Radius <= 0:
		return fmt.Errorf("%w: board.radius must be positive, got %v", ErrInvalidConfig, c.Board.Radius)
	case c.Board.Height <= 0:
		return fmt.Errorf("%w: board.height must be positive, got %v", ErrInvalidConfig, c.Board.Height)
	case c.Physics.ProjectileSpeed <= 0:
		return fmt.Errorf("%w: physics.projectile_speed must be positive, got %v", ErrInvalidConfig, c.Physics.ProjectileSpeed)
	case c.Physics.ShooterOffset <= 0 || c.Physics.ShooterOffset >= c.Board.Height:
		return fmt.Errorf("%w: physics.shooter_offset must be inside the board, got %v", ErrInvalidConfig, c.Physics.ShooterOffset)
	case c.Spawn.InitialRows < 0 || c.Spawn.InitialRows >= c.Board.LossRow:
		return fmt.Errorf("%w: spawn.initial_rows must be in [0, %d), got %d", ErrInvalidConfig, c.Board.LossRow, c.Spawn.InitialRows)
	case c.Spawn.FillChance < 0 || c.Spawn.FillChance > 1:
		return fmt.Errorf("%w: spawn.fill_chance must be in [0, 1], got %v", ErrInvalidConfig, c.Spawn.FillChance)
	case c.Aim.Min >= c.Aim.Max:
		return fmt.Errorf("%w: aim.min must be below aim.max, got %v >= %v", ErrInvalidConfig, c.Aim.Min, c.Aim.Max)
	case c.Aim.Min < -1 || c.Aim.Max > 0:
		return fmt.Errorf("%w: aim arc must face forward, got [%v, %v]", ErrInvalidConfig, c.Aim.Min, c.Aim.Max)
	case c.Aim.Step <= 0:
		return fmt.Errorf("%w: aim.step must be positive, got %v", ErrInvalidConfig, c.Aim.Step)
	}
	return nil
}
