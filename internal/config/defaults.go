package config

import (
	_ "embed"
)

//go:embed defaults/bubbles.yaml
var defaultBubblesYAML []byte

// DefaultBubblesConfig returns the default Bubble Shooter configuration.
func DefaultBubblesConfig() BubblesConfig {
	return BubblesConfig{
		Board: BubblesBoard{
			Cols:    8,
			MaxRow:  9,
			LossRow: 9,
			Radius:  20,
			Height:  500,
		},
		Physics: BubblesPhysics{
			ProjectileSpeed: 8,
			ShooterOffset:   50,
		},
		Spawn: BubblesSpawn{
			InitialRows: 5,
			FillChance:  0.8,
		},
		Aim: BubblesAim{
			Min:  -0.95,
			Max:  -0.05,
			Step: 0.04,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "bubbles":
		return defaultBubblesYAML
	default:
		return nil
	}
}
