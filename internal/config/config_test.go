package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBubblesConfigValid(t *testing.T) {
	if err := DefaultBubblesConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	cfg, err := parseBubbles(GetDefaultYAML("bubbles"))
	if err != nil {
		t.Fatalf("embedded YAML invalid: %v", err)
	}
	if cfg != DefaultBubblesConfig() {
		t.Errorf("embedded YAML differs from defaults:\n%+v\n%+v", cfg, DefaultBubblesConfig())
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BubblesConfig)
	}{
		{"zero cols", func(c *BubblesConfig) { c.Board.Cols = 0 }},
		{"negative radius", func(c *BubblesConfig) { c.Board.Radius = -1 }},
		{"loss past max row", func(c *BubblesConfig) { c.Board.LossRow = 12 }},
		{"fill chance above one", func(c *BubblesConfig) { c.Spawn.FillChance = 1.5 }},
		{"initial rows reach loss row", func(c *BubblesConfig) { c.Spawn.InitialRows = 9 }},
		{"inverted arc", func(c *BubblesConfig) { c.Aim.Min, c.Aim.Max = -0.1, -0.9 }},
		{"backward arc", func(c *BubblesConfig) { c.Aim.Max = 0.2 }},
		{"zero speed", func(c *BubblesConfig) { c.Physics.ProjectileSpeed = 0 }},
		{"shooter below board", func(c *BubblesConfig) { c.Physics.ShooterOffset = 600 }},
		{"zero aim step", func(c *BubblesConfig) { c.Aim.Step = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBubblesConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadBubblesCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bubbles.yaml")
	data := []byte("board:\n  cols: 10\nspawn:\n  fill_chance: 0.5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBubbles(path)
	if err != nil {
		t.Fatalf("LoadBubbles: %v", err)
	}
	if cfg.Board.Cols != 10 || cfg.Spawn.FillChance != 0.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Board.Radius != 20 {
		t.Errorf("unset keys should keep defaults, radius = %v", cfg.Board.Radius)
	}
}

func TestLoadBubblesCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBubbles(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("spawn:\n  fill_chance: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadBubbles(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if cfg != DefaultBubblesConfig() {
		t.Error("failed load should hand back defaults")
	}
}

func TestLoadBubblesUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".arcade", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bubbles.yaml"), []byte("physics:\n  projectile_speed: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBubbles("")
	if err != nil {
		t.Fatalf("LoadBubbles: %v", err)
	}
	if cfg.Physics.ProjectileSpeed != 12 {
		t.Errorf("user config not picked up, speed = %v", cfg.Physics.ProjectileSpeed)
	}
}

func TestLoadBubblesFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadBubbles("")
	if err != nil {
		t.Fatalf("LoadBubbles: %v", err)
	}
	if cfg != DefaultBubblesConfig() {
		t.Errorf("expected embedded defaults, got %+v", cfg)
	}
}
