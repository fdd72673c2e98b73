package main

import (
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/bubble-arcade/internal/core"
	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles"
	"github.com/vovakirdan/bubble-arcade/internal/platform/tui"
	"github.com/vovakirdan/bubble-arcade/internal/settings"
	"github.com/vovakirdan/bubble-arcade/internal/storage"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func logLevel() log.Level {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// newFileLogger logs to --log-file so the alternate screen stays clean.
// The returned function closes the file.
func newFileLogger() (*log.Logger, func()) {
	path := expandHome(flagLogFile)
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           logLevel(),
	})
	return logger, func() { f.Close() }
}

// newStderrLogger is used by commands that own no terminal UI.
func newStderrLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           logLevel(),
	})
}

// openStore opens the score ledger. Failures are logged and the caller
// continues without a ledger.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// ledger avoids wrapping a nil store in a non-nil interface.
func ledger(store *storage.Store) tui.Ledger {
	if store == nil {
		return nil
	}
	return store
}

// loadSettings opens the preference store and applies it to the games.
func loadSettings(logger *log.Logger) settings.Settings {
	mgr, err := settings.Open(settings.AppName, logger)
	if err != nil {
		logger.Warn("could not load settings", "err", err)
	}
	s := mgr.Get()

	bubbles.SetLogger(logger)
	bubbles.SetPreferences(bubbles.Preferences{
		ShowGuide: s.ShowGuide,
		AimStep:   s.AimStep,
	})
	return s
}

// playerName picks the name recorded with local scores.
func playerName(s settings.Settings) string {
	if s.Player != "" {
		return s.Player
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return storage.AnonymousPlayer
}

// runtimeConfig reads the terminal size and the global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
