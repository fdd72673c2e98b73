// Package settings persists player preferences between sessions.
package settings

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory.
const AppName = "bubble-arcade"

const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

// Keys accepted by Set.
const (
	KeyPlayer    = "player"
	KeyShowGuide = "show_guide"
	KeyAimStep   = "aim_step"
)

// MaxPlayerLen bounds player names stored with scores.
const MaxPlayerLen = 24

var (
	// ErrUnknownKey is returned by Set for keys it does not manage.
	ErrUnknownKey = errors.New("unknown setting")
	// ErrInvalidValue is returned by Set when a value cannot be parsed or is out of range.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Settings holds player preferences.
type Settings struct {
	Player    string  `yaml:"player"`
	ShowGuide bool    `yaml:"show_guide"`
	AimStep   float64 `yaml:"aim_step"` // Radians per key press; 0 keeps the game config value
}

// Default returns the preferences used before anything is saved.
func Default() Settings {
	return Settings{ShowGuide: true}
}

// Manager loads and saves Settings through gdata.
// A nil store keeps settings in memory only.
type Manager struct {
	store   *gdata.Manager
	current Settings
	logger  *log.Logger
}

// Open creates a manager backed by the per-user gdata directory.
// If storage cannot be opened, the returned manager still works in memory
// and the error is reported alongside it.
func Open(appName string, logger *log.Logger) (*Manager, error) {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	m := NewManager(store, logger)
	if err != nil {
		m.store = nil
		return m, fmt.Errorf("settings: open storage: %w", err)
	}
	if err := m.Load(); err != nil {
		return m, err
	}
	return m, nil
}

// NewManager wraps an existing gdata manager. Call Load to read saved values.
func NewManager(store *gdata.Manager, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		store:   store,
		current: Default(),
		logger:  logger,
	}
}

// Load replaces the current settings with the saved ones.
// Missing data leaves the defaults in place.
func (m *Manager) Load() error {
	m.current = Default()
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}
	m.current = loaded
	m.logger.Debug("settings loaded", "player", loaded.Player)
	return nil
}

// Save writes the current settings.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}

	data, err := yaml.Marshal(m.current)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	m.logger.Debug("settings saved")
	return nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	return m.current
}

// Persistent reports whether settings survive the process.
func (m *Manager) Persistent() bool {
	return m.store != nil
}

// Set parses value and assigns it to key. It does not save.
func (m *Manager) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyPlayer:
		if utf8.RuneCountInString(value) > MaxPlayerLen {
			return fmt.Errorf("%w: player name longer than %d characters", ErrInvalidValue, MaxPlayerLen)
		}
		m.current.Player = value
	case KeyShowGuide:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, key, value)
		}
		m.current.ShowGuide = b
	case KeyAimStep:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || f < 0 || f > 0.5 {
			return fmt.Errorf("%w: %s expects radians in [0, 0.5], got %q", ErrInvalidValue, key, value)
		}
		m.current.AimStep = f
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Values returns every setting formatted for display, keyed by name.
func (m *Manager) Values() map[string]string {
	return map[string]string{
		KeyPlayer:    m.current.Player,
		KeyShowGuide: strconv.FormatBool(m.current.ShowGuide),
		KeyAimStep:   strconv.FormatFloat(m.current.AimStep, 'g', -1, 64),
	}
}

// Keys returns the setting names, sorted.
func Keys() []string {
	keys := []string{KeyPlayer, KeyShowGuide, KeyAimStep}
	sort.Strings(keys)
	return keys
}
