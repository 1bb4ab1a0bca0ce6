package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Preferences holds user-configurable display settings. Persisted to
// ~/.config/omsdash/config.json; environment variables override the
// file on load.
type Preferences struct {
	// AccentColor is a 256-color palette index used for the active
	// pane title and pending tool cards.
	AccentColor string `json:"accent_color,omitempty"`
	// MaxLogLines caps how many event-feed lines are kept rendered.
	// 0 means unlimited.
	MaxLogLines int `json:"max_log_lines,omitempty"`
	// FooterStats toggles the token/cost footer line.
	FooterStats bool `json:"footer_stats"`
	// PollSeconds is the task-snapshot poll interval.
	PollSeconds int `json:"poll_seconds,omitempty"`
}

// DefaultPreferences returns the default set of preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		AccentColor: "213",
		MaxLogLines: 0,
		FooterStats: true,
		PollSeconds: 5,
	}
}

// ConfigFilePath returns the path of the preferences file.
func ConfigFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// LoadPreferences reads preferences from the config file, then applies
// OMSDASH_* environment overrides. A missing or unreadable file yields
// the defaults.
func LoadPreferences() Preferences {
	p := DefaultPreferences()

	if path := ConfigFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, &p); err != nil {
				fmt.Fprintf(os.Stderr, "config: parse %s: %v\n", path, err)
			}
		}
	}

	if v := os.Getenv("OMSDASH_ACCENT"); v != "" {
		p.AccentColor = v
	}
	if v := os.Getenv("OMSDASH_MAX_LOG_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.MaxLogLines = n
		}
	}
	if v := os.Getenv("OMSDASH_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PollSeconds = n
		}
	}

	if p.PollSeconds <= 0 {
		p.PollSeconds = 5
	}
	return p
}

// SavePreferences writes preferences to the config file.
func SavePreferences(p Preferences) error {
	dir := ConfigDir()
	if dir == "" {
		return fmt.Errorf("config dir unavailable")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
