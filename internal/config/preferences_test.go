package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	orig := configDirOverride
	dir := t.TempDir()
	configDirOverride = dir
	t.Cleanup(func() { configDirOverride = orig })
	return dir
}

func TestLoadPreferencesDefaults(t *testing.T) {
	withConfigDir(t)

	p := LoadPreferences()
	if p.AccentColor != "213" {
		t.Errorf("AccentColor = %q, want default 213", p.AccentColor)
	}
	if !p.FooterStats {
		t.Error("FooterStats should default to true")
	}
	if p.PollSeconds != 5 {
		t.Errorf("PollSeconds = %d, want 5", p.PollSeconds)
	}
}

func TestLoadPreferencesFromFile(t *testing.T) {
	dir := withConfigDir(t)

	content := `{"accent_color":"81","max_log_lines":500,"footer_stats":false,"poll_seconds":10}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	p := LoadPreferences()
	if p.AccentColor != "81" {
		t.Errorf("AccentColor = %q, want 81", p.AccentColor)
	}
	if p.MaxLogLines != 500 {
		t.Errorf("MaxLogLines = %d, want 500", p.MaxLogLines)
	}
	if p.FooterStats {
		t.Error("FooterStats should be false")
	}
	if p.PollSeconds != 10 {
		t.Errorf("PollSeconds = %d, want 10", p.PollSeconds)
	}
}

func TestLoadPreferencesEnvOverrides(t *testing.T) {
	withConfigDir(t)
	t.Setenv("OMSDASH_ACCENT", "114")
	t.Setenv("OMSDASH_POLL_SECONDS", "2")

	p := LoadPreferences()
	if p.AccentColor != "114" {
		t.Errorf("AccentColor = %q, want env override 114", p.AccentColor)
	}
	if p.PollSeconds != 2 {
		t.Errorf("PollSeconds = %d, want 2", p.PollSeconds)
	}
}

func TestLoadPreferencesInvalidPollClamped(t *testing.T) {
	dir := withConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"poll_seconds":-3}`), 0o600); err != nil {
		t.Fatal(err)
	}

	p := LoadPreferences()
	if p.PollSeconds != 5 {
		t.Errorf("PollSeconds = %d, want clamp to 5", p.PollSeconds)
	}
}

func TestSavePreferencesRoundTrip(t *testing.T) {
	withConfigDir(t)

	in := Preferences{AccentColor: "205", MaxLogLines: 100, FooterStats: true, PollSeconds: 7}
	if err := SavePreferences(in); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	out := LoadPreferences()
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
