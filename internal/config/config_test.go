package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Run("returns override when set", func(t *testing.T) {
		orig := configDirOverride
		configDirOverride = "/tmp/test-config"
		t.Cleanup(func() { configDirOverride = orig })

		got := ConfigDir()
		if got != "/tmp/test-config" {
			t.Errorf("expected override dir, got %q", got)
		}
	})

	t.Run("returns home-based path when no override", func(t *testing.T) {
		orig := configDirOverride
		configDirOverride = ""
		t.Cleanup(func() { configDirOverride = orig })

		got := ConfigDir()
		if got == "" {
			t.Fatal("expected non-empty config dir")
		}
		if !strings.HasSuffix(got, filepath.Join(".config", "omsdash")) {
			t.Errorf("expected path ending in .config/omsdash, got %q", got)
		}
	})
}

func TestLogPath(t *testing.T) {
	p := LogPath()
	if p == "" {
		t.Fatal("expected non-empty log path")
	}
	if !strings.HasSuffix(p, filepath.Join("omsdash", "omsdash.log")) {
		t.Errorf("expected path ending in omsdash/omsdash.log, got %q", p)
	}
}

func TestDataDir(t *testing.T) {
	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".local", "share", "omsdash")) {
		t.Errorf("expected path ending in .local/share/omsdash, got %q", dir)
	}
}
