package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped log lines to ~/.local/share/omsdash/omsdash.log.
// All methods are nil-safe so collaborators can log unconditionally.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// LogPath returns the log file path, "" when the data dir is unavailable.
func LogPath() string {
	dir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName+".log")
}

// NewLogger creates a logger that appends to the data-dir log file. A
// logger that failed to open its file stays usable and drops output.
func NewLogger() *Logger {
	l := &Logger{}

	p := LogPath()
	if p == "" {
		return l
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return l
	}

	l.file = f
	return l
}

// Printf writes a timestamped log line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	fmt.Fprintf(l.file, ts+" "+format+"\n", args...)
}

// Close closes the log file.
func (l *Logger) Close() {
	if l == nil || l.file == nil {
		return
	}
	l.file.Close()
}
