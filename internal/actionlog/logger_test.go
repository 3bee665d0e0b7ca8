package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestLogger_WritesSortedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := NewLogger(LogConfig{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()
	l.now = fixedClock

	l.Log(ActionSetOpacity, "req-1", map[string]interface{}{
		"window":  "0x2a",
		"opacity": 0.3,
	})

	got := readFile(t, path)
	want := `2026-03-04 05:06:07 [SET-OPACITY] id=req-1 opacity=0.3 window="0x2a"` + "\n"
	if got != want {
		t.Fatalf("entry = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("log mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := NewLogger(LogConfig{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	l.Log(ActionLoadImage, "", map[string]interface{}{"path": "/a.png"})
	l.Log(ActionSetOnTop, "", map[string]interface{}{"enabled": true})

	got := readFile(t, path)
	if strings.Contains(got, "LOAD-IMAGE") {
		t.Fatalf("debug action logged at info level: %q", got)
	}
	if !strings.Contains(got, "[SET-ON-TOP] enabled=true") {
		t.Fatalf("missing info action: %q", got)
	}
}

func TestLogger_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := NewLogger(LogConfig{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	l.Log(ActionSetOnTop, "first", nil)
	l.currentSize = 1024 * 1024
	l.Log(ActionSetOnTop, "second", nil)

	if !strings.Contains(readFile(t, path+".1"), "id=first") {
		t.Fatal("expected first entry in rotated file")
	}
	current := readFile(t, path)
	if !strings.Contains(current, "id=second") || strings.Contains(current, "id=first") {
		t.Fatalf("unexpected current file: %q", current)
	}
}

func TestLogger_DisabledAndNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := NewLogger(LogConfig{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Log(ActionSetOnTop, "", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled logger created a file: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilLogger *Logger
	nilLogger.Log(ActionSetOnTop, "", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
