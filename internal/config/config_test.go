package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.ImageInfo != ImageInfoPlaceholder {
		t.Fatalf("expected placeholder image_info by default, got %q", cfg.ImageInfo)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file loaded, got %q", res.File)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ImageInfo != ImageInfoPlaceholder {
		t.Fatalf("expected placeholder, got %q", res.Config.ImageInfo)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	data := strings.Join([]string{
		`display: ":1"`,
		`xauthority: "/tmp/test-xauth"`,
		`socket_path: "/tmp/iv.sock"`,
		`websocket_addr: "127.0.0.1:7411"`,
		`image_info: Decode`,
		`sniff_mime: true`,
		`log_level: debug`,
		`logging:`,
		`  enabled: true`,
		`  level: warn`,
		`  file: /tmp/iv-actions.log`,
		`  max_size_mb: 2`,
		`  max_files: 5`,
		``,
	}, "\n")

	res, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || cfg.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("display/xauthority not applied: %+v", cfg)
	}
	if cfg.SocketPath != "/tmp/iv.sock" || cfg.WebSocketAddr != "127.0.0.1:7411" {
		t.Fatalf("transport keys not applied: %+v", cfg)
	}
	if cfg.ImageInfo != ImageInfoDecode || !cfg.SniffMIME {
		t.Fatalf("viewer keys not applied: %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug slog level, got %v", cfg.SlogLevel())
	}
	logging := cfg.GetLoggingConfig()
	if !logging.Enabled || logging.Level != "warn" || logging.File != "/tmp/iv-actions.log" || logging.MaxSizeMB != 2 || logging.MaxFiles != 5 {
		t.Fatalf("logging not applied: %+v", logging)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.yaml") {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_InvalidValueHasSourceContext(t *testing.T) {
	path := writeConfig(t, "log_level: info\nimage_info: exif\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "image_info" {
		t.Fatalf("expected path image_info, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line in message, got %v", err)
	}
}

func TestLoadFromPath_LogLevelWarn(t *testing.T) {
	for _, level := range []string{"warn", "warning", "WARN"} {
		res, err := LoadFromPath(writeConfig(t, "log_level: "+level+"\n"))
		if err != nil {
			t.Fatalf("log_level %q: load: %v", level, err)
		}
		if got := res.Config.SlogLevel(); got != slog.LevelWarn {
			t.Fatalf("log_level %q: SlogLevel() = %v, want %v", level, got, slog.LevelWarn)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"relative socket", func(c *Config) { c.SocketPath = "iv.sock" }, "socket_path"},
		{"websocket without port", func(c *Config) { c.WebSocketAddr = "localhost" }, "websocket_addr"},
		{"bad logging level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"negative size", func(c *Config) { c.Logging.MaxSizeMB = -1 }, "logging.max_size_mb"},
		{"negative files", func(c *Config) { c.Logging.MaxFiles = -1 }, "logging.max_files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig().GetLoggingConfig()
	if cfg.MaxSizeMB != 10 || cfg.MaxFiles != 3 || cfg.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !strings.HasSuffix(cfg.File, filepath.Join(".local", "share", "inspiraview", "actions.log")) {
		t.Fatalf("unexpected default file %q", cfg.File)
	}
}

func TestExplain(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "sniff_mime: true\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "sniff_mime")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != true || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("explain sniff_mime = %v %+v", val, src)
	}

	val, src, err = Explain(res, "image_info")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != ImageInfoPlaceholder || src.Kind != SourceDefault {
		t.Fatalf("explain image_info = %v %+v", val, src)
	}

	if _, _, err := Explain(res, "nope"); err == nil {
		t.Fatal("expected error for unknown path")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.ImageInfo = ImageInfoDecode
	cfg.WebSocketAddr = "127.0.0.1:9000"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if res.Config.ImageInfo != ImageInfoDecode || res.Config.WebSocketAddr != "127.0.0.1:9000" {
		t.Fatalf("saved config not reloaded: %+v", res.Config)
	}
}
