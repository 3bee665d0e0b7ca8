package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImageInfoMode mirrors viewer.ImageInfoMode without importing it.
const (
	ImageInfoPlaceholder = "placeholder"
	ImageInfoDecode      = "decode"
)

// LoggingConfig configures the command action log.
type LoggingConfig struct {
	// Enabled turns command action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/inspiraview/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB rotates the log once it reaches this size (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files kept (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Display       string        `yaml:"display,omitempty"`
	XAuthority    string        `yaml:"xauthority,omitempty"`
	SocketPath    string        `yaml:"socket_path,omitempty"`
	WebSocketAddr string        `yaml:"websocket_addr,omitempty"`
	ImageInfo     string        `yaml:"image_info"`
	SniffMIME     bool          `yaml:"sniff_mime"`
	LogLevel      string        `yaml:"log_level"`
	Logging       LoggingConfig `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		ImageInfo: ImageInfoPlaceholder,
		LogLevel:  "info",
	}
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/inspiraview/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.ImageInfo {
	case ImageInfoPlaceholder, ImageInfoDecode:
	default:
		return &ValidationError{Path: "image_info", Err: fmt.Errorf("image_info must be one of: placeholder, decode")}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.SocketPath != "" && !filepath.IsAbs(c.SocketPath) {
		return &ValidationError{Path: "socket_path", Err: fmt.Errorf("socket_path must be an absolute path")}
	}
	if addr := strings.TrimSpace(c.WebSocketAddr); addr != "" && !strings.Contains(addr, ":") {
		return &ValidationError{Path: "websocket_addr", Err: fmt.Errorf("websocket_addr must be host:port")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}
