package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays the keys present in raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		xauth, err := expandHome(*raw.XAuthority)
		if err != nil {
			return nil, &ValidationError{Path: "xauthority", Err: err}
		}
		cfg.XAuthority = xauth
	}
	if raw.SocketPath != nil {
		socket, err := expandHome(*raw.SocketPath)
		if err != nil {
			return nil, &ValidationError{Path: "socket_path", Err: err}
		}
		cfg.SocketPath = socket
	}
	if raw.WebSocketAddr != nil {
		cfg.WebSocketAddr = strings.TrimSpace(*raw.WebSocketAddr)
	}
	if raw.ImageInfo != nil {
		cfg.ImageInfo = strings.ToLower(strings.TrimSpace(*raw.ImageInfo))
	}
	if raw.SniffMIME != nil {
		cfg.SniffMIME = *raw.SniffMIME
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			file, err := expandHome(*raw.Logging.File)
			if err != nil {
				return nil, &ValidationError{Path: "logging.file", Err: err}
			}
			cfg.Logging.File = file
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}

	return cfg, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
