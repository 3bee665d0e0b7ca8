package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	xauthority
//	socket_path
//	websocket_addr
//	image_info
//	sniff_mime
//	log_level
//	logging.enabled
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "socket_path":
		return cfg.SocketPath, nil
	case "websocket_addr":
		return cfg.WebSocketAddr, nil
	case "image_info":
		return cfg.ImageInfo, nil
	case "sniff_mime":
		return cfg.SniffMIME, nil
	case "log_level":
		return cfg.LogLevel, nil
	}

	if strings.HasPrefix(path, "logging.") {
		logging := cfg.GetLoggingConfig()
		switch strings.TrimPrefix(path, "logging.") {
		case "enabled":
			return logging.Enabled, nil
		case "level":
			return logging.Level, nil
		case "file":
			return logging.File, nil
		case "max_size_mb":
			return logging.MaxSizeMB, nil
		case "max_files":
			return logging.MaxFiles, nil
		}
	}

	return nil, fmt.Errorf("unknown config path %q", path)
}
