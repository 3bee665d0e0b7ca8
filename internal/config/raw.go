package config

// RawLoggingConfig mirrors LoggingConfig with optional fields so an absent
// key keeps its default.
type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is the YAML document as written by the user.
type RawConfig struct {
	Display       *string           `yaml:"display"`
	XAuthority    *string           `yaml:"xauthority"`
	SocketPath    *string           `yaml:"socket_path"`
	WebSocketAddr *string           `yaml:"websocket_addr"`
	ImageInfo     *string           `yaml:"image_info"`
	SniffMIME     *bool             `yaml:"sniff_mime"`
	LogLevel      *string           `yaml:"log_level"`
	Logging       *RawLoggingConfig `yaml:"logging"`
}
