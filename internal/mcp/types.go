package mcp

// PathInput is the input for tools that take a single file path.
type PathInput struct {
	Path string `json:"path" jsonschema:"Absolute path of the image file"`
}

// LoadImageOutput is the output for the load_image tool.
type LoadImageOutput struct {
	Payload string `json:"payload"`
	Bytes   int    `json:"bytes"`
}

// DataURLOutput is the output for the data_url tool.
type DataURLOutput struct {
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}

// SetWindowOpacityInput is the input for the set_window_opacity tool.
type SetWindowOpacityInput struct {
	WindowID uint32  `json:"window_id,omitempty" jsonschema:"X11 window id (default: the active window)"`
	Opacity  float64 `json:"opacity" jsonschema:"Requested opacity. Values are clamped to the range 0.3 to 1.0"`
}

// SetWindowOpacityOutput is the output for the set_window_opacity tool.
type SetWindowOpacityOutput struct {
	WindowID uint32  `json:"window_id"`
	Opacity  float64 `json:"opacity"`
	Applied  bool    `json:"applied"`
}

// SetAlwaysOnTopInput is the input for the set_always_on_top tool.
type SetAlwaysOnTopInput struct {
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"X11 window id (default: the active window)"`
	Enabled  bool   `json:"enabled" jsonschema:"Keep the window above others when true"`
}

// SetAlwaysOnTopOutput is the output for the set_always_on_top tool.
type SetAlwaysOnTopOutput struct {
	WindowID uint32 `json:"window_id"`
	Enabled  bool   `json:"enabled"`
}

// ImageInfoOutput is the output for the get_image_info tool.
type ImageInfoOutput struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}
