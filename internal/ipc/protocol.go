package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandLoadImage        CommandType = "LOAD_IMAGE"
	CommandDataURL          CommandType = "DATA_URL"
	CommandSetWindowOpacity CommandType = "SET_WINDOW_OPACITY"
	CommandSetAlwaysOnTop   CommandType = "SET_ALWAYS_ON_TOP"
	CommandGetImageInfo     CommandType = "GET_IMAGE_INFO"
	CommandGetStatus        CommandType = "GET_STATUS"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID        string          `json:"id,omitempty"`
	Status    string          `json:"status"` // "OK" or "ERROR"
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"` // "io", "window" or empty for protocol errors
}

// PathPayload is the payload for LOAD_IMAGE, DATA_URL and GET_IMAGE_INFO.
type PathPayload struct {
	Path string `json:"path"`
}

// OpacityPayload is the payload for SET_WINDOW_OPACITY. WindowID 0 targets
// the active window.
type OpacityPayload struct {
	WindowID uint32  `json:"window_id,omitempty"`
	Opacity  float64 `json:"opacity"`
}

// AlwaysOnTopPayload is the payload for SET_ALWAYS_ON_TOP. WindowID 0 targets
// the active window.
type AlwaysOnTopPayload struct {
	WindowID uint32 `json:"window_id,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// ImagePayloadData is returned by LOAD_IMAGE.
type ImagePayloadData struct {
	Payload string `json:"payload"`
}

// DataURLData is returned by DATA_URL.
type DataURLData struct {
	URL string `json:"url"`
}

// ImageInfoData is returned by GET_IMAGE_INFO.
type ImageInfoData struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
	Backend       string `json:"backend"`
	ImageInfoMode string `json:"image_info_mode"`
	WebSocketAddr string `json:"websocket_addr,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
