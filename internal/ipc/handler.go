package ipc

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/1broseidon/inspiraview/internal/actionlog"
	"github.com/1broseidon/inspiraview/internal/platform"
	"github.com/1broseidon/inspiraview/internal/viewer"
)

// Handler maps requests onto the viewer command surface. It is shared by the
// Unix socket and WebSocket servers and is safe for concurrent use.
type Handler struct {
	commands  *viewer.Commands
	logger    *actionlog.Logger
	startTime time.Time

	// Reported by GET_STATUS.
	BackendName   string
	ImageInfoMode string
	WebSocketAddr string
}

// NewHandler creates a handler. logger may be nil.
func NewHandler(commands *viewer.Commands, logger *actionlog.Logger) *Handler {
	return &Handler{
		commands:  commands,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Handle processes one request. The response always echoes req.ID.
func (h *Handler) Handle(req *Request) *Response {
	resp := h.dispatch(req)
	resp.ID = req.ID
	if resp.Status == StatusError {
		h.logger.Log(actionlog.ActionCommandFail, req.ID, map[string]interface{}{
			"command": string(req.Command),
			"error":   resp.Error,
			"kind":    resp.ErrorKind,
		})
	}
	return resp
}

func (h *Handler) dispatch(req *Request) *Response {
	switch req.Command {
	case CommandLoadImage:
		return h.handleLoadImage(req)
	case CommandDataURL:
		return h.handleDataURL(req)
	case CommandSetWindowOpacity:
		return h.handleSetWindowOpacity(req)
	case CommandSetAlwaysOnTop:
		return h.handleSetAlwaysOnTop(req)
	case CommandGetImageInfo:
		return h.handleGetImageInfo(req)
	case CommandGetStatus:
		return h.handleGetStatus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (h *Handler) handleLoadImage(req *Request) *Response {
	var p PathPayload
	if resp := decodePayload(req.Payload, &p, "load"); resp != nil {
		return resp
	}
	if p.Path == "" {
		return NewErrorResponse("path is required")
	}

	payload, err := h.commands.LoadImage(p.Path)
	if err != nil {
		return commandErrorResponse(err)
	}
	h.logger.Log(actionlog.ActionLoadImage, req.ID, map[string]interface{}{
		"path":  p.Path,
		"bytes": len(payload),
	})
	return okResponse(ImagePayloadData{Payload: payload})
}

func (h *Handler) handleDataURL(req *Request) *Response {
	var p PathPayload
	if resp := decodePayload(req.Payload, &p, "data url"); resp != nil {
		return resp
	}
	if p.Path == "" {
		return NewErrorResponse("path is required")
	}

	url, err := h.commands.DataURL(p.Path)
	if err != nil {
		return commandErrorResponse(err)
	}
	h.logger.Log(actionlog.ActionDataURL, req.ID, map[string]interface{}{
		"path":  p.Path,
		"bytes": len(url),
	})
	return okResponse(DataURLData{URL: url})
}

func (h *Handler) handleSetWindowOpacity(req *Request) *Response {
	var p OpacityPayload
	if resp := decodePayload(req.Payload, &p, "opacity"); resp != nil {
		return resp
	}

	applied, err := h.commands.SetWindowOpacity(platform.WindowID(p.WindowID), p.Opacity)
	if err != nil {
		return commandErrorResponse(err)
	}
	h.logger.Log(actionlog.ActionSetOpacity, req.ID, map[string]interface{}{
		"window":    fmt.Sprintf("0x%x", p.WindowID),
		"requested": p.Opacity,
		"opacity":   viewer.EffectiveOpacity(p.Opacity),
		"applied":   applied,
	})
	return okResponse(nil)
}

func (h *Handler) handleSetAlwaysOnTop(req *Request) *Response {
	var p AlwaysOnTopPayload
	if resp := decodePayload(req.Payload, &p, "always-on-top"); resp != nil {
		return resp
	}

	if err := h.commands.SetAlwaysOnTop(platform.WindowID(p.WindowID), p.Enabled); err != nil {
		return commandErrorResponse(err)
	}
	h.logger.Log(actionlog.ActionSetOnTop, req.ID, map[string]interface{}{
		"window":  fmt.Sprintf("0x%x", p.WindowID),
		"enabled": p.Enabled,
	})
	return okResponse(nil)
}

func (h *Handler) handleGetImageInfo(req *Request) *Response {
	var p PathPayload
	if resp := decodePayload(req.Payload, &p, "image info"); resp != nil {
		return resp
	}
	if p.Path == "" {
		return NewErrorResponse("path is required")
	}

	info, err := h.commands.GetImageInfo(p.Path)
	if err != nil {
		return commandErrorResponse(err)
	}
	h.logger.Log(actionlog.ActionImageInfo, req.ID, map[string]interface{}{
		"path":   p.Path,
		"width":  info.Width,
		"height": info.Height,
	})
	return okResponse(ImageInfoData{Width: info.Width, Height: info.Height})
}

func (h *Handler) handleGetStatus() *Response {
	return okResponse(StatusData{
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		DaemonRunning: true,
		Backend:       h.BackendName,
		ImageInfoMode: h.ImageInfoMode,
		WebSocketAddr: h.WebSocketAddr,
	})
}

func decodePayload(payload json.RawMessage, out any, what string) *Response {
	if len(payload) == 0 {
		return NewErrorResponse(fmt.Sprintf("Missing %s payload", what))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", what, err))
	}
	return nil
}

func commandErrorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.ErrorKind = string(viewer.KindOf(err))
	return resp
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		log.Printf("IPC: %v", err)
		return NewErrorResponse(err.Error())
	}
	return resp
}
