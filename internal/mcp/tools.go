package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/inspiraview/internal/actionlog"
	"github.com/1broseidon/inspiraview/internal/platform"
	"github.com/1broseidon/inspiraview/internal/viewer"
)

// toolRequestID tags action log entries written for MCP calls.
const toolRequestID = "mcp"

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) logFailure(tool string, err error) {
	s.logger.Log(actionlog.ActionCommandFail, toolRequestID, map[string]interface{}{
		"command": tool,
		"error":   err.Error(),
		"kind":    string(viewer.KindOf(err)),
	})
}

func (s *Server) handleLoadImage(_ context.Context, _ *mcpsdk.CallToolRequest, args PathInput) (*mcpsdk.CallToolResult, LoadImageOutput, error) {
	if args.Path == "" {
		return nil, LoadImageOutput{}, fmt.Errorf("path is required")
	}
	payload, err := s.commands.LoadImage(args.Path)
	if err != nil {
		s.logFailure("load_image", err)
		return nil, LoadImageOutput{}, err
	}
	s.logger.Log(actionlog.ActionLoadImage, toolRequestID, map[string]interface{}{
		"path":  args.Path,
		"bytes": len(payload),
	})

	out := LoadImageOutput{Payload: payload, Bytes: len(payload)}
	return textResult("Loaded %d base64 bytes from %s", len(payload), args.Path), out, nil
}

func (s *Server) handleDataURL(_ context.Context, _ *mcpsdk.CallToolRequest, args PathInput) (*mcpsdk.CallToolResult, DataURLOutput, error) {
	if args.Path == "" {
		return nil, DataURLOutput{}, fmt.Errorf("path is required")
	}
	url, err := s.commands.DataURL(args.Path)
	if err != nil {
		s.logFailure("data_url", err)
		return nil, DataURLOutput{}, err
	}
	s.logger.Log(actionlog.ActionDataURL, toolRequestID, map[string]interface{}{
		"path":  args.Path,
		"bytes": len(url),
	})

	out := DataURLOutput{URL: url, MIMEType: mimeTypeOfDataURL(url)}
	return textResult("%s", url), out, nil
}

func (s *Server) handleSetWindowOpacity(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowOpacityInput) (*mcpsdk.CallToolResult, SetWindowOpacityOutput, error) {
	window := platform.WindowID(args.WindowID)
	applied, err := s.commands.SetWindowOpacity(window, args.Opacity)
	if err != nil {
		s.logFailure("set_window_opacity", err)
		return nil, SetWindowOpacityOutput{}, err
	}

	effective := viewer.EffectiveOpacity(args.Opacity)
	s.logger.Log(actionlog.ActionSetOpacity, toolRequestID, map[string]interface{}{
		"window":    fmt.Sprintf("0x%x", uint32(window)),
		"requested": args.Opacity,
		"opacity":   effective,
		"applied":   applied,
	})

	out := SetWindowOpacityOutput{WindowID: uint32(window), Opacity: effective, Applied: applied}
	if !applied {
		return textResult("Opacity %.2f requested; window opacity is not supported on this platform", effective), out, nil
	}
	return textResult("Window 0x%x opacity set to %.2f", uint32(window), effective), out, nil
}

func (s *Server) handleSetAlwaysOnTop(_ context.Context, _ *mcpsdk.CallToolRequest, args SetAlwaysOnTopInput) (*mcpsdk.CallToolResult, SetAlwaysOnTopOutput, error) {
	window, err := s.commands.ResolveWindow(platform.WindowID(args.WindowID))
	if err != nil {
		s.logFailure("set_always_on_top", err)
		return nil, SetAlwaysOnTopOutput{}, err
	}
	if err := s.commands.SetAlwaysOnTop(window, args.Enabled); err != nil {
		s.logFailure("set_always_on_top", err)
		return nil, SetAlwaysOnTopOutput{}, err
	}
	s.logger.Log(actionlog.ActionSetOnTop, toolRequestID, map[string]interface{}{
		"window":  fmt.Sprintf("0x%x", uint32(window)),
		"enabled": args.Enabled,
	})

	state := "released"
	if args.Enabled {
		state = "kept above other windows"
	}
	out := SetAlwaysOnTopOutput{WindowID: uint32(window), Enabled: args.Enabled}
	return textResult("Window 0x%x %s", uint32(window), state), out, nil
}

func (s *Server) handleGetImageInfo(_ context.Context, _ *mcpsdk.CallToolRequest, args PathInput) (*mcpsdk.CallToolResult, ImageInfoOutput, error) {
	if args.Path == "" {
		return nil, ImageInfoOutput{}, fmt.Errorf("path is required")
	}
	info, err := s.commands.GetImageInfo(args.Path)
	if err != nil {
		s.logFailure("get_image_info", err)
		return nil, ImageInfoOutput{}, err
	}
	s.logger.Log(actionlog.ActionImageInfo, toolRequestID, map[string]interface{}{
		"path":   args.Path,
		"width":  info.Width,
		"height": info.Height,
	})

	out := ImageInfoOutput{Width: info.Width, Height: info.Height}
	return textResult("%dx%d", info.Width, info.Height), out, nil
}

// mimeTypeOfDataURL extracts the media type from "data:<mime>;base64,...".
func mimeTypeOfDataURL(url string) string {
	const prefix = "data:"
	if len(url) <= len(prefix) {
		return ""
	}
	rest := url[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == ';' || rest[i] == ',' {
			return rest[:i]
		}
	}
	return ""
}
