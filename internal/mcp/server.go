// Package mcp exposes the viewer commands as Model Context Protocol tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/inspiraview/internal/actionlog"
	"github.com/1broseidon/inspiraview/internal/viewer"
)

const (
	ServerName    = "inspiraview"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for the viewer command surface.
type Server struct {
	mcpServer *mcpsdk.Server
	commands  *viewer.Commands
	logger    *actionlog.Logger
}

// NewServer creates an MCP server relaying tool calls to commands. logger may
// be nil.
func NewServer(commands *viewer.Commands, logger *actionlog.Logger) *Server {
	s := &Server{
		commands: commands,
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil || s.logger == nil {
		return nil
	}
	return s.logger.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_image",
		Description: "Read an image file and return its full contents as standard base64 in the structured payload field. The bytes are not validated as an image.",
	}, s.handleLoadImage)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "data_url",
		Description: "Read an image file and return a data: URL. The media type is derived from the file extension and defaults to image/jpeg.",
	}, s.handleDataURL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_opacity",
		Description: "Set the opacity of a window. The value is clamped to [0.3, 1.0]. On display servers without opacity support the request succeeds with applied set to false.",
	}, s.handleSetWindowOpacity)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_always_on_top",
		Description: "Keep a window above all other windows, or release it.",
	}, s.handleSetAlwaysOnTop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_image_info",
		Description: "Report the dimensions of an image file. Unless the server is configured to decode headers, fixed 800x600 dimensions are reported after checking the file opens.",
	}, s.handleGetImageInfo)
}
