package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/inspiraview/internal/platform"
	"github.com/1broseidon/inspiraview/internal/viewer"
)

type stubBackend struct {
	active  platform.WindowID
	opacity map[platform.WindowID]float64
	onTop   map[platform.WindowID]bool
	err     error
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		active:  0x77,
		opacity: make(map[platform.WindowID]float64),
		onTop:   make(map[platform.WindowID]bool),
	}
}

func (b *stubBackend) ActiveWindow() (platform.WindowID, error) { return b.active, nil }

func (b *stubBackend) SetOpacity(id platform.WindowID, opacity float64) error {
	if b.err != nil {
		return b.err
	}
	b.opacity[id] = opacity
	return nil
}

func (b *stubBackend) SetAlwaysOnTop(id platform.WindowID, enabled bool) error {
	if b.err != nil {
		return b.err
	}
	b.onTop[id] = enabled
	return nil
}

func newTestServer(backend platform.Backend) *Server {
	cmds := viewer.New(backend, viewer.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewServer(cmds, nil)
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func resultText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("result = %+v, want one content item", res)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("content = %T, want *TextContent", res.Content[0])
	}
	return text.Text
}

func TestHandleLoadImage(t *testing.T) {
	s := newTestServer(newStubBackend())
	path := writeImage(t, "a.png", []byte("image-bytes"))

	res, out, err := s.handleLoadImage(context.Background(), nil, PathInput{Path: path})
	if err != nil {
		t.Fatalf("handleLoadImage: %v", err)
	}
	payload := base64.StdEncoding.EncodeToString([]byte("image-bytes"))
	if out.Payload != payload {
		t.Fatalf("payload = %q", out.Payload)
	}
	if text := resultText(t, res); strings.Contains(text, payload) || !strings.Contains(text, path) {
		t.Fatalf("text = %q, want a summary naming %s without the payload", text, path)
	}

	_, _, err = s.handleLoadImage(context.Background(), nil, PathInput{Path: path + ".gone"})
	if !viewer.IsIO(err) {
		t.Fatalf("expected io error, got %v", err)
	}

	if _, _, err := s.handleLoadImage(context.Background(), nil, PathInput{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHandleDataURL(t *testing.T) {
	s := newTestServer(newStubBackend())
	path := writeImage(t, "b.GIF", []byte("gif"))

	_, out, err := s.handleDataURL(context.Background(), nil, PathInput{Path: path})
	if err != nil {
		t.Fatalf("handleDataURL: %v", err)
	}
	if out.MIMEType != "image/gif" {
		t.Fatalf("mime = %q, want image/gif", out.MIMEType)
	}
	if out.URL != "data:image/gif;base64,"+base64.StdEncoding.EncodeToString([]byte("gif")) {
		t.Fatalf("url = %q", out.URL)
	}
}

func TestHandleSetWindowOpacity(t *testing.T) {
	tests := []struct {
		name      string
		window    uint32
		requested float64
		target    platform.WindowID
		want      float64
	}{
		{"explicit window in range", 5, 0.75, 5, 0.75},
		{"clamps low", 5, 0, 5, 0.3},
		{"clamps high", 5, 3, 5, 1.0},
		{"active window", 0, 0.5, 0x77, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newStubBackend()
			s := newTestServer(backend)

			_, out, err := s.handleSetWindowOpacity(context.Background(), nil, SetWindowOpacityInput{WindowID: tt.window, Opacity: tt.requested})
			if err != nil {
				t.Fatalf("handleSetWindowOpacity: %v", err)
			}
			if got := backend.opacity[tt.target]; got != tt.want {
				t.Fatalf("backend opacity = %v, want %v", got, tt.want)
			}
			if out.WindowID != tt.window || out.Opacity != tt.want || !out.Applied {
				t.Fatalf("output = %+v", out)
			}
		})
	}
}

func TestHandleSetWindowOpacity_UnsupportedReportsNotApplied(t *testing.T) {
	s := newTestServer(platform.UnsupportedBackend{Reason: "test"})

	res, out, err := s.handleSetWindowOpacity(context.Background(), nil, SetWindowOpacityInput{WindowID: 5, Opacity: 0.6})
	if err != nil {
		t.Fatalf("handleSetWindowOpacity: %v", err)
	}
	if out.Applied {
		t.Fatalf("output = %+v, want applied=false", out)
	}
	if text := resultText(t, res); strings.Contains(text, "set to") || !strings.Contains(text, "not supported") {
		t.Fatalf("text = %q", text)
	}
}

func TestHandleSetAlwaysOnTop(t *testing.T) {
	backend := newStubBackend()
	s := newTestServer(backend)

	if _, _, err := s.handleSetAlwaysOnTop(context.Background(), nil, SetAlwaysOnTopInput{WindowID: 9, Enabled: true}); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !backend.onTop[9] {
		t.Fatal("expected window 9 on top")
	}
	if _, _, err := s.handleSetAlwaysOnTop(context.Background(), nil, SetAlwaysOnTopInput{WindowID: 9}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if backend.onTop[9] {
		t.Fatal("expected window 9 released")
	}

	backend.err = errors.New("BadWindow")
	_, _, err := s.handleSetAlwaysOnTop(context.Background(), nil, SetAlwaysOnTopInput{WindowID: 9, Enabled: true})
	if !viewer.IsWindowOp(err) {
		t.Fatalf("expected window op error, got %v", err)
	}
}

func TestHandleGetImageInfo(t *testing.T) {
	s := newTestServer(newStubBackend())
	path := writeImage(t, "c.jpg", []byte("not really a jpeg"))

	_, out, err := s.handleGetImageInfo(context.Background(), nil, PathInput{Path: path})
	if err != nil {
		t.Fatalf("handleGetImageInfo: %v", err)
	}
	if out.Width != 800 || out.Height != 600 {
		t.Fatalf("info = %+v, want 800x600", out)
	}

	_, _, err = s.handleGetImageInfo(context.Background(), nil, PathInput{Path: filepath.Join(t.TempDir(), "none.jpg")})
	if !viewer.IsIO(err) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestMimeTypeOfDataURL(t *testing.T) {
	tests := map[string]string{
		"data:image/png;base64,AAAA": "image/png",
		"data:image/jpeg;base64,":    "image/jpeg",
		"data:":                      "",
		"":                           "",
		"data:text/plain,hello":      "text/plain",
	}
	for url, want := range tests {
		if got := mimeTypeOfDataURL(url); got != want {
			t.Errorf("mimeTypeOfDataURL(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestServer_ListsAndCallsToolsOverTransport(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newStubBackend())

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"data_url", "get_image_info", "load_image", "set_always_on_top", "set_window_opacity"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools = %v, want %v", names, want)
		}
	}

	path := writeImage(t, "d.png", []byte("x"))
	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "get_image_info",
		Arguments: map[string]any{"path": path},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok || text.Text != "800x600" {
		t.Fatalf("content = %+v", res.Content)
	}

	res, err = session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "load_image",
		Arguments: map[string]any{"path": path + ".missing"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for missing file")
	}
}
