//go:build linux

package platform

import (
	"fmt"
	"log"

	"github.com/1broseidon/inspiraview/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// windowConn is the subset of *x11.Connection the backend drives.
type windowConn interface {
	GetActiveWindow() (xproto.Window, error)
	SetWindowOpacity(windowID xproto.Window, opacity float64) error
	SetWindowAbove(windowID xproto.Window, above bool) error
	IsWindowAbove(windowID xproto.Window) (bool, error)
}

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn  windowConn
	close func()
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display, xauthority string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionForDisplay(display, xauthority)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn, close: conn.Close}, nil
}

// NewBackend connects to X11 and falls back to UnsupportedBackend when no
// display is reachable (e.g. a Wayland-only or headless session). The returned
// func releases the connection.
func NewBackend(display, xauthority string) (Backend, func()) {
	b, err := NewLinuxBackendFromDisplay(display, xauthority)
	if err != nil {
		log.Printf("Warning: %v; window requests will use the unsupported fallback", err)
		return UnsupportedBackend{Reason: "no X11 display"}, func() {}
	}
	return b, b.Disconnect
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// SetOpacity writes the opacity hint for the window.
func (b *LinuxBackend) SetOpacity(windowID WindowID, opacity float64) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowOpacity(xproto.Window(windowID), opacity)
}

// SetAlwaysOnTop toggles _NET_WM_STATE_ABOVE. No request is sent when the
// window already has the requested state. A failed state read falls through
// to the request.
func (b *LinuxBackend) SetAlwaysOnTop(windowID WindowID, enabled bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(windowID)
	if above, err := conn.IsWindowAbove(win); err == nil && above == enabled {
		return nil
	}
	return conn.SetWindowAbove(win, enabled)
}

func (b *LinuxBackend) connection() (windowConn, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
