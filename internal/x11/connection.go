package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// NewConnectionForDisplay exports display and xauthority (when non-empty)
// before connecting, so a daemon started outside the session can still reach
// the user's X server.
func NewConnectionForDisplay(display, xauthority string) (*Connection, error) {
	if display != "" {
		if err := os.Setenv("DISPLAY", display); err != nil {
			return nil, fmt.Errorf("failed to set DISPLAY: %w", err)
		}
	}
	if xauthority != "" {
		if err := os.Setenv("XAUTHORITY", xauthority); err != nil {
			return nil, fmt.Errorf("failed to set XAUTHORITY: %w", err)
		}
	}
	return NewConnection()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
