package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

const stateAboveAtom = "_NET_WM_STATE_ABOVE"

// GetActiveWindow returns the window EWMH reports as focused.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowExists reports an error when windowID does not name a live window.
// Property writes are fire-and-forget on most servers, so callers check first
// to surface a closed window as an error instead of a silent no-op.
func (c *Connection) WindowExists(windowID xproto.Window) error {
	if windowID == 0 {
		return fmt.Errorf("window id is zero")
	}
	if _, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply(); err != nil {
		return fmt.Errorf("window 0x%x is not available: %w", uint32(windowID), err)
	}
	return nil
}

// SetWindowOpacity writes _NET_WM_WINDOW_OPACITY on the window. A compositing
// manager is required for the value to have a visible effect.
func (c *Connection) SetWindowOpacity(windowID xproto.Window, opacity float64) error {
	if err := c.WindowExists(windowID); err != nil {
		return err
	}
	if err := ewmh.WmWindowOpacitySet(c.XUtil, windowID, opacity); err != nil {
		return fmt.Errorf("failed to set window opacity: %w", err)
	}
	return nil
}

// SetWindowAbove asks the window manager to add or remove _NET_WM_STATE_ABOVE.
func (c *Connection) SetWindowAbove(windowID xproto.Window, above bool) error {
	if err := c.WindowExists(windowID); err != nil {
		return err
	}

	action := ewmh.StateRemove
	if above {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, stateAboveAtom); err != nil {
		return fmt.Errorf("failed to request %s: %w", stateAboveAtom, err)
	}
	return nil
}

// IsWindowAbove reports whether _NET_WM_STATE currently contains _NET_WM_STATE_ABOVE.
func (c *Connection) IsWindowAbove(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}
	for _, state := range states {
		if state == stateAboveAtom {
			return true, nil
		}
	}
	return false, nil
}
