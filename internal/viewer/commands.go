// Package viewer implements the image viewer's command surface: loading image
// files as text-safe payloads and adjusting presentation of a caller-owned
// window. Commands hold no per-call state and are safe for concurrent use.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/1broseidon/inspiraview/internal/platform"
)

// ImageInfoMode selects how GetImageInfo computes dimensions.
type ImageInfoMode string

const (
	// ImageInfoPlaceholder checks the file opens and reports PlaceholderWidth x
	// PlaceholderHeight. Existing front-ends depend on these values.
	ImageInfoPlaceholder ImageInfoMode = "placeholder"
	// ImageInfoDecode reads the image header and reports real dimensions.
	ImageInfoDecode ImageInfoMode = "decode"
)

// Options configures a Commands value.
type Options struct {
	ImageInfo ImageInfoMode
	// SniffMIME detects the data URL media type from file content instead of
	// the file extension.
	SniffMIME bool
	Logger    *slog.Logger
}

// Commands is the command surface invoked by transports.
type Commands struct {
	backend platform.Backend
	opts    Options
	logger  *slog.Logger
}

// New returns a command surface relaying window operations to backend.
func New(backend platform.Backend, opts Options) *Commands {
	if opts.ImageInfo == "" {
		opts.ImageInfo = ImageInfoPlaceholder
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// ResolveWindow returns window unchanged when non-zero, otherwise the window
// currently active on the display.
func (c *Commands) ResolveWindow(window platform.WindowID) (platform.WindowID, error) {
	if window != 0 {
		return window, nil
	}
	active, err := c.backend.ActiveWindow()
	if err != nil {
		return 0, windowOpError("resolve active window", err)
	}
	if active == 0 {
		return 0, windowOpError("resolve active window", errors.New("no active window"))
	}
	return active, nil
}

// SetWindowOpacity applies EffectiveOpacity(opacity) to window. applied is
// false when the platform cannot change opacity; that case is logged and is
// not an error.
func (c *Commands) SetWindowOpacity(window platform.WindowID, opacity float64) (applied bool, err error) {
	if math.IsNaN(opacity) {
		return false, windowOpError("set window opacity", errors.New("opacity must be a number"))
	}
	effective := EffectiveOpacity(opacity)

	window, err = c.ResolveWindow(window)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			c.logger.Warn("window opacity not applied", "opacity", effective, "reason", err.Error())
			return false, nil
		}
		return false, err
	}

	if err := c.backend.SetOpacity(window, effective); err != nil {
		if errors.Is(err, platform.ErrOpacityUnsupported) {
			c.logger.Warn("window opacity not applied",
				"window", fmt.Sprintf("0x%x", uint32(window)),
				"opacity", effective,
				"reason", err.Error())
			return false, nil
		}
		return false, windowOpError("set window opacity", err)
	}

	c.logger.Debug("window opacity applied",
		"window", fmt.Sprintf("0x%x", uint32(window)),
		"requested", opacity,
		"opacity", effective)
	return true, nil
}

// SetAlwaysOnTop relays enabled to the window's always-on-top state.
func (c *Commands) SetAlwaysOnTop(window platform.WindowID, enabled bool) error {
	window, err := c.ResolveWindow(window)
	if err != nil {
		return err
	}
	if err := c.backend.SetAlwaysOnTop(window, enabled); err != nil {
		return windowOpError("set always on top", err)
	}
	return nil
}
