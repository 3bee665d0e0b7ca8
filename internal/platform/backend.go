package platform

import "errors"

// WindowID is a platform-neutral window identifier. It is a borrowed
// reference supplied by the caller on every request; backends never retain it.
type WindowID uint32

var (
	// ErrUnsupported is returned when the current platform or session has no
	// way to perform a window operation.
	ErrUnsupported = errors.New("window operation not supported on this platform")

	// ErrOpacityUnsupported is returned by SetOpacity when native opacity
	// control is unavailable. Callers treat it as a no-op, not a failure.
	ErrOpacityUnsupported = errors.New("window opacity not supported on this platform")
)

// Backend abstracts window-system operations across platforms.
type Backend interface {
	ActiveWindow() (WindowID, error)
	SetOpacity(windowID WindowID, opacity float64) error
	SetAlwaysOnTop(windowID WindowID, enabled bool) error
}

// UnsupportedBackend is used where no window system is reachable.
type UnsupportedBackend struct {
	Reason string
}

var _ Backend = UnsupportedBackend{}

// ActiveWindow always fails with ErrUnsupported.
func (b UnsupportedBackend) ActiveWindow() (WindowID, error) {
	return 0, b.wrap(ErrUnsupported)
}

// SetOpacity always fails with ErrOpacityUnsupported.
func (b UnsupportedBackend) SetOpacity(WindowID, float64) error {
	return b.wrap(ErrOpacityUnsupported)
}

// SetAlwaysOnTop always fails with ErrUnsupported.
func (b UnsupportedBackend) SetAlwaysOnTop(WindowID, bool) error {
	return b.wrap(ErrUnsupported)
}

func (b UnsupportedBackend) wrap(err error) error {
	if b.Reason == "" {
		return err
	}
	return &reasonError{reason: b.Reason, err: err}
}

type reasonError struct {
	reason string
	err    error
}

func (e *reasonError) Error() string { return e.err.Error() + " (" + e.reason + ")" }
func (e *reasonError) Unwrap() error { return e.err }
