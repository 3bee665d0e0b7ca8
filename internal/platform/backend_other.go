//go:build !linux

package platform

import (
	"log"
	"runtime"
)

// NewBackend returns the window backend for this platform. Only X11 is
// implemented; other platforms get the unsupported fallback.
func NewBackend(display, xauthority string) (Backend, func()) {
	log.Printf("Warning: no native window backend for %s; opacity requests will be ignored", runtime.GOOS)
	return UnsupportedBackend{Reason: runtime.GOOS}, func() {}
}
