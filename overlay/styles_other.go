//go:build !windows

package overlay

import "unsafe"

// Supported reports whether ApplyStyles does anything on this platform.
const Supported = false

// ApplyStyles is a no-op; raylib's mouse passthrough flag covers click-through here.
func ApplyStyles(handle unsafe.Pointer, clickThrough bool) error {
	return nil
}
