//go:build windows

package overlay

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowLongW = user32.NewProc("GetWindowLongW")
	procSetWindowLongW = user32.NewProc("SetWindowLongW")
)

// Supported reports whether ApplyStyles does anything on this platform.
const Supported = true

// ApplyStyles sets the overlay extended styles on the native window handle.
func ApplyStyles(handle unsafe.Pointer, clickThrough bool) error {
	if handle == nil {
		return errors.New("overlay: nil window handle")
	}
	hwnd := uintptr(handle)
	idx := gwlExStyle

	cur, _, err := procGetWindowLongW.Call(hwnd, uintptr(idx))
	if cur == 0 && !errors.Is(err, windows.ERROR_SUCCESS) {
		return fmt.Errorf("overlay: reading window style: %w", err)
	}

	style := ExStyle(uint32(cur), clickThrough)
	prev, _, err := procSetWindowLongW.Call(hwnd, uintptr(idx), uintptr(style))
	if prev == 0 && !errors.Is(err, windows.ERROR_SUCCESS) {
		return fmt.Errorf("overlay: setting window style: %w", err)
	}
	return nil
}
