// Package overlay applies native window styles the raylib config flags cannot express.
package overlay

// Extended window style bits.
const (
	gwlExStyle int32 = -20

	wsExTopmost     uint32 = 0x00000008
	wsExTransparent uint32 = 0x00000020
	wsExToolWindow  uint32 = 0x00000080
	wsExLayered     uint32 = 0x00080000
)

// ExStyle returns cur with the overlay bits set. The window stays layered,
// topmost and out of the taskbar; clickThrough toggles hit-testing.
func ExStyle(cur uint32, clickThrough bool) uint32 {
	style := cur | wsExLayered | wsExTopmost | wsExToolWindow
	if clickThrough {
		return style | wsExTransparent
	}
	return style &^ wsExTransparent
}
