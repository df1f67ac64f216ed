//go:build windows

package input

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
)

// WinInjector injects mouse movement using SendInput.
type WinInjector struct{}

// NewInjector returns the Windows input injector.
func NewInjector() Injector {
	return &WinInjector{}
}

// MoveRelative moves the cursor by (dx, dy) mickeys relative to its position.
func (w *WinInjector) MoveRelative(dx, dy int) error {
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(dx), int32(dy))
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:      dx,
			Dy:      dy,
			DwFlags: flags,
		},
	}
	if n := win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))); n != 1 {
		return fmt.Errorf("SendInput inserted %d of 1 events (error %d)", n, win.GetLastError())
	}
	return nil
}
