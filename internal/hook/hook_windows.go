//go:build windows

package hook

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"mousejitter/internal/state"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
)

const (
	WH_MOUSE_LL = 14
	WM_QUIT     = 0x0012

	WM_LBUTTONDOWN = 0x0201
	WM_LBUTTONUP   = 0x0202
	WM_RBUTTONDOWN = 0x0204
	WM_RBUTTONUP   = 0x0205
)

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	Wparam  uintptr
	Lparam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// MouseHook is the WH_MOUSE_LL event source.
type MouseHook struct {
	mu       sync.Mutex
	handler  func(Event)
	hook     uintptr
	threadID uint32
	running  bool
	exited   chan struct{}
}

// NewSource returns the platform mouse hook.
func NewSource() Source {
	return &MouseHook{}
}

// Start installs the hook on a dedicated OS thread that pumps messages until Stop.
func (h *MouseHook) Start(handler func(Event)) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.handler = handler
	h.exited = make(chan struct{})
	h.mu.Unlock()

	started := make(chan error, 1)

	// Hooks must be registered in the same thread that runs the message loop
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.exited)

		hMod, _, _ := procGetModuleHandle.Call(0)
		hook, _, err := procSetWindowsHookEx.Call(
			WH_MOUSE_LL,
			syscall.NewCallback(h.proc),
			hMod,
			0,
		)
		if hook == 0 {
			started <- fmt.Errorf("SetWindowsHookEx(WH_MOUSE_LL): %w", err)
			return
		}

		h.mu.Lock()
		h.hook = hook
		h.threadID = windows.GetCurrentThreadId()
		h.running = true
		h.mu.Unlock()
		started <- nil

		log.Println("Hook: low-level mouse hook installed")

		var m msg
		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
		}

		procUnhookWindowsHookEx.Call(hook)
		h.mu.Lock()
		h.hook = 0
		h.running = false
		h.mu.Unlock()
		log.Println("Hook: low-level mouse hook removed")
	}()

	return <-started
}

// Stop ends the message loop and waits for the hook to be removed.
func (h *MouseHook) Stop() error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	threadID := h.threadID
	exited := h.exited
	h.mu.Unlock()

	ret, _, err := procPostThreadMessage.Call(uintptr(threadID), WM_QUIT, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostThreadMessage(WM_QUIT): %w", err)
	}
	<-exited
	return nil
}

// proc runs on the hook thread. Every call is passed down the hook chain.
func (h *MouseHook) proc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == 0 {
		if ev, ok := translate(wParam); ok && h.handler != nil {
			h.handler(ev)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func translate(wParam uintptr) (Event, bool) {
	switch wParam {
	case WM_LBUTTONDOWN:
		return Event{Button: state.Left, Down: true}, true
	case WM_LBUTTONUP:
		return Event{Button: state.Left, Down: false}, true
	case WM_RBUTTONDOWN:
		return Event{Button: state.Right, Down: true}, true
	case WM_RBUTTONUP:
		return Event{Button: state.Right, Down: false}, true
	}
	return Event{}, false
}
