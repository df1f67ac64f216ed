// Package testutil provides fakes for the OS input capabilities.
package testutil

import (
	"errors"
	"sync"

	"mousejitter/internal/hook"
	"mousejitter/internal/state"
)

// FakeSource implements hook.Source and lets tests push button transitions.
type FakeSource struct {
	mu      sync.Mutex
	handler func(hook.Event)
	started bool
	stopped bool
}

// Ensure FakeSource implements the interface.
var _ hook.Source = (*FakeSource)(nil)

// Start records the handler.
func (f *FakeSource) Start(handler func(hook.Event)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return hook.ErrAlreadyStarted
	}
	f.handler = handler
	f.started = true
	return nil
}

// Stop marks the source stopped; later events are dropped.
func (f *FakeSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

// Stopped reports whether Stop was called.
func (f *FakeSource) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Press delivers a button-down event.
func (f *FakeSource) Press(b state.Button) error {
	return f.emit(hook.Event{Button: b, Down: true})
}

// Release delivers a button-up event.
func (f *FakeSource) Release(b state.Button) error {
	return f.emit(hook.Event{Button: b, Down: false})
}

func (f *FakeSource) emit(ev hook.Event) error {
	f.mu.Lock()
	handler, live := f.handler, f.started && !f.stopped
	f.mu.Unlock()
	if !live || handler == nil {
		return errors.New("fake source not running")
	}
	handler(ev)
	return nil
}
