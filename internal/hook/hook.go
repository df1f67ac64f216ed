// Package hook provides the global mouse button hook that arms the jitter.
package hook

import (
	"errors"
	"log"

	"mousejitter/internal/state"
)

// ErrUnsupported is returned by sources on platforms without a low-level mouse hook.
var ErrUnsupported = errors.New("global mouse hook is only supported on Windows")

// ErrAlreadyStarted is returned when Start is called on a running source.
var ErrAlreadyStarted = errors.New("mouse hook already started")

// Event is a single button transition observed system-wide.
type Event struct {
	Button state.Button
	Down   bool
}

// Source delivers button transitions to a handler. Handlers run on the
// source's own thread and must return quickly.
type Source interface {
	Start(handler func(Event)) error
	Stop() error
}

// Tracker applies button events to the shared state.
type Tracker struct {
	state *state.State
}

// NewTracker creates a tracker writing into st.
func NewTracker(st *state.State) *Tracker {
	return &Tracker{state: st}
}

// Handle records one transition and logs when the jitter arms or releases.
func (t *Tracker) Handle(ev Event) {
	was := t.state.Active()
	t.state.SetPressed(ev.Button, ev.Down)
	now := t.state.Active()

	if now != was {
		if now {
			log.Println("Hook: both buttons held, jitter armed")
		} else {
			log.Printf("Hook: %s button released, jitter idle", ev.Button)
		}
	}
}

// Attach starts src with the tracker as its handler.
func (t *Tracker) Attach(src Source) error {
	return src.Start(t.Handle)
}
