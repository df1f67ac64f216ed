// Package state holds the record shared by the mouse hook, the jitter emitter
// and the settings panel.
package state

import (
	"sync"
	"sync/atomic"
	"time"

	"mousejitter/internal/config"
)

// Button identifies a tracked mouse button.
type Button int

const (
	Left Button = iota + 1
	Right
)

func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// State is the shared jitter record. Every field is an independent atomic
// scalar; a reader may observe one stale field for a single cycle.
type State struct {
	horizontal atomic.Int32
	vertical   atomic.Int32
	delay      atomic.Int64

	left    atomic.Bool
	right   atomic.Bool
	active  atomic.Bool
	running atomic.Bool

	stopOnce sync.Once
	done     chan struct{}
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	Horizontal   int     `json:"horizontal"`
	Vertical     int     `json:"vertical"`
	DelaySeconds float64 `json:"delay"`
	Active       bool    `json:"active"`
	Running      bool    `json:"running"`
	LeftPressed  bool    `json:"left_pressed"`
	RightPressed bool    `json:"right_pressed"`
}

// New creates a running State with the given jitter settings and both
// buttons released.
func New(cfg config.JitterConfig) *State {
	s := &State{done: make(chan struct{})}
	s.Apply(cfg)
	s.running.Store(true)
	return s
}

// SetPressed records a button transition and recomputes active as the
// conjunction of both press flags. It is the only writer of active.
func (s *State) SetPressed(b Button, down bool) {
	switch b {
	case Left:
		s.left.Store(down)
	case Right:
		s.right.Store(down)
	default:
		return
	}
	s.active.Store(s.left.Load() && s.right.Load())
}

// Pressed reports the current press flags.
func (s *State) Pressed() (left, right bool) {
	return s.left.Load(), s.right.Load()
}

// Active reports whether both buttons are held.
func (s *State) Active() bool {
	return s.active.Load()
}

// Running reports whether the application is still running.
func (s *State) Running() bool {
	return s.running.Load()
}

// Amplitude returns the horizontal and vertical offsets of a half-cycle.
func (s *State) Amplitude() (h, v int) {
	return int(s.horizontal.Load()), int(s.vertical.Load())
}

// Delay returns the pause after each half-cycle.
func (s *State) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

// Jitter returns the stored settings as a config value.
func (s *State) Jitter() config.JitterConfig {
	h, v := s.Amplitude()
	return config.JitterConfig{Horizontal: h, Vertical: v, Delay: s.Delay()}
}

// Apply clamps cfg to its bounds and stores it. The three stores are not a
// transaction; the emitter may read a mix of old and new values once.
func (s *State) Apply(cfg config.JitterConfig) config.JitterConfig {
	cfg = cfg.Clamp()
	s.horizontal.Store(int32(cfg.Horizontal))
	s.vertical.Store(int32(cfg.Vertical))
	s.delay.Store(int64(cfg.Delay))
	return cfg
}

// Stop marks the application as no longer running. Only the first call has an
// effect; it reports whether this call performed the transition.
func (s *State) Stop() bool {
	stopped := false
	s.stopOnce.Do(func() {
		s.running.Store(false)
		close(s.done)
		stopped = true
	})
	return stopped
}

// Done is closed once Stop has been called.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns a copy of every field.
func (s *State) Snapshot() Snapshot {
	h, v := s.Amplitude()
	left, right := s.Pressed()
	return Snapshot{
		Horizontal:   h,
		Vertical:     v,
		DelaySeconds: s.Delay().Seconds(),
		Active:       s.Active(),
		Running:      s.Running(),
		LeftPressed:  left,
		RightPressed: right,
	}
}
