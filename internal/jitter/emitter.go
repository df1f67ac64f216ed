// Package jitter emits the back-and-forth cursor movement while the shared
// state is active.
package jitter

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"mousejitter/internal/input"
	"mousejitter/internal/state"
)

// DefaultPollInterval is how long the emitter sleeps between idle checks.
const DefaultPollInterval = 10 * time.Millisecond

// Stats counts what the emitter has done since it was created.
type Stats struct {
	Cycles   uint64 `json:"cycles"`
	Failures uint64 `json:"failures"`
}

// Emitter polls the shared state and injects one (+h,+v)/(-h,-v) pair per
// cycle while it is active.
type Emitter struct {
	state    *state.State
	injector input.Injector
	poll     time.Duration

	cycles   atomic.Uint64
	failures atomic.Uint64
}

// New creates an emitter reading st and writing to inj.
func New(st *state.State, inj input.Injector) *Emitter {
	return &Emitter{
		state:    st,
		injector: inj,
		poll:     DefaultPollInterval,
	}
}

// SetPollInterval sets the idle re-check interval. Call before Run;
// non-positive values keep the default.
func (e *Emitter) SetPollInterval(d time.Duration) {
	if d > 0 {
		e.poll = d
	}
}

// Stats returns the counters.
func (e *Emitter) Stats() Stats {
	return Stats{Cycles: e.cycles.Load(), Failures: e.failures.Load()}
}

// Run loops until the state stops running or ctx is cancelled.
func (e *Emitter) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	log.Printf("Jitter: emitter started (poll %v)", e.poll)
	defer log.Printf("Jitter: emitter stopped after %d cycles", e.cycles.Load())

	for {
		if !e.state.Running() || ctx.Err() != nil {
			return
		}
		if !e.state.Active() {
			if !e.wait(ctx, timer, e.poll) {
				return
			}
			continue
		}
		if !e.cycle(ctx, timer) {
			return
		}
	}
}

// cycle emits one out-and-back pair. The return leg is sent even when a stop
// arrives during the first wait so the cursor never drifts.
func (e *Emitter) cycle(ctx context.Context, timer *time.Timer) bool {
	h, v := e.state.Amplitude()
	delay := e.state.Delay()

	e.move(h, v)
	alive := e.wait(ctx, timer, delay)
	e.move(-h, -v)
	e.cycles.Add(1)
	if !alive {
		return false
	}
	return e.wait(ctx, timer, delay)
}

func (e *Emitter) move(dx, dy int) {
	if err := e.injector.MoveRelative(dx, dy); err != nil {
		if e.failures.Add(1) == 1 {
			log.Printf("Jitter: mouse injection failed: %v", err)
		}
	}
}

// wait sleeps for d and reports false if the state stopped or ctx ended first.
func (e *Emitter) wait(ctx context.Context, timer *time.Timer, d time.Duration) bool {
	timer.Reset(d)
	select {
	case <-timer.C:
		return true
	case <-e.state.Done():
		return false
	case <-ctx.Done():
		return false
	}
}
