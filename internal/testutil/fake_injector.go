package testutil

import (
	"sync"

	"mousejitter/internal/input"
)

// Move records a single injected relative move.
type Move struct {
	DX int
	DY int
}

// FakeInjector implements input.Injector and records moves for tests.
type FakeInjector struct {
	mu    sync.Mutex
	moves []Move
	err   error
}

// Ensure FakeInjector implements the interface.
var _ input.Injector = (*FakeInjector)(nil)

// MoveRelative records a relative move and returns the configured error.
func (f *FakeInjector) MoveRelative(dx, dy int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, Move{DX: dx, DY: dy})
	return f.err
}

// FailWith makes every later move return err.
func (f *FakeInjector) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Moves returns a copy of the recorded moves.
func (f *FakeInjector) Moves() []Move {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Move(nil), f.moves...)
}

// Displacement returns the summed offset of all recorded moves.
func (f *FakeInjector) Displacement() (x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.moves {
		x += m.DX
		y += m.DY
	}
	return x, y
}
