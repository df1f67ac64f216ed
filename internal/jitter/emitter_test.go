package jitter

import (
	"context"
	"errors"
	"testing"
	"time"

	"mousejitter/internal/config"
	"mousejitter/internal/hook"
	"mousejitter/internal/state"
	"mousejitter/internal/testutil"
)

func startEmitter(t *testing.T, st *state.State, inj *testutil.FakeInjector) (*Emitter, <-chan struct{}) {
	t.Helper()
	e := New(st, inj)
	e.SetPollInterval(time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(context.Background())
	}()
	t.Cleanup(func() {
		st.Stop()
		<-done
	})
	return e, done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestIdleEmitsNothing(t *testing.T) {
	st := state.New(config.DefaultJitter())
	inj := &testutil.FakeInjector{}
	startEmitter(t, st, inj)

	time.Sleep(30 * time.Millisecond)
	if n := len(inj.Moves()); n != 0 {
		t.Fatalf("Expected no moves while idle, got %d", n)
	}
}

func TestCycleAlternatesAndReturnsToOrigin(t *testing.T) {
	st := state.New(config.JitterConfig{Horizontal: 7, Vertical: 3, Delay: time.Millisecond})
	inj := &testutil.FakeInjector{}
	e, done := startEmitter(t, st, inj)

	st.SetPressed(state.Left, true)
	st.SetPressed(state.Right, true)
	waitFor(t, "three cycles", func() bool { return e.Stats().Cycles >= 3 })

	st.Stop()
	<-done

	moves := inj.Moves()
	if len(moves)%2 != 0 {
		t.Fatalf("Expected whole cycles, got %d moves", len(moves))
	}
	for i, m := range moves {
		want := testutil.Move{DX: 7, DY: 3}
		if i%2 == 1 {
			want = testutil.Move{DX: -7, DY: -3}
		}
		if m != want {
			t.Fatalf("move %d: expected %+v, got %+v", i, want, m)
		}
	}
	if x, y := inj.Displacement(); x != 0 || y != 0 {
		t.Fatalf("Expected zero net displacement, got (%d, %d)", x, y)
	}
	if got := e.Stats().Cycles; got != uint64(len(moves)/2) {
		t.Errorf("Expected %d cycles, got %d", len(moves)/2, got)
	}
}

func TestStopWithinPollInterval(t *testing.T) {
	st := state.New(config.DefaultJitter())
	e := New(st, &testutil.FakeInjector{})
	e.SetPollInterval(10 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(context.Background())
	}()

	time.Sleep(15 * time.Millisecond)
	st.Stop()

	select {
	case <-done:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("Emitter did not stop within the polling interval")
	}
}

func TestStopMidCycleStillReturns(t *testing.T) {
	st := state.New(config.JitterConfig{Horizontal: 5, Vertical: 5, Delay: 100 * time.Millisecond})
	inj := &testutil.FakeInjector{}
	e := New(st, inj)
	st.SetPressed(state.Left, true)
	st.SetPressed(state.Right, true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(context.Background())
	}()

	waitFor(t, "first half-cycle", func() bool { return len(inj.Moves()) >= 1 })
	st.Stop()
	<-done

	if x, y := inj.Displacement(); x != 0 || y != 0 {
		t.Fatalf("Expected zero net displacement after stop, got (%d, %d)", x, y)
	}
}

func TestContextCancelStops(t *testing.T) {
	st := state.New(config.DefaultJitter())
	e := New(st, &testutil.FakeInjector{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emitter ignored context cancellation")
	}
	if !st.Running() {
		t.Error("Cancelling the context should not touch the running flag")
	}
}

func TestInjectionErrorsAreSwallowed(t *testing.T) {
	st := state.New(config.DefaultJitter())
	inj := &testutil.FakeInjector{}
	inj.FailWith(errors.New("access denied"))
	e, _ := startEmitter(t, st, inj)

	st.SetPressed(state.Left, true)
	st.SetPressed(state.Right, true)
	waitFor(t, "cycles despite failures", func() bool { return e.Stats().Cycles >= 2 })

	if e.Stats().Failures < 4 {
		t.Errorf("Expected every half-cycle counted as a failure, got %+v", e.Stats())
	}
}

// TestButtonScenario drives the emitter through a fake hook source:
// left only, then both, then left released.
func TestButtonScenario(t *testing.T) {
	st := state.New(config.DefaultJitter())
	inj := &testutil.FakeInjector{}
	src := &testutil.FakeSource{}
	if err := hook.NewTracker(st).Attach(src); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	e, _ := startEmitter(t, st, inj)

	src.Press(state.Left)
	time.Sleep(20 * time.Millisecond)
	if st.Active() || len(inj.Moves()) != 0 {
		t.Fatalf("Expected no movement with only left held, active=%v moves=%d", st.Active(), len(inj.Moves()))
	}

	src.Press(state.Right)
	if !st.Active() {
		t.Fatal("Expected active with both buttons held")
	}
	waitFor(t, "movement", func() bool { return e.Stats().Cycles >= 1 })

	src.Release(state.Left)
	if st.Active() {
		t.Fatal("Expected inactive after releasing left")
	}
	// Let an in-flight cycle finish, then the count must stay put.
	time.Sleep(10 * time.Millisecond)
	settled := len(inj.Moves())
	time.Sleep(20 * time.Millisecond)
	if n := len(inj.Moves()); n != settled {
		t.Fatalf("Expected movement to stop, moves went from %d to %d", settled, n)
	}
	if x, y := inj.Displacement(); x != 0 || y != 0 {
		t.Fatalf("Expected zero net displacement, got (%d, %d)", x, y)
	}
}
