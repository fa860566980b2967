package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lifestream/pkg/core"
	"lifestream/pkg/life"
)

const waitFor = 2 * time.Second

func testConfig(interval time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Interval = interval
	return cfg
}

func randomSeed(rows, cols int) []core.Coord {
	return core.RandomLive(core.NewRNG(42), rows, cols, rows*cols/3)
}

func receive(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for notification")
		return Notification{}
	}
}

func receiveKind(t *testing.T, ch <-chan Notification, kind Kind) Notification {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case n := <-ch:
			if n.Kind == kind {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s notification", kind)
			return Notification{}
		}
	}
}

func newSim(t *testing.T, rows, cols int, live []core.Coord, cfg Config) *Simulation {
	t.Helper()
	s := New(rows, cols, live, cfg)
	t.Cleanup(func() { s.Close() })
	return s
}

func subscribe(t *testing.T, s *Simulation, buf int) chan Notification {
	t.Helper()
	ch := make(chan Notification, buf)
	if _, err := s.Subscribe(context.Background(), ch); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	return ch
}

func snapshot(t *testing.T, s *Simulation) State {
	t.Helper()
	st, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return st
}

func TestRunProducesFirstGeneration(t *testing.T) {
	live := randomSeed(10, 10)
	s := newSim(t, 10, 10, live, testConfig(time.Hour))
	ch := subscribe(t, s, 8)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	n := receive(t, ch)
	if n.Kind != KindChange || n.Generation != 1 {
		t.Fatalf("expected change at generation 1, got %s at %d", n.Kind, n.Generation)
	}
	want := life.Next(core.Seed(10, 10, live).Set())
	if !n.Cells.Equal(want) {
		t.Fatal("first generation differs from one engine step over the seed")
	}
}

func TestInitialStateIsIdle(t *testing.T) {
	s := newSim(t, 4, 4, nil, testConfig(time.Millisecond))
	st := snapshot(t, s)
	if st.Started || st.Running || st.Generation != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if st.Cells.Len() != 16 {
		t.Fatalf("expected 16 cells, got %d", st.Cells.Len())
	}
}

func TestTicksAdvanceOneGenerationAtATime(t *testing.T) {
	live := randomSeed(12, 12)
	s := newSim(t, 12, 12, live, testConfig(5*time.Millisecond))
	ch := subscribe(t, s, 64)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	prev := core.Seed(12, 12, live).Set()
	for gen := 1; gen <= 5; gen++ {
		n := receive(t, ch)
		if n.Kind != KindChange {
			t.Fatalf("expected change, got %s", n.Kind)
		}
		if n.Generation != gen {
			t.Fatalf("expected generation %d, got %d", gen, n.Generation)
		}
		if !n.Cells.Equal(life.Next(prev)) {
			t.Fatalf("generation %d is not one step after %d", gen, gen-1)
		}
		if n.Cells.Len() != 144 {
			t.Fatalf("generation %d has %d cells", gen, n.Cells.Len())
		}
		prev = n.Cells
	}
}

func TestPauseResumePreservesState(t *testing.T) {
	s := newSim(t, 16, 16, randomSeed(16, 16), testConfig(5*time.Millisecond))
	ch := subscribe(t, s, 64)
	ctx := context.Background()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	for n := receiveKind(t, ch, KindChange); n.Generation < 3; n = receiveKind(t, ch, KindChange) {
	}
	if err := s.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	paused := receiveKind(t, ch, KindPause)

	time.Sleep(30 * time.Millisecond)
	select {
	case n := <-ch:
		t.Fatalf("no notification expected while paused, got %s at %d", n.Kind, n.Generation)
	default:
	}

	if err := s.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	resumed := receive(t, ch)
	if resumed.Kind != KindResume {
		t.Fatalf("expected resume, got %s", resumed.Kind)
	}
	if resumed.Generation != paused.Generation || !resumed.Cells.Equal(paused.Cells) {
		t.Fatalf("resume carried generation %d, pause carried %d", resumed.Generation, paused.Generation)
	}

	next := receive(t, ch)
	if next.Kind != KindChange || next.Generation != paused.Generation+1 {
		t.Fatalf("expected change at %d, got %s at %d", paused.Generation+1, next.Kind, next.Generation)
	}
	if !next.Cells.Equal(life.Next(paused.Cells)) {
		t.Fatal("first generation after resume is not one step after the paused cells")
	}
}

func TestRunIgnoredOnceStarted(t *testing.T) {
	ctx := context.Background()
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if st := snapshot(t, s); st.Generation != 1 || !st.Running {
		t.Fatalf("second run must be ignored, got %+v", st)
	}

	if err := s.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run after pause: %v", err)
	}
	if st := snapshot(t, s); st.Generation != 1 || st.Running {
		t.Fatalf("run while paused must be a no-op, got %+v", st)
	}
}

func TestResumeWhileRunningDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))
	ch := subscribe(t, s, 8)

	s.Run(ctx)
	receiveKind(t, ch, KindChange)
	if err := s.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if n := receive(t, ch); n.Kind != KindResume || n.Generation != 1 {
		t.Fatalf("expected resume at 1, got %s at %d", n.Kind, n.Generation)
	}
	if st := snapshot(t, s); st.Generation != 1 {
		t.Fatalf("resume while running advanced to %d", st.Generation)
	}
}

func TestStepOnlyWhileNotRunning(t *testing.T) {
	ctx := context.Background()
	live := randomSeed(8, 8)
	s := newSim(t, 8, 8, live, testConfig(time.Hour))
	ch := subscribe(t, s, 8)

	if err := s.Step(ctx); err != nil {
		t.Fatalf("step: %v", err)
	}
	n := receive(t, ch)
	if n.Kind != KindChange || n.Generation != 1 {
		t.Fatalf("expected change at 1, got %s at %d", n.Kind, n.Generation)
	}
	if !n.Cells.Equal(life.Next(core.Seed(8, 8, live).Set())) {
		t.Fatal("step did not apply one generation")
	}

	s.Run(ctx)
	receiveKind(t, ch, KindChange)
	s.Step(ctx)
	if st := snapshot(t, s); st.Generation != 2 {
		t.Fatalf("step while running must be ignored, generation %d", st.Generation)
	}
}

func TestSubscriberJoiningLateSeesOnlyLaterBroadcasts(t *testing.T) {
	ctx := context.Background()
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))
	s.Run(ctx)

	ch := subscribe(t, s, 8)
	if err := s.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	n := receive(t, ch)
	if n.Kind != KindPause || n.Generation != 1 {
		t.Fatalf("late subscriber should first see the pause at 1, got %s at %d", n.Kind, n.Generation)
	}
}

func TestSubscribersShareSnapshot(t *testing.T) {
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))
	a := subscribe(t, s, 4)
	b := subscribe(t, s, 4)

	s.Run(context.Background())
	na, nb := receive(t, a), receive(t, b)
	if na.Cells != nb.Cells {
		t.Fatal("subscribers of one broadcast should share the same snapshot")
	}
}

func TestFullSubscriberIsDropped(t *testing.T) {
	cfg := testConfig(time.Hour)
	cfg.DeliveryTimeout = time.Millisecond
	s := newSim(t, 8, 8, randomSeed(8, 8), cfg)

	stuck := make(chan Notification)
	if _, err := s.Subscribe(context.Background(), stuck); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ok := subscribe(t, s, 4)

	s.Run(context.Background())
	if n := receive(t, ok); n.Generation != 1 {
		t.Fatalf("healthy subscriber got generation %d", n.Generation)
	}
	if st := snapshot(t, s); st.Subscribers != 1 {
		t.Fatalf("expected the stuck subscriber to be dropped, %d remain", st.Subscribers)
	}
}

func TestClosedSubscriberIsDropped(t *testing.T) {
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))

	gone := subscribe(t, s, 4)
	close(gone)
	ok := subscribe(t, s, 4)

	s.Run(context.Background())
	if n := receive(t, ok); n.Kind != KindChange {
		t.Fatalf("healthy subscriber got %s", n.Kind)
	}
	if st := snapshot(t, s); st.Subscribers != 1 {
		t.Fatalf("expected the closed subscriber to be dropped, %d remain", st.Subscribers)
	}
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := newSim(t, 8, 8, randomSeed(8, 8), testConfig(time.Hour))

	ch := make(chan Notification, 4)
	id, err := s.Subscribe(ctx, ch)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if id == "" {
		t.Fatal("expected a subscriber id")
	}
	if err := s.Unsubscribe(ctx, id); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	s.Run(ctx)
	if st := snapshot(t, s); st.Subscribers != 0 || st.Generation != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
	if len(ch) != 0 {
		t.Fatalf("unsubscribed channel received %d notifications", len(ch))
	}
}

func TestCloseSendsDoneAndRejectsCommands(t *testing.T) {
	ctx := context.Background()
	s := New(6, 6, nil, testConfig(time.Hour))
	ch := subscribe(t, s, 4)

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n := receive(t, ch); n.Kind != KindDone {
		t.Fatalf("expected done, got %s", n.Kind)
	}
	if err := s.Run(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("run after close: expected ErrClosed, got %v", err)
	}
	if _, err := s.Subscribe(ctx, ch); !errors.Is(err, ErrClosed) {
		t.Fatalf("subscribe after close: expected ErrClosed, got %v", err)
	}
	if _, err := s.Snapshot(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("snapshot after close: expected ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"queue":            "7",
		"interval":         "50ms",
		"delivery_timeout": "bogus",
	})
	if cfg.QueueSize != 7 || cfg.Interval != 50*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DeliveryTimeout != DefaultConfig().DeliveryTimeout {
		t.Fatalf("invalid values must keep the default, got %v", cfg.DeliveryTimeout)
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should yield the default config")
	}
}

func TestCommandsAcceptedBeforeCloseAreProcessed(t *testing.T) {
	for round := 0; round < 20; round++ {
		s := New(6, 6, nil, testConfig(time.Hour))
		ch := subscribe(t, s, 1024)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.Step(context.Background()); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				} else if !errors.Is(err, ErrClosed) {
					t.Errorf("step: %v", err)
				}
			}()
		}
		s.Close()
		wg.Wait()

		changes := 0
		for n := range ch {
			if n.Kind == KindDone {
				break
			}
			if n.Kind == KindChange {
				changes++
			}
		}
		if changes != accepted {
			t.Fatalf("round %d: %d steps accepted but %d generations broadcast", round, accepted, changes)
		}
	}
}

func TestSubscribed(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(time.Hour)
	cfg.DeliveryTimeout = -1
	s := newSim(t, 6, 6, nil, cfg)

	id, err := s.Subscribe(ctx, make(chan Notification))
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if ok, err := s.Subscribed(ctx, id); err != nil || !ok {
		t.Fatalf("expected a registered subscriber, got %v (%v)", ok, err)
	}
	s.Run(ctx)
	if ok, err := s.Subscribed(ctx, id); err != nil || ok {
		t.Fatalf("a dropped subscriber must not be reported, got %v (%v)", ok, err)
	}
	if ok, _ := s.Subscribed(ctx, "unknown"); ok {
		t.Fatal("unknown id reported as subscribed")
	}
	s.Close()
	if _, err := s.Subscribed(ctx, id); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestZeroDeliveryTimeoutUsesDefault(t *testing.T) {
	if got := (Config{}).normalized().DeliveryTimeout; got != DefaultConfig().DeliveryTimeout {
		t.Fatalf("zero delivery timeout should select the default, got %v", got)
	}
	if got := (Config{DeliveryTimeout: -1}).normalized().DeliveryTimeout; got >= 0 {
		t.Fatalf("negative delivery timeout must be kept, got %v", got)
	}
	if got := FromMap(map[string]string{"delivery_timeout": "-1ms"}).DeliveryTimeout; got != -time.Millisecond {
		t.Fatalf("FromMap should accept a negative delivery timeout, got %v", got)
	}

	// An unbuffered subscriber reading promptly survives a zero-valued config.
	s := newSim(t, 6, 6, nil, Config{Interval: time.Hour})
	ch := make(chan Notification)
	if _, err := s.Subscribe(context.Background(), ch); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	s.Run(context.Background())
	if n := receive(t, ch); n.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", n.Generation)
	}
	if st := snapshot(t, s); st.Subscribers != 1 {
		t.Fatalf("unbuffered subscriber was dropped")
	}
}
