package app

import (
	"context"
	"time"

	"lifestream/internal/stats"
	"lifestream/pkg/core"
	"lifestream/pkg/sim"
)

// Controller is the part of a simulation a viewer drives.
type Controller interface {
	Run(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Step(ctx context.Context) error
	Subscribe(ctx context.Context, ch chan<- sim.Notification) (string, error)
	Unsubscribe(ctx context.Context, id string) error
	Subscribed(ctx context.Context, id string) (bool, error)
	Snapshot(ctx context.Context) (sim.State, error)
}

// Session is a local subscriber that keeps the two most recent generations
// for drawing. Poll never blocks on the simulation. A session that falls
// behind is dropped by the simulation like any other subscriber; Resync
// detects that and registers again.
type Session struct {
	ctrl  Controller
	notes chan sim.Notification
	id    string

	prev, cur  *core.Set
	generation int
	started    bool
	paused     bool
	done       bool
	rate       *stats.Rate
}

// NewSession subscribes to ctrl and loads the current generation.
func NewSession(ctx context.Context, ctrl Controller, buffer int) (*Session, error) {
	if buffer <= 0 {
		buffer = 1
	}
	s := &Session{
		ctrl:  ctrl,
		notes: make(chan sim.Notification, buffer),
		rate:  stats.NewRate(),
	}
	if err := s.register(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) register(ctx context.Context) error {
	id, err := s.ctrl.Subscribe(ctx, s.notes)
	if err != nil {
		return err
	}
	s.id = id
	st, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		s.ctrl.Unsubscribe(ctx, id)
		return err
	}
	s.cur, s.prev = st.Cells, st.Cells
	s.generation = st.Generation
	s.started = st.Started
	s.paused = st.Started && !st.Running
	return nil
}

// Resync registers again if the simulation has dropped this session and
// reports whether it did.
func (s *Session) Resync(ctx context.Context) (bool, error) {
	if s.done {
		return false, nil
	}
	ok, err := s.ctrl.Subscribed(ctx, s.id)
	if err != nil || ok {
		return false, err
	}
	// Notifications still buffered predate the snapshot taken by register.
	for len(s.notes) > 0 {
		<-s.notes
	}
	if err := s.register(ctx); err != nil {
		return false, err
	}
	s.rate.Reset()
	return true, nil
}

// Poll consumes every queued notification and reports how many there were.
func (s *Session) Poll(now time.Time) int {
	n := 0
	for {
		select {
		case note := <-s.notes:
			s.apply(note, now)
			n++
		default:
			return n
		}
	}
}

func (s *Session) apply(n sim.Notification, now time.Time) {
	switch n.Kind {
	case sim.KindChange:
		s.started = true
		s.rate.Observe(n.Generation, now)
		s.prev = s.cur
	case sim.KindPause:
		s.paused = true
		s.rate.Reset()
	case sim.KindResume:
		s.started = true
		s.paused = false
	case sim.KindDone:
		s.done = true
		return
	}
	if n.Cells != nil {
		s.cur = n.Cells
		s.generation = n.Generation
	}
}

// Toggle starts an idle simulation, pauses a running one and resumes a
// paused one.
func (s *Session) Toggle(ctx context.Context) error {
	switch {
	case !s.started:
		s.started = true
		return s.ctrl.Run(ctx)
	case s.paused:
		return s.ctrl.Resume(ctx)
	default:
		return s.ctrl.Pause(ctx)
	}
}

// Step asks for a single generation. The simulation ignores it while running.
func (s *Session) Step(ctx context.Context) error { return s.ctrl.Step(ctx) }

// Close unsubscribes from the simulation.
func (s *Session) Close(ctx context.Context) error {
	return s.ctrl.Unsubscribe(ctx, s.id)
}

// Current returns the latest generation.
func (s *Session) Current() *core.Set { return s.cur }

// Previous returns the generation before Current.
func (s *Session) Previous() *core.Set { return s.prev }

// Generation returns the index of Current.
func (s *Session) Generation() int { return s.generation }

// Running reports whether the simulation is ticking.
func (s *Session) Running() bool { return s.started && !s.paused && !s.done }

// Paused reports whether the simulation was paused.
func (s *Session) Paused() bool { return s.paused }

// Done reports whether the simulation has stopped.
func (s *Session) Done() bool { return s.done }

// Rate returns generations per second over recent ticks.
func (s *Session) Rate() float64 { return s.rate.PerSecond() }
