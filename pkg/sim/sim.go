// Package sim runs a Game of Life simulation as an actor. One goroutine owns
// the grid; every control call is a command queued to it, and every new
// generation is pushed to the registered subscriber channels.
package sim

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"lifestream/pkg/core"
	"lifestream/pkg/life"
)

// ErrClosed is returned by calls made after the simulation has been closed.
var ErrClosed = errors.New("sim: simulation closed")

var (
	errSubscriberClosed = errors.New("subscriber channel closed")
	errSubscriberFull   = errors.New("subscriber channel full")
)

type op uint8

const (
	opRun op = iota
	opPause
	opResume
	opStep
	opSubscribe
	opUnsubscribe
	opSubscribed
	opSnapshot
)

type command struct {
	op    op
	id    string
	ch    chan<- Notification
	reply chan State
	found chan bool
}

// Simulation is the handle to a running simulation actor. All methods are
// safe for concurrent use.
type Simulation struct {
	cfg  Config
	log  *log.Logger
	cmds chan command
	quit chan struct{}
	done chan struct{}
	once sync.Once

	// mu orders enqueues against Close: every command accepted before Close
	// is in cmds when quit closes, and the loop drains them before exiting.
	mu     sync.RWMutex
	closed bool
}

// state is owned by the actor goroutine and never touched elsewhere.
type state struct {
	started    bool
	running    bool
	cells      *core.Set
	generation int
	subs       map[string]chan<- Notification

	timer *time.Timer
	tick  <-chan time.Time
}

// New seeds a rows x cols board with the given live cells and starts the
// actor. The simulation stays idle until Run is called.
func New(rows, cols int, live []core.Coord, cfg Config) *Simulation {
	return NewFromBoard(core.Seed(rows, cols, live), cfg)
}

// NewFromBoard starts an actor owning the board's cells.
func NewFromBoard(b *core.Board, cfg Config) *Simulation {
	cfg = cfg.normalized()
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Simulation{
		cfg:  cfg,
		log:  logger,
		cmds: make(chan command, cfg.QueueSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	st := &state{
		cells: b.Set(),
		subs:  make(map[string]chan<- Notification),
	}
	s.log.Printf("sim: board %s %dx%d seeded with %d live cells", b.ID(), b.Rows(), b.Cols(), st.cells.Population())
	go s.loop(st)
	return s
}

// Run starts ticking. It only has an effect the first time; a paused
// simulation is restarted with Resume.
func (s *Simulation) Run(ctx context.Context) error {
	return s.send(ctx, command{op: opRun})
}

// Pause stops ticking and broadcasts the current generation as a pause
// notification. No generation is computed after the pause is processed.
func (s *Simulation) Pause(ctx context.Context) error {
	return s.send(ctx, command{op: opPause})
}

// Resume broadcasts the current generation as a resume notification and
// restarts ticking.
func (s *Simulation) Resume(ctx context.Context) error {
	return s.send(ctx, command{op: opResume})
}

// Step advances a single generation while the simulation is not running.
func (s *Simulation) Step(ctx context.Context) error {
	return s.send(ctx, command{op: opStep})
}

// Subscribe registers ch for notifications and returns its id. The
// subscriber receives every broadcast processed after the registration.
// Delivery is best effort: a channel that stays full past the delivery
// timeout, or that is closed, is dropped.
func (s *Simulation) Subscribe(ctx context.Context, ch chan<- Notification) (string, error) {
	id := core.NewID()
	if err := s.send(ctx, command{op: opSubscribe, id: id, ch: ch}); err != nil {
		return "", err
	}
	return id, nil
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (s *Simulation) Unsubscribe(ctx context.Context, id string) error {
	return s.send(ctx, command{op: opUnsubscribe, id: id})
}

// Subscribed reports whether id is still registered. A subscriber dropped
// for a full or closed channel is no longer registered.
func (s *Simulation) Subscribed(ctx context.Context, id string) (bool, error) {
	found := make(chan bool, 1)
	if err := s.send(ctx, command{op: opSubscribed, id: id, found: found}); err != nil {
		return false, err
	}
	select {
	case ok := <-found:
		return ok, nil
	case <-s.done:
		select {
		case ok := <-found:
			return ok, nil
		default:
			return false, ErrClosed
		}
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Snapshot returns the current state once all previously queued commands
// have been processed.
func (s *Simulation) Snapshot(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if err := s.send(ctx, command{op: opSnapshot, reply: reply}); err != nil {
		return State{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.done:
		select {
		case st := <-reply:
			return st, nil
		default:
			return State{}, ErrClosed
		}
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Close stops the actor and sends a final KindDone notification to every
// subscriber. Commands accepted before Close are processed first. Subscriber
// channels are not closed; they belong to the caller.
func (s *Simulation) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.quit)
		s.mu.Unlock()
	})
	<-s.done
	return nil
}

// Done is closed once the actor has stopped.
func (s *Simulation) Done() <-chan struct{} { return s.done }

// send holds the read lock across the closed check and the enqueue.
func (s *Simulation) send(ctx context.Context, cmd command) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulation) loop(st *state) {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			s.drain(st)
			st.stopTimer()
			s.broadcast(st, KindDone)
			s.log.Printf("sim: stopped at generation %d", st.generation)
			return
		case <-st.tick:
			st.timer, st.tick = nil, nil
			if st.running {
				s.advance(st)
				st.schedule(s.cfg.Interval)
			}
		case cmd := <-s.cmds:
			s.handle(st, cmd)
		}
	}
}

func (s *Simulation) drain(st *state) {
	for {
		select {
		case cmd := <-s.cmds:
			s.handle(st, cmd)
		default:
			return
		}
	}
}

func (s *Simulation) handle(st *state, cmd command) {
	switch cmd.op {
	case opRun:
		if st.started {
			s.log.Printf("sim: run ignored (running=%v)", st.running)
			return
		}
		st.started, st.running = true, true
		s.advance(st)
		st.schedule(s.cfg.Interval)
	case opPause:
		st.running = false
		st.stopTimer()
		s.broadcast(st, KindPause)
	case opResume:
		st.started = true
		if st.running {
			s.broadcast(st, KindResume)
			return
		}
		st.running = true
		s.broadcast(st, KindResume)
		s.advance(st)
		st.schedule(s.cfg.Interval)
	case opStep:
		if st.running {
			s.log.Printf("sim: step ignored while running")
			return
		}
		s.advance(st)
	case opSubscribe:
		st.subs[cmd.id] = cmd.ch
		s.log.Printf("sim: subscriber %s registered (%d total)", cmd.id, len(st.subs))
	case opUnsubscribe:
		if _, ok := st.subs[cmd.id]; ok {
			delete(st.subs, cmd.id)
			s.log.Printf("sim: subscriber %s removed (%d total)", cmd.id, len(st.subs))
		}
	case opSubscribed:
		_, ok := st.subs[cmd.id]
		cmd.found <- ok
	case opSnapshot:
		cmd.reply <- State{
			Started:     st.started,
			Running:     st.running,
			Generation:  st.generation,
			Cells:       st.cells,
			Subscribers: len(st.subs),
		}
	}
}

func (s *Simulation) advance(st *state) {
	st.cells = life.Next(st.cells)
	st.generation++
	s.broadcast(st, KindChange)
}

func (s *Simulation) broadcast(st *state, kind Kind) {
	n := Notification{Kind: kind, Cells: st.cells, Generation: st.generation}
	for id, ch := range st.subs {
		if err := deliver(ch, n, s.cfg.DeliveryTimeout); err != nil {
			delete(st.subs, id)
			s.log.Printf("sim: dropping subscriber %s at generation %d: %v", id, st.generation, err)
		}
	}
}

// deliver sends n without blocking the actor for longer than wait. A send on
// a channel the subscriber has closed panics; that is reported as an error.
func deliver(ch chan<- Notification, n Notification, wait time.Duration) (err error) {
	defer func() {
		if recover() != nil {
			err = errSubscriberClosed
		}
	}()
	select {
	case ch <- n:
		return nil
	default:
	}
	if wait < 0 {
		return errSubscriberFull
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case ch <- n:
		return nil
	case <-t.C:
		return errSubscriberFull
	}
}

func (st *state) schedule(d time.Duration) {
	st.stopTimer()
	st.timer = time.NewTimer(d)
	st.tick = st.timer.C
}

func (st *state) stopTimer() {
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer, st.tick = nil, nil
}
