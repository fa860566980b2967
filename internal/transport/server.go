// Package transport exposes a simulation to remote clients over HTTP and
// websockets. Every websocket client shares the same simulation.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"lifestream/pkg/sim"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Controller is the part of a simulation the transport drives.
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

// Server serves the HTTP and websocket endpoints.
type Server struct {
	ctrl     Controller
	cfg      Config
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewServer returns a server driving ctrl.
func NewServer(ctrl Controller, cfg Config) *Server {
	d := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = d.BatchSize
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = d.SubscriberBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = d.WriteTimeout
	}
	if cfg.LivenessInterval <= 0 {
		cfg.LivenessInterval = d.LivenessInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		ctrl: ctrl,
		cfg:  cfg,
		log:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "Hello world!")
	})
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /cells", s.handleCells)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctrl.Snapshot(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, stateMessage(st))
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctrl.Snapshot(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, ServerMessage{
		Type:            TypeMessageFromServer,
		Cells:           st.Cells.Cells(),
		GenerationIndex: st.Generation,
	})
}

func (s *Server) unavailable(w http.ResponseWriter, err error) {
	s.log.Printf("transport: snapshot failed: %v", err)
	http.Error(w, err.Error(), http.StatusServiceUnavailable)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("transport: upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	c := &conn{
		srv:   s,
		ws:    ws,
		addr:  r.RemoteAddr,
		notes: make(chan sim.Notification, s.cfg.SubscriberBuffer),
		box:   newMailbox(),
		out:   make(chan any, 8),
	}
	c.serve(context.Background())
}

// errDropped reports a subscription the simulation no longer holds.
var errDropped = errors.New("transport: subscription dropped")

// conn is one websocket client. The read loop owns control requests, the
// pump drains notifications into the mailbox, and the write loop is the only
// goroutine writing to the socket.
type conn struct {
	srv   *Server
	ws    *websocket.Conn
	addr  string
	notes chan sim.Notification
	box   *mailbox
	out   chan any

	mu    sync.Mutex
	subID string
}

func (c *conn) subscription() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subID
}

func (c *conn) setSubscription(id string) {
	c.mu.Lock()
	c.subID = id
	c.mu.Unlock()
}

func (c *conn) serve(ctx context.Context) {
	c.srv.log.Printf("transport: %s connected", c.addr)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readLoop(ctx) })
	g.Go(func() error { return c.pump(ctx) })
	g.Go(func() error { return c.writeLoop(ctx) })
	err := g.Wait()

	if id := c.subscription(); id != "" {
		cleanup, cancel := context.WithTimeout(context.Background(), time.Second)
		if uerr := c.srv.ctrl.Unsubscribe(cleanup, id); uerr != nil && !errors.Is(uerr, sim.ErrClosed) {
			c.srv.log.Printf("transport: unsubscribe %s: %v", id, uerr)
		}
		cancel()
	}
	c.srv.log.Printf("transport: %s disconnected: %v", c.addr, err)
}

func (c *conn) readLoop(ctx context.Context) error {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		msg, err := ParseClientMessage(data)
		if err != nil {
			c.srv.log.Printf("transport: %s: %v", c.addr, err)
			if err := c.reply(ctx, ErrorMessage{Type: TypeError, Message: err.Error()}); err != nil {
				return err
			}
			continue
		}
		if err := c.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *conn) dispatch(ctx context.Context, msg ClientMessage) error {
	ctrl := c.srv.ctrl
	var err error
	switch msg.Type {
	case TypeSubscribe:
		err = c.subscribe(ctx)
	case TypeStartSim:
		err = ctrl.Run(ctx)
	case TypePause:
		err = ctrl.Pause(ctx)
	case TypeResume:
		err = ctrl.Resume(ctx)
	case TypeStep:
		err = ctrl.Step(ctx)
	}
	return err
}

// subscribe registers the connection. A repeated Subscribe is a no-op while
// the subscription is live and registers again once it has been dropped.
func (c *conn) subscribe(ctx context.Context) error {
	ctrl := c.srv.ctrl
	if id := c.subscription(); id != "" {
		ok, err := ctrl.Subscribed(ctx, id)
		if err != nil || ok {
			return err
		}
		c.srv.log.Printf("transport: %s re-subscribing after drop of %s", c.addr, id)
	}
	id, err := ctrl.Subscribe(ctx, c.notes)
	if err != nil {
		return err
	}
	c.setSubscription(id)
	return nil
}

func (c *conn) reply(ctx context.Context, v any) error {
	select {
	case c.out <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *conn) pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-c.notes:
			c.box.put(n)
		}
	}
}

func (c *conn) writeLoop(ctx context.Context) error {
	defer c.ws.Close()
	live := time.NewTicker(c.srv.cfg.LivenessInterval)
	defer live.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-c.out:
			if err := c.write(v); err != nil {
				return err
			}
		case <-c.box.ready:
			for _, n := range c.box.take() {
				if n.Kind == sim.KindDone {
					c.close(websocket.CloseGoingAway, "simulation stopped")
					return sim.ErrClosed
				}
				for _, msg := range Batches(n, c.srv.cfg.BatchSize) {
					if err := c.write(msg); err != nil {
						return err
					}
				}
			}
		case <-live.C:
			id := c.subscription()
			if id == "" {
				continue
			}
			ok, err := c.srv.ctrl.Subscribed(ctx, id)
			if errors.Is(err, sim.ErrClosed) {
				c.close(websocket.CloseGoingAway, "simulation stopped")
				return err
			}
			if err == nil && !ok && c.subscription() == id {
				c.close(websocket.CloseTryAgainLater, "subscription dropped")
				return errDropped
			}
		}
	}
}

func (c *conn) close(code int, text string) {
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(c.srv.cfg.WriteTimeout))
}

func (c *conn) write(v any) error {
	c.ws.SetWriteDeadline(time.Now().Add(c.srv.cfg.WriteTimeout))
	return c.ws.WriteJSON(v)
}
