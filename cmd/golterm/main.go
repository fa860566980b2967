package main

import (
	"context"
	"flag"
	"log"
	"time"

	"lifestream/internal/app"
	"lifestream/internal/term"
	"lifestream/pkg/sim"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	s, err := cfg.NewSim()
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen: %v", err)
	}
	defer screen.Fini()

	if err := run(context.Background(), s, screen); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
}

func run(ctx context.Context, s *sim.Simulation, screen tcell.Screen) error {
	notes := make(chan sim.Notification, 64)
	id, err := s.Subscribe(ctx, notes)
	if err != nil {
		return err
	}
	defer func() { s.Unsubscribe(ctx, id) }()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	view := term.NewView(screen)
	view.Update(sim.Notification{Cells: st.Cells, Generation: st.Generation}, time.Now())
	view.Draw()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	live := time.NewTicker(time.Second)
	defer live.Stop()

	started := st.Started
	for {
		select {
		case <-live.C:
			ok, err := s.Subscribed(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if id, err = s.Subscribe(ctx, notes); err != nil {
				return err
			}
			if st, err = s.Snapshot(ctx); err != nil {
				return err
			}
			view.Update(sim.Notification{Cells: st.Cells, Generation: st.Generation}, time.Now())
			view.Draw()
		case n := <-notes:
			if n.Kind == sim.KindDone {
				return nil
			}
			view.Update(n, time.Now())
			view.Draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				view.Draw()
			case *tcell.EventKey:
				var err error
				switch view.HandleKey(ev) {
				case term.ActionQuit:
					return nil
				case term.ActionToggle:
					switch {
					case !started:
						started = true
						err = s.Run(ctx)
					case view.Paused():
						err = s.Resume(ctx)
					default:
						err = s.Pause(ctx)
					}
				case term.ActionStep:
					err = s.Step(ctx)
				}
				if err != nil {
					return err
				}
				view.Draw()
			}
		}
	}
}
