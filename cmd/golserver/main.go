package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifestream/internal/app"
	"lifestream/internal/transport"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	batch := flag.Int("batch", transport.DefaultConfig().BatchSize, "cells per websocket message")
	autostart := flag.Bool("autostart", false, "start the simulation without waiting for a client")
	flag.Parse()

	s, err := cfg.NewSim()
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	tcfg := transport.DefaultConfig()
	tcfg.BatchSize = *batch
	tcfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           transport.NewServer(s, tcfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *autostart {
		if err := s.Run(ctx); err != nil {
			log.Fatalf("start: %v", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serving %dx%d %s on %s", cfg.Rows, cfg.Cols, cfg.Pattern, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
