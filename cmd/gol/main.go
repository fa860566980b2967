//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"lifestream/internal/app"
	"lifestream/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
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

	session, err := app.NewSession(context.Background(), s, 64)
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	game := app.New(session, cfg.Scale, cfg.Palette)

	ebiten.SetWindowTitle("lifestream: " + cfg.Pattern)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Cols*cfg.Scale, cfg.Rows*cfg.Scale+ui.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
