package app

import (
	"flag"
	"testing"
	"time"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-rows", "10", "-cols", "20", "-pattern", "glider", "-interval", "50ms", "-palette"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Rows != 10 || cfg.Cols != 20 || cfg.Pattern != "glider" || cfg.Interval != 50*time.Millisecond || !cfg.Palette {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Seed != 42 || cfg.Addr != ":8080" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLiveUsesPatternRegistry(t *testing.T) {
	cfg := NewConfig()
	cfg.Rows, cfg.Cols = 8, 8
	cfg.Pattern = "block"
	live, err := cfg.Live()
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if len(live) != 4 {
		t.Fatalf("expected 4 live cells for a block, got %d", len(live))
	}

	cfg.Pattern = "random"
	cfg.Density = 1
	live, err = cfg.Live()
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if len(live) != 64 {
		t.Fatalf("density 1 should fill the grid, got %d", len(live))
	}

	cfg.Pattern = "nope"
	if _, err := cfg.Live(); err == nil {
		t.Fatal("expected an error for an unknown pattern")
	}
}

func TestSimConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Interval = time.Second
	sc := cfg.SimConfig()
	if sc.Interval != time.Second || sc.Logger != nil {
		t.Fatalf("unexpected sim config %+v", sc)
	}
	cfg.Verbose = true
	if cfg.SimConfig().Logger == nil {
		t.Fatal("verbose config should carry a logger")
	}
}
