package app

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"lifestream/internal/seeds"
	"lifestream/pkg/core"
	"lifestream/pkg/sim"
)

// Config represents the command-line parameters shared by the binaries.
type Config struct {
	Rows     int
	Cols     int
	Pattern  string
	Seed     int64
	Density  float64
	Interval time.Duration
	Addr     string
	Scale    int
	TPS      int
	Palette  bool
	Verbose  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rows:     64,
		Cols:     64,
		Pattern:  "random",
		Seed:     42,
		Density:  0.35,
		Interval: 200 * time.Millisecond,
		Addr:     ":8080",
		Scale:    8,
		TPS:      60,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid rows")
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid columns")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, fmt.Sprintf("initial pattern %v", seeds.Names()))
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random pattern")
	fs.Float64Var(&c.Density, "density", c.Density, "live fraction for the random pattern")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "delay between generations")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.BoolVar(&c.Palette, "palette", c.Palette, "color births and deaths")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log simulation events")
}

// Live resolves the configured pattern to the initial live coordinates.
func (c *Config) Live() ([]core.Coord, error) {
	factory, ok := seeds.Lookup(c.Pattern)
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q (have %v)", c.Pattern, seeds.Names())
	}
	return factory(c.Rows, c.Cols, map[string]string{
		"seed":    strconv.FormatInt(c.Seed, 10),
		"density": strconv.FormatFloat(c.Density, 'f', -1, 64),
	}), nil
}

// SimConfig returns the actor configuration for these flags.
func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	if c.Interval > 0 {
		cfg.Interval = c.Interval
	}
	if c.Verbose {
		cfg.Logger = c.Logger()
	}
	return cfg
}

// Logger returns the process logger when verbose output is enabled.
func (c *Config) Logger() *log.Logger {
	if !c.Verbose {
		return nil
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

// NewSim seeds and starts a simulation actor from the configuration.
func (c *Config) NewSim() (*sim.Simulation, error) {
	live, err := c.Live()
	if err != nil {
		return nil, err
	}
	return sim.New(c.Rows, c.Cols, live, c.SimConfig()), nil
}
