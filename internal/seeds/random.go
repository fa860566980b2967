package seeds

import (
	"strconv"

	"lifestream/pkg/core"
)

// RandomConfig controls the random pattern.
type RandomConfig struct {
	Seed int64
	// Density is the probability of a cell starting alive. Ignored when
	// Count is positive.
	Density float64
	// Count picks exactly this many distinct live cells.
	Count int
}

// DefaultRandomConfig returns the standard configuration.
func DefaultRandomConfig() RandomConfig {
	return RandomConfig{Seed: 42, Density: 0.35}
}

// RandomFromMap populates a RandomConfig from a string map.
func RandomFromMap(cfg map[string]string) RandomConfig {
	c := DefaultRandomConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Count = parsed
		}
	}
	return c
}

// Random returns live cells chosen by a deterministic RNG.
func Random(rows, cols int, c RandomConfig) []core.Coord {
	rng := core.NewRNG(c.Seed)
	if c.Count > 0 {
		return core.RandomLive(rng, rows, cols, c.Count)
	}
	return core.FillDensity(rng, rows, cols, c.Density)
}

func init() {
	Register("random", func(rows, cols int, cfg map[string]string) []core.Coord {
		return Random(rows, cols, RandomFromMap(cfg))
	})
}
