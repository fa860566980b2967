package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return r.r.Float64() < p
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// RandomLive picks count distinct coordinates inside a rows x cols grid. The
// count is capped at the number of cells.
func RandomLive(r *RNG, rows, cols, count int) []Coord {
	total := rows * cols
	if total <= 0 || count <= 0 {
		return nil
	}
	if count > total {
		count = total
	}
	// Partial Fisher-Yates over the linear indices.
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	live := make([]Coord, count)
	for i := 0; i < count; i++ {
		j := i + r.IntN(total-i)
		idx[i], idx[j] = idx[j], idx[i]
		live[i] = Coord{Row: idx[i] / cols, Col: idx[i] % cols}
	}
	return live
}

// FillDensity returns every coordinate of a rows x cols grid that passes a
// Chance(density) roll, in row-major order.
func FillDensity(r *RNG, rows, cols int, density float64) []Coord {
	var live []Coord
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if r.Chance(density) {
				live = append(live, Coord{Row: row, Col: col})
			}
		}
	}
	return live
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
