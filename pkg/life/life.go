// Package life implements Conway's Game of Life on a bounded grid. Cells on
// the edge simply have fewer neighbors; nothing wraps.
package life

import (
	"lifestream/pkg/core"
)

var neighborOffsets = [8]core.Coord{
	{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
	{Row: 0, Col: -1}, {Row: 0, Col: 1},
	{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
}

// Rule reports whether a cell is alive in the next generation given its
// current state and the number of living neighbors.
func Rule(alive bool, neighbors int) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}

// LiveNeighbors counts the living cells among the eight neighbors of
// (row, col). Neighbors outside the grid are absent and count as nothing.
func LiveNeighbors(s *core.Set, row, col int) int {
	n := 0
	for _, off := range neighborOffsets {
		if s.IsAlive(row+off.Row, col+off.Col) {
			n++
		}
	}
	return n
}

// Next computes the generation following prev. It only reads prev, so the
// result does not depend on the order in which cells are visited.
func Next(prev *core.Set) *core.Set {
	return prev.Map(func(c core.Cell) core.Cell {
		return c.With(Rule(c.Alive, LiveNeighbors(prev, c.Row, c.Col)))
	})
}

// Run applies Next n times and returns the final generation.
func Run(s *core.Set, n int) *core.Set {
	for i := 0; i < n; i++ {
		s = Next(s)
	}
	return s
}

// Stable reports whether next is identical to prev, i.e. prev is a still life.
func Stable(prev, next *core.Set) bool { return prev.Equal(next) }
