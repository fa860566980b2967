package core

import (
	"strings"

	"github.com/google/uuid"
)

// Board is a fixed-size grid of cells. Boards are only used to build the
// initial generation; Transform returns a new Board and leaves the receiver
// untouched.
type Board struct {
	id         string
	rows, cols int
	cells      *Set
}

// NewBoard allocates a board with every cell dead.
func NewBoard(rows, cols int) *Board {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return &Board{id: NewID(), rows: rows, cols: cols, cells: NewSet(rows, cols)}
}

// Seed builds a board whose cells are alive exactly at the given coordinates.
// Coordinates outside the board are ignored.
func Seed(rows, cols int, live []Coord) *Board {
	alive := make(map[Coord]struct{}, len(live))
	for _, c := range live {
		alive[c] = struct{}{}
	}
	return NewBoard(rows, cols).Transform(func(s *Set) *Set {
		return s.Map(func(c Cell) Cell {
			if _, ok := alive[c.Coord()]; ok {
				return c.Birth()
			}
			return c.Kill()
		})
	})
}

// Transform applies fn to the board's cell set and returns a board with the
// same id and dimensions holding the result. A nil result or one with other
// dimensions leaves the cells unchanged.
func (b *Board) Transform(fn func(*Set) *Set) *Board {
	next := fn(b.cells)
	if next == nil || next.Rows() != b.rows || next.Cols() != b.cols {
		next = b.cells
	}
	return &Board{id: b.id, rows: b.rows, cols: b.cols, cells: next}
}

// ID returns the board's diagnostic identifier.
func (b *Board) ID() string { return b.id }

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// Set exposes the board's current cell set.
func (b *Board) Set() *Set { return b.cells }

// Cells returns a copy of the board's cells in row-major order.
func (b *Board) Cells() []Cell { return b.cells.Cells() }

// NewID returns a random identifier: a v4 UUID as 32 upper-case hex digits.
func NewID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
