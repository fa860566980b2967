package core

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds reports a cell outside the declared grid dimensions.
	ErrOutOfBounds = errors.New("core: cell out of bounds")
	// ErrDuplicateCell reports two cells with the same coordinate.
	ErrDuplicateCell = errors.New("core: duplicate cell")
	// ErrMissingCell reports a coordinate with no cell.
	ErrMissingCell = errors.New("core: missing cell")
	// ErrDimensions reports a set whose dimensions do not match a board.
	ErrDimensions = errors.New("core: dimensions mismatch")
)

// Set is one generation of cells: exactly one cell for every coordinate in
// [0,rows) x [0,cols), stored in row-major order. A Set is never modified
// after construction, so a single *Set may be shared by any number of readers.
type Set struct {
	rows, cols int
	cells      []Cell
}

// NewSet returns a set of the given dimensions with every cell dead.
func NewSet(rows, cols int) *Set {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([]Cell, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells[r*cols+c] = NewCell(r, c)
		}
	}
	return &Set{rows: rows, cols: cols, cells: cells}
}

// FromCells builds a set from an arbitrary slice, which must cover every
// coordinate of the grid exactly once. The order of cells does not matter.
func FromCells(rows, cols int, cells []Cell) (*Set, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, rows, cols)
	}
	out := make([]Cell, rows*cols)
	seen := make([]bool, rows*cols)
	for _, c := range cells {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			return nil, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, c.Row, c.Col, rows, cols)
		}
		idx := c.Row*cols + c.Col
		if seen[idx] {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicateCell, c.Row, c.Col)
		}
		seen[idx] = true
		out[idx] = c
	}
	for idx, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrMissingCell, idx/cols, idx%cols)
		}
	}
	return &Set{rows: rows, cols: cols, cells: out}, nil
}

// Rows returns the number of grid rows.
func (s *Set) Rows() int { return s.rows }

// Cols returns the number of grid columns.
func (s *Set) Cols() int { return s.cols }

// Len returns the number of cells, always Rows()*Cols().
func (s *Set) Len() int { return len(s.cells) }

// Contains reports whether (row, col) lies inside the grid.
func (s *Set) Contains(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols
}

// Lookup returns the cell at (row, col). Coordinates outside the grid are
// absent: the boolean is false and the cell is the zero value.
func (s *Set) Lookup(row, col int) (Cell, bool) {
	if !s.Contains(row, col) {
		return Cell{}, false
	}
	return s.cells[row*s.cols+col], true
}

// At is Lookup keyed by coordinate.
func (s *Set) At(c Coord) (Cell, bool) { return s.Lookup(c.Row, c.Col) }

// IsAlive reports whether a cell exists at (row, col) and is alive.
func (s *Set) IsAlive(row, col int) bool {
	if !s.Contains(row, col) {
		return false
	}
	return s.cells[row*s.cols+col].Alive
}

// Cells returns the cells as an ordered sequence. The slice is a copy; changing
// it does not affect the set.
func (s *Set) Cells() []Cell {
	return append([]Cell(nil), s.cells...)
}

// Each calls fn for every cell in row-major order.
func (s *Set) Each(fn func(Cell)) {
	for _, c := range s.cells {
		fn(c)
	}
}

// Map returns a new set whose cells are fn applied to each cell of s. The
// coordinate of every result is forced back to its source coordinate so the
// grid invariant holds whatever fn returns.
func (s *Set) Map(fn func(Cell) Cell) *Set {
	out := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		next := fn(c)
		next.Row, next.Col = c.Row, c.Col
		out[i] = next
	}
	return &Set{rows: s.rows, cols: s.cols, cells: out}
}

// Population returns the number of living cells.
func (s *Set) Population() int {
	n := 0
	for _, c := range s.cells {
		if c.Alive {
			n++
		}
	}
	return n
}

// Alive returns the coordinates of all living cells in row-major order.
func (s *Set) Alive() []Coord {
	var live []Coord
	for _, c := range s.cells {
		if c.Alive {
			live = append(live, c.Coord())
		}
	}
	return live
}

// Equal reports whether both sets have the same dimensions and every
// coordinate carries the same alive flag.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || s.rows != o.rows || s.cols != o.cols {
		return false
	}
	for i := range s.cells {
		if s.cells[i].Alive != o.cells[i].Alive {
			return false
		}
	}
	return true
}
