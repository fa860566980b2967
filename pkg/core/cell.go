package core

// Coord identifies a grid position. It is the identity of a Cell.
type Coord struct {
	Row int
	Col int
}

// Cell is a single grid position with its alive flag. Cells are values:
// Birth, Kill and With return new cells and never modify the receiver.
type Cell struct {
	Row   int  `json:"row"`
	Col   int  `json:"col"`
	Alive bool `json:"alive"`
}

// NewCell returns a dead cell at (row, col).
func NewCell(row, col int) Cell { return Cell{Row: row, Col: col} }

// Coord returns the cell's coordinate key.
func (c Cell) Coord() Coord { return Coord{Row: c.Row, Col: c.Col} }

// Same reports whether c and o occupy the same coordinate. The alive flag is
// not part of a cell's identity.
func (c Cell) Same(o Cell) bool { return c.Row == o.Row && c.Col == o.Col }

// Birth returns a living copy of c.
func (c Cell) Birth() Cell { return c.With(true) }

// Kill returns a dead copy of c.
func (c Cell) Kill() Cell { return c.With(false) }

// With returns a copy of c with the given alive flag.
func (c Cell) With(alive bool) Cell {
	c.Alive = alive
	return c
}
