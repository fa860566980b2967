package seeds

import "lifestream/pkg/core"

// shapes are offsets from the top-left corner of each pattern.
var shapes = map[string][]core.Coord{
	"block": {
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	},
	"blinker": {
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
	},
	"beacon": {
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0},
		{Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 3},
	},
	"glider": {
		{Row: 0, Col: 1}, {Row: 1, Col: 2},
		{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2},
	},
	"r-pentomino": {
		{Row: 0, Col: 1}, {Row: 0, Col: 2},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
		{Row: 2, Col: 1},
	},
	"glider-gun": gosperGun(),
}

func gosperGun() []core.Coord {
	rows := []string{
		"........................#...........",
		"......................#.#...........",
		"............##......##............##",
		"...........#...#....##............##",
		"##........#.....#...##..............",
		"##........#...#.##....#.#...........",
		"..........#.....#.......#...........",
		"...........#...#....................",
		"............##......................",
	}
	var out []core.Coord
	for r, line := range rows {
		for c, ch := range line {
			if ch == '#' {
				out = append(out, core.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Place returns shape translated so its bounding box is centered on a
// rows x cols grid. Cells that fall outside the grid are dropped.
func Place(shape []core.Coord, rows, cols int) []core.Coord {
	h, w := extent(shape)
	top := (rows - h) / 2
	left := (cols - w) / 2
	out := make([]core.Coord, 0, len(shape))
	for _, c := range shape {
		p := core.Coord{Row: c.Row + top, Col: c.Col + left}
		if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			continue
		}
		out = append(out, p)
	}
	return out
}

func extent(shape []core.Coord) (h, w int) {
	for _, c := range shape {
		if c.Row+1 > h {
			h = c.Row + 1
		}
		if c.Col+1 > w {
			w = c.Col + 1
		}
	}
	return h, w
}

func init() {
	for name, shape := range shapes {
		shape := shape
		Register(name, func(rows, cols int, _ map[string]string) []core.Coord {
			return Place(shape, rows, cols)
		})
	}
}
