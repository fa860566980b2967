// Package render converts generations into RGBA pixel buffers.
package render

import (
	"image/color"

	"lifestream/pkg/core"
)

// Cell classes used to index a palette.
const (
	ClassDead uint8 = iota
	ClassAlive
	ClassBorn
	ClassDied
)

// DefaultPalette colors dead, surviving, newly born and just died cells.
var DefaultPalette = []color.RGBA{
	ClassDead:  {R: 0, G: 0, B: 0, A: 255},
	ClassAlive: {R: 230, G: 230, B: 230, A: 255},
	ClassBorn:  {R: 120, G: 220, B: 120, A: 255},
	ClassDied:  {R: 60, G: 30, B: 30, A: 255},
}

// Classify labels every cell of cur relative to prev. A nil prev, or one with
// other dimensions, classifies cells as plain alive or dead.
func Classify(dst []uint8, prev, cur *core.Set) []uint8 {
	if cap(dst) < cur.Len() {
		dst = make([]uint8, cur.Len())
	}
	dst = dst[:cur.Len()]
	compare := prev != nil && prev.Rows() == cur.Rows() && prev.Cols() == cur.Cols()
	i := 0
	cur.Each(func(c core.Cell) {
		was := compare && prev.IsAlive(c.Row, c.Col)
		switch {
		case c.Alive && compare && !was:
			dst[i] = ClassBorn
		case c.Alive:
			dst[i] = ClassAlive
		case was:
			dst[i] = ClassDied
		default:
			dst[i] = ClassDead
		}
		i++
	})
	return dst
}

// fillBinaryRGBA converts the alive flags of s into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, s *core.Set, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	i := 0
	s.Each(func(c core.Cell) {
		base := i * 4
		i++
		if c.Alive {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			return
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	})
}

// fillPaletteRGBA converts cell classes into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, classes []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range classes {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range classes {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
