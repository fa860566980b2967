//go:build ebiten

package render

import (
	"image/color"

	"lifestream/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter updates a single RGBA image from a generation and draws it.
type GridPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	classes []uint8
}

// NewGridPainter allocates a painter for a grid of rows x cols cells.
func NewGridPainter(rows, cols int) *GridPainter {
	gp := &GridPainter{w: cols, h: rows, buf: make([]byte, 4*rows*cols)}
	gp.img = ebiten.NewImage(cols, rows)
	return gp
}

// Blit uploads cur into the painter image and draws it scaled onto dst. With
// a palette, cells are colored by how they changed since prev; otherwise
// alive cells use on and dead cells use off.
func (gp *GridPainter) Blit(dst *ebiten.Image, prev, cur *core.Set, palette []color.RGBA, on, off color.Color, scale int) {
	if cur == nil || cur.Rows() != gp.h || cur.Cols() != gp.w {
		return
	}
	if len(palette) > 0 {
		gp.classes = Classify(gp.classes, prev, cur)
		fillPaletteRGBA(gp.buf, gp.classes, palette)
	} else {
		fillBinaryRGBA(gp.buf, cur, on, off)
	}
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
