//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 6
	baseline     = 14
)

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	pausedColor = color.RGBA{R: 230, G: 180, B: 60, A: 255}
	hintColor   = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

const hint = "[space] run/pause  [n] step  [c] colors  [q] quit"

// HUD renders the status bar below the simulation view.
type HUD struct {
	status Status
	panel  *ebiten.Image
}

// NewHUD constructs an empty HUD.
func NewHUD() *HUD { return &HUD{} }

// Update replaces the status shown on the next Draw.
func (h *HUD) Update(s Status) {
	if h == nil {
		return
	}
	h.status = s
}

// Draw paints the bar at offsetY, spanning the full screen width.
func (h *HUD) Draw(screen *ebiten.Image, offsetY int) {
	if h == nil {
		return
	}
	width := screen.Bounds().Dx()
	if width <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != width {
		h.panel = ebiten.NewImage(width, Height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	fg := textColor
	if h.status.Paused {
		fg = pausedColor
	}
	line := h.status.Text()
	text.Draw(h.panel, line, face, panelPadding, baseline, fg)
	if used := text.BoundString(face, line).Dx() + 3*panelPadding; used+text.BoundString(face, hint).Dx() < width {
		text.Draw(h.panel, hint, face, used, baseline, hintColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(offsetY))
	screen.DrawImage(h.panel, op)
}
