//go:build ebiten

package app

import (
	"context"
	"errors"
	"image/color"
	"time"

	"lifestream/internal/render"
	"lifestream/internal/ui"
	"lifestream/pkg/sim"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a simulation session to the ebiten.Game interface.
type Game struct {
	session *Session
	painter *render.GridPainter
	hud     *ui.HUD

	onColor  color.Color
	offColor color.Color
	palette  []color.RGBA

	rows, cols int
	scale      int
	frames     int
}

// New constructs a Game drawing the session's generations.
func New(session *Session, scale int, palette bool) *Game {
	cur := session.Current()
	if scale <= 0 {
		scale = 1
	}
	g := &Game{
		session:  session,
		painter:  render.NewGridPainter(cur.Rows(), cur.Cols()),
		hud:      ui.NewHUD(),
		onColor:  color.White,
		offColor: color.Black,
		rows:     cur.Rows(),
		cols:     cur.Cols(),
		scale:    scale,
	}
	if palette {
		g.palette = render.DefaultPalette
	}
	return g
}

// Update handles per-frame input and drains pending generations.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	ctx := context.Background()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := g.session.Toggle(ctx); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.session.Step(ctx); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if g.palette == nil {
			g.palette = render.DefaultPalette
		} else {
			g.palette = nil
		}
	}

	g.session.Poll(time.Now())
	if g.session.Done() {
		return ebiten.Termination
	}
	g.frames++
	if g.frames%max(ebiten.TPS(), 1) == 0 {
		if _, err := g.session.Resync(ctx); errors.Is(err, sim.ErrClosed) {
			return ebiten.Termination
		} else if err != nil {
			return err
		}
	}
	g.hud.Update(ui.Status{
		Generation: g.session.Generation(),
		Population: g.session.Current().Population(),
		Running:    g.session.Running(),
		Paused:     g.session.Paused(),
		Rate:       g.session.Rate(),
	})
	return nil
}

// Draw renders the latest generation.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.session.Previous(), g.session.Current(), g.palette, g.onColor, g.offColor, g.scale)
	g.hud.Draw(screen, g.rows*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cols * g.scale, g.rows*g.scale + ui.Height
}
