// Package term draws generations on a terminal screen with tcell.
package term

import (
	"fmt"
	"time"

	"lifestream/internal/stats"
	"lifestream/pkg/sim"

	"github.com/gdamore/tcell/v2"
)

// Action is what a key press asks the viewer to do.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionStep
	ActionQuit
)

var (
	aliveStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	deadStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
)

// View renders the latest notification. Each cell is two columns wide so the
// grid looks square; the bottom line is a status bar.
type View struct {
	screen tcell.Screen
	rate   *stats.Rate

	last   sim.Notification
	paused bool

	offRow, offCol int
}

// NewView returns a view drawing on screen. The screen must be initialized.
func NewView(screen tcell.Screen) *View {
	return &View{screen: screen, rate: stats.NewRate()}
}

// Update records a notification received at now.
func (v *View) Update(n sim.Notification, now time.Time) {
	switch n.Kind {
	case sim.KindPause:
		v.paused = true
	case sim.KindResume:
		v.paused = false
	case sim.KindChange:
		v.rate.Observe(n.Generation, now)
	}
	if n.Cells != nil {
		v.last = n
	}
}

// Paused reports whether the last control notification was a pause.
func (v *View) Paused() bool { return v.paused }

// HandleKey maps a key press to an action. Arrow keys pan the view and are
// handled here.
func (v *View) HandleKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyUp:
		v.Pan(-1, 0)
		return ActionNone
	case tcell.KeyDown:
		v.Pan(1, 0)
		return ActionNone
	case tcell.KeyLeft:
		v.Pan(0, -1)
		return ActionNone
	case tcell.KeyRight:
		v.Pan(0, 1)
		return ActionNone
	case tcell.KeyRune:
	default:
		return ActionNone
	}
	switch ev.Rune() {
	case 'q':
		return ActionQuit
	case ' ', 'p':
		return ActionToggle
	case 'n':
		return ActionStep
	}
	return ActionNone
}

// Pan moves the viewport by the given number of cells, clamped to the grid.
func (v *View) Pan(dRow, dCol int) {
	v.offRow = clamp(v.offRow+dRow, 0, v.maxOffset(true))
	v.offCol = clamp(v.offCol+dCol, 0, v.maxOffset(false))
}

func (v *View) maxOffset(rows bool) int {
	if v.last.Cells == nil {
		return 0
	}
	w, h := v.screen.Size()
	if rows {
		return max(0, v.last.Cells.Rows()-(h-1))
	}
	return max(0, v.last.Cells.Cols()-w/2)
}

// Draw paints the grid and status bar and shows the screen.
func (v *View) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if cells := v.last.Cells; cells != nil {
		for y := 0; y < h-1; y++ {
			row := y + v.offRow
			if row >= cells.Rows() {
				break
			}
			for x := 0; x*2+1 < w; x++ {
				col := x + v.offCol
				if col >= cells.Cols() {
					break
				}
				style := deadStyle
				if cells.IsAlive(row, col) {
					style = aliveStyle
				}
				v.screen.SetContent(x*2, y, ' ', nil, style)
				v.screen.SetContent(x*2+1, y, ' ', nil, style)
			}
		}
	}
	v.drawStatus(w, h-1)
	v.screen.Show()
}

// Status returns the text of the status bar.
func (v *View) Status() string {
	state := "running"
	if v.paused {
		state = "paused"
	}
	pop := 0
	if v.last.Cells != nil {
		pop = v.last.Cells.Population()
	}
	return fmt.Sprintf("gen %d  pop %d  %s  %.1f gen/s  [space] pause/resume  [n] step  [q] quit",
		v.last.Generation, pop, state, v.rate.PerSecond())
}

func (v *View) drawStatus(w, y int) {
	if y < 0 {
		return
	}
	x := 0
	for _, r := range v.Status() {
		if x >= w {
			break
		}
		v.screen.SetContent(x, y, r, nil, statusStyle)
		x++
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
