// Package ui draws the status bar under the simulation view.
package ui

import "fmt"

// Height is the height in pixels of the status bar.
const Height = 20

// Status is what the bar shows for the current frame.
type Status struct {
	Generation int
	Population int
	Running    bool
	Paused     bool
	Rate       float64
}

// State names the simulation state.
func (s Status) State() string {
	switch {
	case s.Paused:
		return "paused"
	case s.Running:
		return "running"
	default:
		return "idle"
	}
}

// Text formats the status line.
func (s Status) Text() string {
	return fmt.Sprintf("gen %d  pop %d  %s  %.1f gen/s", s.Generation, s.Population, s.State(), s.Rate)
}
