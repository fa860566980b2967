package sim

import "lifestream/pkg/core"

// Kind tags a notification.
type Kind uint8

const (
	// KindNone is the zero value; it is never broadcast.
	KindNone Kind = iota
	// KindChange carries a newly computed generation.
	KindChange
	// KindPause is sent when the simulation pauses.
	KindPause
	// KindResume is sent when the simulation resumes.
	KindResume
	// KindDone is the last notification a subscriber receives.
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindChange:
		return "change"
	case KindPause:
		return "pause"
	case KindResume:
		return "resume"
	case KindDone:
		return "done"
	default:
		return "none"
	}
}

// Notification is delivered to subscribers. Cells is shared by every
// subscriber of the same broadcast and must not be modified.
type Notification struct {
	Kind       Kind
	Cells      *core.Set
	Generation int
}

// State is a point-in-time view of the simulation returned by Snapshot.
type State struct {
	Started     bool
	Running     bool
	Generation  int
	Cells       *core.Set
	Subscribers int
}
