package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"lifestream/pkg/core"
	"lifestream/pkg/sim"
)

// Message types on the wire. The first two client types and the server
// generation message match the TypeScript SDK.
const (
	TypeSubscribe         = "Subscribe"
	TypeStartSim          = "StartSim"
	TypePause             = "Pause"
	TypeResume            = "Resume"
	TypeStep              = "Step"
	TypeMessageFromServer = "MessageFromServer"
	TypeError             = "Error"
)

var (
	// ErrMalformed reports a client frame that is not a JSON object with a type.
	ErrMalformed = errors.New("transport: malformed message")
	// ErrUnknownType reports a client frame with an unsupported type.
	ErrUnknownType = errors.New("transport: unknown message type")
)

// ClientMessage is a request sent by a client. None of the requests carry a body.
type ClientMessage struct {
	Type string `json:"type"`
}

// ServerMessage carries one batch of a generation's cells.
type ServerMessage struct {
	Type            string      `json:"type"`
	Event           string      `json:"event,omitempty"`
	Cells           []core.Cell `json:"cells"`
	GenerationIndex int         `json:"generation_index"`
}

// ErrorMessage reports a rejected client frame.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StateMessage is the body of GET /state.
type StateMessage struct {
	Started         bool `json:"started"`
	Running         bool `json:"running"`
	GenerationIndex int  `json:"generation_index"`
	Population      int  `json:"population"`
	Rows            int  `json:"rows"`
	Cols            int  `json:"cols"`
	Subscribers     int  `json:"subscribers"`
}

// ParseClientMessage decodes and validates a client frame.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch msg.Type {
	case TypeSubscribe, TypeStartSim, TypePause, TypeResume, TypeStep:
		return msg, nil
	case "":
		return ClientMessage{}, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return ClientMessage{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

// Batches splits a notification into server messages of at most size cells.
func Batches(n sim.Notification, size int) []ServerMessage {
	if n.Cells == nil {
		return nil
	}
	cells := n.Cells.Cells()
	if size <= 0 {
		size = max(len(cells), 1)
	}
	out := make([]ServerMessage, 0, (len(cells)+size-1)/size)
	for start := 0; start < len(cells); start += size {
		end := min(start+size, len(cells))
		out = append(out, ServerMessage{
			Type:            TypeMessageFromServer,
			Event:           n.Kind.String(),
			Cells:           cells[start:end],
			GenerationIndex: n.Generation,
		})
	}
	return out
}

func stateMessage(st sim.State) StateMessage {
	msg := StateMessage{
		Started:         st.Started,
		Running:         st.Running,
		GenerationIndex: st.Generation,
		Subscribers:     st.Subscribers,
	}
	if st.Cells != nil {
		msg.Population = st.Cells.Population()
		msg.Rows = st.Cells.Rows()
		msg.Cols = st.Cells.Cols()
	}
	return msg
}
