package transport

import (
	"sync"

	"lifestream/pkg/sim"
)

const mailboxLimit = 16

// mailbox sits between the actor and a connection's writer so the actor's
// channel is always drained. Consecutive generations collapse to the newest;
// pause, resume and done are kept in order.
type mailbox struct {
	mu    sync.Mutex
	queue []sim.Notification
	ready chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (m *mailbox) put(n sim.Notification) {
	m.mu.Lock()
	last := len(m.queue) - 1
	switch {
	case last >= 0 && m.queue[last].Kind == sim.KindChange && n.Kind == sim.KindChange:
		m.queue[last] = n
	case len(m.queue) >= mailboxLimit:
		m.queue = append(m.queue[:0], n)
	default:
		m.queue = append(m.queue, n)
	}
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() []sim.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}
