package dtmf

import "github.com/google/uuid"

// Subscribe creates a channel receiving a snapshot per engine iteration.
// The returned ID identifies the channel for Unsubscribe. Sends are
// non-blocking: a subscriber that falls behind misses snapshots rather than
// stalling the decode loop.
func (e *Engine) Subscribe() (string, <-chan Snapshot) {
	id := uuid.NewString()
	ch := make(chan Snapshot, 16)
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscriber channel.
func (e *Engine) Unsubscribe(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	if ch, ok := e.subscribers[id]; ok {
		close(ch)
		delete(e.subscribers, id)
	}
}

func (e *Engine) publish(s Snapshot) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- s:
		default:
			// slow subscriber: drop rather than block the decode loop
		}
	}
}
