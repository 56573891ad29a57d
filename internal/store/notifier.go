package store

import "sync"

// notifier is an in-process change bus keyed by owner id. The sqlite backend
// publishes to it after every successful mutation; the postgres backend's
// listener also funnels NOTIFY payloads through one.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan Event
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]chan Event)}
}

func (n *notifier) subscribe(ownerID string) (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	ch := make(chan Event, 8)
	if n.subs[ownerID] == nil {
		n.subs[ownerID] = make(map[int]chan Event)
	}
	n.subs[ownerID][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.subs[ownerID]; ok {
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
			if len(set) == 0 {
				delete(n.subs, ownerID)
			}
		}
	}
	return ch, cancel
}

// broadcast delivers to every subscriber for ownerID. Slow subscribers drop
// events rather than block: a dropped event is harmless because the next
// poll refetches anyway.
func (n *notifier) broadcast(ownerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[ownerID] {
		select {
		case ch <- Event{OwnerID: ownerID}:
		default:
		}
	}
}

func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for owner, set := range n.subs {
		for id, ch := range set {
			delete(set, id)
			close(ch)
		}
		delete(n.subs, owner)
	}
}
