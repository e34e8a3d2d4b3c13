package realtime

import (
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Hub fans change events out to in-process subscribers, keyed by collection.
// Slow subscribers drop events rather than block the relay; dropped events
// are harmless because every event triggers a full snapshot re-read anyway.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[int]chan Change
	nextID      int
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[int]chan Change),
		logger:      logger,
	}
}

// Subscribe registers a listener for one collection. The returned cancel
// function must be called when the consumer goes away.
func (h *Hub) Subscribe(collection string) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[collection] == nil {
		h.subscribers[collection] = make(map[int]chan Change)
	}

	id := h.nextID
	h.nextID++
	ch := make(chan Change, subscriberBuffer)
	h.subscribers[collection][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subscribers[collection]; ok {
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		}
	}

	return ch, cancel
}

// Broadcast delivers the change to every subscriber of its collection.
func (h *Hub) Broadcast(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[change.Collection] {
		select {
		case ch <- change:
		default:
			h.logger.Debug("subscriber lagging, change dropped",
				"collection", change.Collection)
		}
	}
}

// SubscriberCount reports active listeners for a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[collection])
}
