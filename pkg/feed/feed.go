package feed

import (
	"sync"

	"espbridge/models"
)

// Hub fans newly ingested messages out to live feed subscribers. Slow
// subscribers lose messages rather than block ingestion.
type Hub struct {
	mu   sync.Mutex
	subs map[chan models.Message]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan models.Message]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be
// called when the listener goes away.
func (h *Hub) Subscribe() (<-chan models.Message, func()) {
	ch := make(chan models.Message, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber whose buffer has room.
func (h *Hub) Publish(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
