// Package hub fans document updates out to stream listeners.
//
// The hub is a passive registry: the room decides when to publish, the hub
// only delivers. Each listener owns a buffered channel of pre-encoded JSON
// frames; a listener whose buffer is full at publish time is evicted rather
// than allowed to stall the rest.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leagueboard/internal/board"
	"leagueboard/internal/metrics"
)

const listenerBuffer = 8

// Listener is one subscribed stream. Frames arrive on C; the channel is
// closed when the listener is unsubscribed or evicted.
type Listener struct {
	ID uuid.UUID
	C  <-chan []byte

	ch chan []byte
}

type Hub struct {
	mu        sync.Mutex
	listeners map[uuid.UUID]chan []byte
	closed    bool
	log       *zap.Logger
}

func New(log *zap.Logger) *Hub {
	return &Hub{
		listeners: make(map[uuid.UUID]chan []byte),
		log:       log,
	}
}

// Subscribe registers a new listener and queues the current document as its
// first frame, so every stream opens with a full snapshot before any updates.
func (h *Hub) Subscribe(doc board.Document) (*Listener, error) {
	frame, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	ch := make(chan []byte, listenerBuffer)
	ch <- frame

	l := &Listener{ID: uuid.New(), C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return l, nil
	}
	h.listeners[l.ID] = ch
	metrics.ListenersActive.Set(float64(len(h.listeners)))
	return l, nil
}

// Unsubscribe removes a listener and closes its channel. Unknown or
// already-removed IDs are a no-op, so disconnect paths may call it freely.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.listeners[id]
	if !ok {
		return
	}
	delete(h.listeners, id)
	close(ch)
	metrics.ListenersActive.Set(float64(len(h.listeners)))
}

// Publish encodes doc once and hands the same frame to every listener.
// Listeners that cannot accept it are evicted. Returns how many listeners
// received the frame and how many were dropped.
func (h *Hub) Publish(doc board.Document) (delivered, evicted int) {
	frame, err := json.Marshal(doc)
	if err != nil {
		h.log.Error("encode document for broadcast", zap.Error(err))
		return 0, 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.listeners {
		select {
		case ch <- frame:
			delivered++
		default:
			// Listener is slow/full. Drop it.
			delete(h.listeners, id)
			close(ch)
			evicted++
			h.log.Warn("evicted slow listener", zap.String("listener", id.String()))
		}
	}
	metrics.BroadcastsTotal.Inc()
	if evicted > 0 {
		metrics.ListenersEvicted.Add(float64(evicted))
		metrics.ListenersActive.Set(float64(len(h.listeners)))
	}
	return delivered, evicted
}

// Count reports the number of subscribed listeners.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// CloseAll closes every listener channel and rejects future subscriptions.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.listeners {
		delete(h.listeners, id)
		close(ch)
	}
	metrics.ListenersActive.Set(0)
}
