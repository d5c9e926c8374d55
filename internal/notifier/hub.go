// Package notifier fans out content-free change signals to live subscribers.
// A signal carries no payload: any delivery means "re-fetch now", so dropped
// duplicates are harmless and nothing is persisted or replayed.
package notifier

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is a concurrency-safe registry of subscriber channels. Broadcast never
// blocks on a subscriber: each channel has a buffer of one pending signal,
// and a send that finds the buffer full is skipped because an identical
// signal is already waiting.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	logger *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan struct{}]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new subscriber and returns its signal channel. The
// caller must Unsubscribe when done; the channel is closed then.
func (h *Hub) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing a
// channel that is already gone is a no-op.
func (h *Hub) Unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; !ok {
		return
	}
	delete(h.subs, ch)
	close(ch)
}

// Broadcast delivers one change signal to every subscriber. Delivery is
// best-effort and never returns an error to the mutation path.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
			// A signal is already pending for this subscriber.
		}
	}
	if h.logger != nil {
		h.logger.Debug("change signal broadcast", zap.Int("subscribers", len(h.subs)))
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
