package service

import (
	"sync"

	"github.com/alexanderramin/tempo/internal/domain"
)

// SessionEvent describes a committed session write.
type SessionEvent struct {
	Action  domain.SessionAction
	Session domain.Session
}

// SessionHub fans committed session writes out to subscribers such as the
// live clock. It holds no session state itself; subscribers reload from the
// store.
type SessionHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(SessionEvent)
}

func NewSessionHub() *SessionHub {
	return &SessionHub{subs: make(map[int]func(SessionEvent))}
}

// Subscribe registers fn and returns a func that removes it.
func (h *SessionHub) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish calls every subscriber synchronously, outside the hub lock so
// subscribers may unsubscribe from within the callback.
func (h *SessionHub) Publish(e SessionEvent) {
	if h == nil {
		return
	}
	h.mu.RLock()
	fns := make([]func(SessionEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
