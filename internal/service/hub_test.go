package service

import (
	"sync"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSessionHub_SubscribeAndUnsubscribe(t *testing.T) {
	hub := NewSessionHub()
	var a, b int
	unsubA := hub.Subscribe(func(SessionEvent) { a++ })
	hub.Subscribe(func(SessionEvent) { b++ })

	hub.Publish(SessionEvent{Action: domain.ActionStart})
	unsubA()
	unsubA()
	hub.Publish(SessionEvent{Action: domain.ActionPause})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSessionHub_UnsubscribeFromCallback(t *testing.T) {
	hub := NewSessionHub()
	calls := 0
	var unsub func()
	unsub = hub.Subscribe(func(SessionEvent) {
		calls++
		unsub()
	})

	hub.Publish(SessionEvent{})
	hub.Publish(SessionEvent{})
	assert.Equal(t, 1, calls)
}

func TestSessionHub_NilIsNoop(t *testing.T) {
	var hub *SessionHub
	assert.NotPanics(t, func() { hub.Publish(SessionEvent{}) })
}

func TestSessionHub_ConcurrentPublish(t *testing.T) {
	hub := NewSessionHub()
	var mu sync.Mutex
	seen := 0
	hub.Subscribe(func(SessionEvent) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(SessionEvent{Action: domain.ActionResume})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, seen)
}
