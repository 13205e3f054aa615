// Package events multiplexes named event channels to listeners.
package events

import (
	"sync"
)

// Listener receives the payload of one emission
type Listener func(payload string)

// Sink is the outward side of the bridge: the native components only emit
type Sink interface {
	Emit(event, payload string)
}

// Source is the client side: listeners subscribe to named channels
type Source interface {
	AddListener(event string, listener Listener) *Subscription
	RemoveAllListeners(event string)
}

// Bus is both sides
type Bus interface {
	Sink
	Source
}

// Subscription identifies one listener on one channel
type Subscription struct {
	emitter *Emitter
	event   string
	id      uint64
}

// Remove detaches the listener. Removing twice is harmless.
func (s *Subscription) Remove() {
	if s == nil || s.emitter == nil {
		return
	}
	s.emitter.remove(s.event, s.id)
}

type entry struct {
	id       uint64
	listener Listener
}

// Emitter is an in-process Bus. Emit is safe from any goroutine and calls
// listeners synchronously, in registration order.
type Emitter struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string][]entry
	observers []Observer
}

// Observer sees every emission regardless of channel
type Observer func(event, payload string)

// NewEmitter creates an empty emitter
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]entry)}
}

func (e *Emitter) AddListener(event string, listener Listener) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	e.listeners[event] = append(e.listeners[event], entry{id: e.nextID, listener: listener})
	return &Subscription{emitter: e, event: event, id: e.nextID}
}

// Observe registers a tap on all channels, used by the journal and the
// event stream. Observers cannot be removed.
func (e *Emitter) Observe(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

func (e *Emitter) RemoveAllListeners(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, event)
}

// ListenerCount returns the number of listeners on a channel
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

func (e *Emitter) Emit(event, payload string) {
	e.mu.RLock()
	entries := make([]entry, len(e.listeners[event]))
	copy(entries, e.listeners[event])
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	for _, o := range observers {
		o(event, payload)
	}
	for _, en := range entries {
		en.listener(payload)
	}
}

func (e *Emitter) remove(event string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.listeners[event]
	for i, en := range list {
		if en.id == id {
			e.listeners[event] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
}
