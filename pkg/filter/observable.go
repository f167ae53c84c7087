package filter

import "sync"

type listener struct {
	id uint64
	fn func(revision uint64)
}

// listeners holds the change subscribers of a Session.
type listeners struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []listener
}

func (l *listeners) subscribe(fn func(uint64)) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.subs = append(l.subs, listener{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *listeners) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sub := range l.subs {
		if sub.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// notify calls every listener in subscription order. The slice is copied
// first so listeners may unsubscribe or mutate the session.
func (l *listeners) notify(revision uint64) {
	l.mu.RLock()
	subs := make([]listener, len(l.subs))
	copy(subs, l.subs)
	l.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(revision)
	}
}

// Subscribe registers fn to run after every mutating call with the new
// revision. It is how a rendering layer learns that it must re-render.
// The returned function removes the subscription; calling it twice is safe.
func (s *Session) Subscribe(fn func(revision uint64)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := s.listeners.subscribe(fn)
	var once sync.Once
	return func() {
		once.Do(func() { s.listeners.unsubscribe(id) })
	}
}
