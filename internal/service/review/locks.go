package review

import "sync"

// deckLocks hands out one mutex per deck name.
type deckLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeckLocks() *deckLocks {
	return &deckLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the deck's mutex and returns the matching unlock.
func (l *deckLocks) lock(deck string) func() {
	l.mu.Lock()
	m, ok := l.locks[deck]
	if !ok {
		m = &sync.Mutex{}
		l.locks[deck] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
