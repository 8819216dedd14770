package services

import "sync"

// pairLocks serializes matching passes per session pair. Different pairs
// proceed concurrently; two passes on the same pair queue up.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: map[string]*sync.Mutex{}}
}

// Acquire blocks until the pair lock is held and returns the release func.
func (p *pairLocks) Acquire(key string) func() {
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
