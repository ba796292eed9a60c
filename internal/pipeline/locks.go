package pipeline

import "sync"

// runLocks guards against concurrent generation runs for the same
// application id. A second request while one is in flight is rejected
// outright rather than interleaving writes.
type runLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunLocks() *runLocks {
	return &runLocks{active: make(map[string]struct{})}
}

func (l *runLocks) acquire(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.active[id]; busy {
		return false
	}
	l.active[id] = struct{}{}
	return true
}

func (l *runLocks) release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, id)
}
