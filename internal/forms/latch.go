package forms

import (
	"sync"

	"donatelife/pkg/types"
)

// Latch admits one in-flight submission per key.
type Latch struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLatch() *Latch {
	return &Latch{held: make(map[string]struct{})}
}

// TryAcquire returns types.ErrSubmitInFlight while key is held.
func (l *Latch) TryAcquire(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return types.ErrSubmitInFlight
	}
	l.held[key] = struct{}{}
	return nil
}

func (l *Latch) Release(key string) {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
}
