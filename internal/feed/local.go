package feed

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// LocalBroker delivers events within a single process. Events for a subscriber
// whose buffer is full are dropped.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewLocal() *LocalBroker {
	return &LocalBroker{subs: make(map[chan Event]struct{})}
}

func (b *LocalBroker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}

	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

func (b *LocalBroker) subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
