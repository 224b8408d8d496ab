// Package watch fans out collection-change notifications. There is no
// incremental update contract: a notification only tells observers which
// collection changed, and they re-read it in full.
package watch

import (
	"sync"

	"github.com/najihkids/backoffice/internal/storage"
)

// Broadcaster delivers change notifications to any number of subscribers.
// The zero value is not usable; call NewBroadcaster.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan storage.Collection]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan storage.Collection]struct{})}
}

// Subscribe registers a new observer. The returned cancel func must be
// called when the observer goes away; it closes the channel.
func (b *Broadcaster) Subscribe() (<-chan storage.Collection, func()) {
	ch := make(chan storage.Collection, 8)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish notifies every subscriber that the collection changed. Delivery
// is best-effort: a subscriber that has fallen behind drops the
// notification rather than blocking the writer, which is safe because the
// observer re-reads the whole collection anyway.
func (b *Broadcaster) Publish(c storage.Collection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
