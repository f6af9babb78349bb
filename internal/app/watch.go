package app

import (
	"sync"

	"transparency-service/internal/domain"
)

// watchHub fans recomputed reports out to subscribers, keyed by product.
type watchHub struct {
	mu       sync.Mutex
	watchers map[string]map[chan domain.Report]struct{}
}

func newWatchHub() *watchHub {
	return &watchHub{watchers: make(map[string]map[chan domain.Report]struct{})}
}

// subscribe registers a watcher for a product's report updates. The caller
// must invoke the returned cancel function to avoid leaks.
func (h *watchHub) subscribe(productID string) (<-chan domain.Report, func()) {
	ch := make(chan domain.Report, 8)

	h.mu.Lock()
	set, ok := h.watchers[productID]
	if !ok {
		set = make(map[chan domain.Report]struct{})
		h.watchers[productID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.watchers[productID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.watchers, productID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// broadcast delivers a fresh report to every watcher of the product. Slow
// watchers lose the stale update instead of blocking the broadcast.
func (h *watchHub) broadcast(productID string, report domain.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.watchers[productID] {
		select {
		case ch <- report:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- report
		}
	}
}
