// Package livequery keeps client mirrors in sync with the document
// store. A subscription stands against one collection and re-delivers
// the full current result set (never a diff) on attach and after every
// change to that collection, so the consumer always replaces its mirror
// wholesale with a consistent-at-a-point-in-time snapshot.
package livequery

import (
	"context"
	"sync"
	"time"
)

const fetchTimeout = 10 * time.Second

// FetchFunc produces the full current result set for a subscription's
// query. It is invoked once on attach and once per change event.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Subscription is a standing live query. Consume snapshots from
// Updates() and query failures from Errors(); call Cancel when the
// owning scope ends, or the subscription keeps consuming change events
// indefinitely.
type Subscription struct {
	collection string
	fetch      FetchFunc

	updates chan interface{}
	errs    chan error
	done    chan struct{}

	mu      sync.Mutex
	closed  bool
	once    sync.Once
	fetchMu sync.Mutex
	hub     *Hub
}

// Updates yields full result sets. Delivery is latest-wins: a pending
// snapshot the consumer has not read yet is replaced, never queued.
// The channel is closed when the subscription is cancelled.
func (s *Subscription) Updates() <-chan interface{} { return s.updates }

// Errors yields query failures. The hub does not retry a failed
// refresh; resubscribing is the consumer's decision.
func (s *Subscription) Errors() <-chan error { return s.errs }

// Done is closed when the subscription has been cancelled.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Cancel tears the subscription down. Further change events are
// ignored and Updates() is closed. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		select {
		case s.hub.unregister <- s:
		case <-s.hub.quit:
		}
	})
}

// push replaces any unread snapshot with the latest one.
func (s *Subscription) push(snapshot interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- snapshot:
	default:
		select {
		case <-s.updates:
		default:
		}
		s.updates <- snapshot
	}
}

func (s *Subscription) pushErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.errs <- err:
	default:
		select {
		case <-s.errs:
		default:
		}
		s.errs <- err
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
}

// refresh runs the query and delivers its result set. Fetches are
// serialized per subscription so snapshots arrive in query order.
func (s *Subscription) refresh() {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	snapshot, err := s.fetch(ctx)
	if err != nil {
		s.pushErr(err)
		return
	}
	s.push(snapshot)
}

// Hub fans collection change events out to the subscriptions standing
// against each collection.
type Hub struct {
	subs       map[string]map[*Subscription]bool
	register   chan *Subscription
	unregister chan *Subscription
	changes    chan string
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		subs:       make(map[string]map[*Subscription]bool),
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		changes:    make(chan string, 64),
		quit:       make(chan struct{}),
	}
}

// Subscribe attaches a live query to a collection. The initial snapshot
// is delivered asynchronously on the returned subscription.
func (h *Hub) Subscribe(collection string, fetch FetchFunc) *Subscription {
	s := &Subscription{
		collection: collection,
		fetch:      fetch,
		updates:    make(chan interface{}, 1),
		errs:       make(chan error, 1),
		done:       make(chan struct{}),
		hub:        h,
	}
	select {
	case h.register <- s:
	case <-h.quit:
		s.close()
	}
	return s
}

// Notify reports a change to a collection. Implements store.Notifier.
func (h *Hub) Notify(collection string) {
	select {
	case h.changes <- collection:
	case <-h.quit:
	}
}

func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			if h.subs[s.collection] == nil {
				h.subs[s.collection] = make(map[*Subscription]bool)
			}
			h.subs[s.collection][s] = true
			h.mu.Unlock()
			go s.refresh()

		case s := <-h.unregister:
			h.mu.Lock()
			if subs := h.subs[s.collection]; subs != nil {
				delete(subs, s)
			}
			h.mu.Unlock()
			s.close()

		case collection := <-h.changes:
			h.mu.Lock()
			for s := range h.subs[collection] {
				go s.refresh()
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, subs := range h.subs {
				for s := range subs {
					s.close()
				}
			}
			h.subs = make(map[string]map[*Subscription]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}
