package event

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityHigh is for handlers that other handlers depend on.
	PriorityHigh Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 100

	// PriorityLow is for handlers that run last, such as redraw.
	PriorityLow Priority = 200
)

// Subscription represents an active handler registration.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() uint64

	// IsActive returns true until the subscription is cancelled.
	IsActive() bool

	// Cancel permanently removes the handler from its bus.
	// Calling Cancel more than once is a no-op.
	Cancel()
}

// Bus delivers events synchronously to subscribed handlers.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler at PriorityNormal.
func (b *Bus) Subscribe(handler Handler) Subscription {
	return b.SubscribePriority(handler, PriorityNormal)
}

// SubscribePriority registers a handler with the given priority.
// Handlers with equal priority run in subscription order.
func (b *Bus) SubscribePriority(handler Handler, priority Priority) Subscription {
	sub := &subscription{
		id:       b.nextID.Add(1),
		bus:      b,
		handler:  handler,
		priority: priority,
	}
	sub.active.Store(true)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		return b.subs[i].priority < b.subs[j].priority
	})
	return sub
}

// Publish delivers ev to every active handler and returns when all of
// them have run. A handler cancelled by an earlier handler during the
// same Publish is skipped.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]*subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.IsActive() {
			sub.handler(ev)
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

type subscription struct {
	id       uint64
	bus      *Bus
	handler  Handler
	priority Priority
	active   atomic.Bool
}

func (s *subscription) ID() uint64 {
	return s.id
}

func (s *subscription) IsActive() bool {
	return s.active.Load()
}

func (s *subscription) Cancel() {
	if s.active.CompareAndSwap(true, false) {
		s.bus.remove(s)
	}
}
