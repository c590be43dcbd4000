package events

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"
	"weak"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/services"
)

// Disposable owners are pruned once Disposed reports true, even while they
// are still reachable.
type Disposable interface {
	Disposed() bool
}

// Subscription is returned by every subscribe call. Cancel is idempotent and
// safe to call from inside a handler.
type Subscription struct {
	bus  *Bus
	id   uint64
	once *sync.Once
}

// Cancel removes the subscription.
func (s Subscription) Cancel() {
	if s.bus == nil || s.once == nil {
		return
	}
	s.once.Do(func() { s.bus.remove(s.id) })
}

type subscriber struct {
	id     uint64
	filter Filter
	// deliver returns false when the subscriber is gone and must be pruned.
	deliver func(Event) bool
}

// Bus is the only way outside code observes job lifecycle changes.
//
// It offers a generic stream (Subscribe) and four typed streams
// (OnJobPlanned, OnJobStarted, OnJobCompleted, OnJobFailed). Handlers run
// synchronously on the publishing goroutine, in subscription order, outside
// the bus lock. A panicking handler is logged and skipped.
//
// Subscribers should Cancel on teardown. SubscribeWeak exists for owners
// whose teardown is not guaranteed: the bus holds them through a weak
// pointer and prunes them on the next publish after they are collected.
type Bus struct {
	mu     sync.Mutex
	subs   []*subscriber
	nextID uint64
	now    func() time.Time
	logger *slog.Logger

	ledgerCancel  func()
	plannerCancel func()
}

// NewBus returns a bus with no subscribers.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		now:    time.Now,
		logger: logger.With("component", "events"),
	}
}

// Publish delivers an event for j to every matching subscriber.
func (b *Bus) Publish(kind Kind, j *job.Job) {
	b.PublishEvent(Event{Kind: kind, Job: j})
}

// PublishEvent delivers e, stamping OccurredAt when unset.
func (b *Bus) PublishEvent(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = b.now()
	}

	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.filter.Match(e.Kind) {
			targets = append(targets, s)
		}
	}
	b.mu.Unlock()

	var dead []uint64
	for _, s := range targets {
		if !b.safeDeliver(s, e) {
			dead = append(dead, s.id)
		}
	}

	if len(dead) > 0 {
		b.mu.Lock()
		b.subs = slices.DeleteFunc(b.subs, func(s *subscriber) bool {
			return slices.Contains(dead, s.id)
		})
		b.mu.Unlock()
		b.logger.Debug("pruned dead subscribers", "count", len(dead))
	}
}

// Subscribe registers handler for the kinds in filter.
func (b *Bus) Subscribe(filter Filter, handler func(Event)) Subscription {
	if handler == nil {
		return Subscription{}
	}
	return b.add(filter, func(e Event) bool {
		handler(e)
		return true
	})
}

// SubscribeWeak registers handler without keeping owner reachable. The
// handler receives the owner for the duration of the call; it must not
// capture owner itself, or the owner never becomes unreachable.
func SubscribeWeak[T any](b *Bus, owner *T, filter Filter, handler func(*T, Event)) Subscription {
	if owner == nil || handler == nil {
		return Subscription{}
	}
	ref := weak.Make(owner)
	return b.add(filter, func(e Event) bool {
		o := ref.Value()
		if o == nil {
			return false
		}
		if d, ok := any(o).(Disposable); ok && d.Disposed() {
			return false
		}
		handler(o, e)
		return true
	})
}

// OnJobPlanned subscribes to planned jobs.
func (b *Bus) OnJobPlanned(handler func(*job.Job)) Subscription {
	return b.typed(KindPlanned, handler)
}

// OnJobStarted subscribes to jobs leaving with a carrier.
func (b *Bus) OnJobStarted(handler func(*job.Job)) Subscription {
	return b.typed(KindStarted, handler)
}

// OnJobCompleted subscribes to delivered jobs.
func (b *Bus) OnJobCompleted(handler func(*job.Job)) Subscription {
	return b.typed(KindCompleted, handler)
}

// OnJobFailed subscribes to failed jobs.
func (b *Bus) OnJobFailed(handler func(*job.Job)) Subscription {
	return b.typed(KindFailed, handler)
}

// Len returns the number of registered subscribers, including dead weak
// ones not pruned yet.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// ConnectJobLedger translates ledger notifications into bus events. A second
// call replaces the previous wiring.
func (b *Bus) ConnectJobLedger(l *job.Ledger) {
	b.DisconnectJobLedger()
	if l == nil {
		return
	}
	cancel := l.Subscribe(func(n job.Notification) {
		kind, ok := kindOf(n.Kind)
		if !ok {
			return
		}
		b.PublishEvent(Event{Kind: kind, Job: n.Job, Delivered: n.Delivered})
	})

	b.mu.Lock()
	b.ledgerCancel = cancel
	b.mu.Unlock()
}

// DisconnectJobLedger detaches from the ledger. It is a no-op when not connected.
func (b *Bus) DisconnectJobLedger() {
	b.mu.Lock()
	cancel := b.ledgerCancel
	b.ledgerCancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// ConnectPlanner publishes KindPlanned for every job p commits. A second
// call replaces the previous wiring.
func (b *Bus) ConnectPlanner(p *services.Planner) {
	b.DisconnectPlanner()
	if p == nil {
		return
	}
	cancel := p.OnPlanned(func(j *job.Job) {
		b.Publish(KindPlanned, j)
	})

	b.mu.Lock()
	b.plannerCancel = cancel
	b.mu.Unlock()
}

// DisconnectPlanner detaches from the planner. It is a no-op when not connected.
func (b *Bus) DisconnectPlanner() {
	b.mu.Lock()
	cancel := b.plannerCancel
	b.plannerCancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (b *Bus) typed(kind Kind, handler func(*job.Job)) Subscription {
	if handler == nil {
		return Subscription{}
	}
	return b.Subscribe(Filter{kind}, func(e Event) { handler(e.Job) })
}

func (b *Bus) add(filter Filter, deliver func(Event) bool) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, &subscriber{
		id:      id,
		filter:  slices.Clone(filter),
		deliver: deliver,
	})
	return Subscription{bus: b, id: id, once: &sync.Once{}}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = slices.DeleteFunc(b.subs, func(s *subscriber) bool {
		return s.id == id
	})
}

func (b *Bus) safeDeliver(s *subscriber, e Event) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			alive = true
			attrs := []any{
				"kind", e.Kind.String(),
				"subscriber", s.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			}
			if e.Job != nil {
				attrs = append(attrs, "job_id", int64(e.Job.ID()))
			}
			b.logger.Error("event handler panicked", attrs...)
		}
	}()
	return s.deliver(e)
}
