// Package redisbus republishes job lifecycle events on a Redis pub/sub
// channel as JSON, for dashboards and other processes.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"logistics/internal/core/application/events"
	"logistics/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// Publisher is the part of *redis.Client the forwarder uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Message is the JSON payload of one event.
type Message struct {
	Kind       string    `json:"kind"`
	JobID      int64     `json:"job_id"`
	OrderID    int64     `json:"order_id,omitempty"`
	Resource   string    `json:"resource"`
	Quantity   int       `json:"quantity"`
	Delivered  int       `json:"delivered,omitempty"`
	Status     string    `json:"status"`
	Supplier   string    `json:"supplier"`
	Target     string    `json:"target"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MessageOf converts a bus event.
func MessageOf(e events.Event) Message {
	m := Message{Kind: e.Kind.String(), Delivered: e.Delivered, OccurredAt: e.OccurredAt.UTC()}
	if j := e.Job; j != nil {
		m.JobID = int64(j.ID())
		m.OrderID = int64(j.OrderID())
		m.Resource = j.Resource().String()
		m.Quantity = j.Quantity()
		m.Status = j.Status().String()
		m.Supplier = j.Supplier().String()
		m.Target = j.Target().String()
	}
	return m
}

// Forwarder subscribes to the bus and publishes from its own goroutine, so
// the simulation tick never waits on the network. When the buffer is full
// new events are dropped and counted.
type Forwarder struct {
	publisher Publisher
	channel   string
	timeout   time.Duration
	logger    *slog.Logger

	queue   chan Message
	sub     events.Subscription
	mu      sync.Mutex
	dropped int
	done    chan struct{}
	stop    sync.Once
}

// NewForwarder subscribes to bus immediately. Call Run to start publishing
// and Close to unsubscribe.
func NewForwarder(bus *events.Bus, publisher Publisher, channel string, buffer int, logger *slog.Logger) (*Forwarder, error) {
	if bus == nil {
		return nil, errs.NewValueIsRequiredError("bus")
	}
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if channel == "" {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if buffer <= 0 {
		buffer = 256
	}

	f := &Forwarder{
		publisher: publisher,
		channel:   channel,
		timeout:   2 * time.Second,
		logger:    logger.With("component", "redis_forwarder", "channel", channel),
		queue:     make(chan Message, buffer),
		done:      make(chan struct{}),
	}
	f.sub = bus.Subscribe(nil, f.enqueue)
	return f, nil
}

func (f *Forwarder) enqueue(e events.Event) {
	select {
	case f.queue <- MessageOf(e):
	default:
		f.mu.Lock()
		f.dropped++
		f.mu.Unlock()
	}
}

// Dropped reports how many events did not fit in the buffer.
func (f *Forwarder) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// Run publishes queued messages until ctx is done or Close is called. On
// shutdown the remaining buffer is flushed.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case m := <-f.queue:
			f.publish(ctx, m)
		case <-ctx.Done():
			f.flush(context.WithoutCancel(ctx))
			return
		case <-f.done:
			f.flush(ctx)
			return
		}
	}
}

func (f *Forwarder) flush(ctx context.Context) {
	for {
		select {
		case m := <-f.queue:
			f.publish(ctx, m)
		default:
			return
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to encode event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.publisher.Publish(ctx, f.channel, payload).Err(); err != nil {
		f.logger.WarnContext(ctx, "Failed to publish event",
			"kind", m.Kind, "job_id", m.JobID, "error", fmt.Errorf("redis publish: %w", err))
	}
}

// Close unsubscribes from the bus and stops Run.
func (f *Forwarder) Close() {
	f.stop.Do(func() {
		f.sub.Cancel()
		close(f.done)
	})
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
