package redisbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"logistics/internal/adapters/out/redisbus"
	"logistics/internal/core/application/events"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []redisbus.Message
	channels []string
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}

	var m redisbus.Message
	if err := json.Unmarshal(message.([]byte), &m); err != nil {
		cmd.SetErr(err)
		return cmd
	}
	p.messages = append(p.messages, m)
	p.channels = append(p.channels, channel)
	cmd.SetVal(1)
	return cmd
}

func (p *fakePublisher) received() []redisbus.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]redisbus.Message(nil), p.messages...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func breadJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(7, job.Draft{
		OrderID:  3,
		Resource: "bread",
		Quantity: 10,
		Supplier: kernel.BuildingRef(kernel.NewUUID()),
		Target:   kernel.CityRef(kernel.NewUUID()),
	})
	require.NoError(t, err)
	return j
}

func TestNewForwarder(t *testing.T) {
	bus := events.NewBus(discardLogger())

	_, err := redisbus.NewForwarder(nil, &fakePublisher{}, "jobs", 1, discardLogger())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = redisbus.NewForwarder(bus, nil, "jobs", 1, discardLogger())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = redisbus.NewForwarder(bus, &fakePublisher{}, "", 1, discardLogger())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestForwarder(t *testing.T) {
	t.Run("should publish bus events in order", func(t *testing.T) {
		bus := events.NewBus(discardLogger())
		pub := &fakePublisher{}
		f, err := redisbus.NewForwarder(bus, pub, "logistics.jobs", 16, discardLogger())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			f.Run(ctx)
			close(done)
		}()

		j := breadJob(t)
		bus.Publish(events.KindPlanned, j)
		bus.PublishEvent(events.Event{Kind: events.KindCompleted, Job: j, Delivered: 10})

		require.Eventually(t, func() bool { return len(pub.received()) == 2 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done

		got := pub.received()
		assert.Equal(t, "job_planned", got[0].Kind)
		assert.Equal(t, int64(7), got[0].JobID)
		assert.Equal(t, int64(3), got[0].OrderID)
		assert.Equal(t, "bread", got[0].Resource)
		assert.Equal(t, "Planned", got[0].Status)
		assert.Equal(t, "job_completed", got[1].Kind)
		assert.Equal(t, 10, got[1].Delivered)
		assert.False(t, got[1].OccurredAt.IsZero())
		assert.Equal(t, []string{"logistics.jobs", "logistics.jobs"}, pub.channels)
	})

	t.Run("should flush the buffer and unsubscribe on close", func(t *testing.T) {
		bus := events.NewBus(discardLogger())
		pub := &fakePublisher{}
		f, err := redisbus.NewForwarder(bus, pub, "jobs", 16, discardLogger())
		require.NoError(t, err)

		j := breadJob(t)
		bus.Publish(events.KindPlanned, j)
		bus.Publish(events.KindStarted, j)
		f.Close()
		f.Close()
		bus.Publish(events.KindFailed, j)

		f.Run(t.Context())

		got := pub.received()
		require.Len(t, got, 2)
		assert.Equal(t, "job_started", got[1].Kind)
	})

	t.Run("should drop events when the buffer is full", func(t *testing.T) {
		bus := events.NewBus(discardLogger())
		f, err := redisbus.NewForwarder(bus, &fakePublisher{}, "jobs", 1, discardLogger())
		require.NoError(t, err)
		defer f.Close()

		j := breadJob(t)
		bus.Publish(events.KindPlanned, j)
		bus.Publish(events.KindStarted, j)
		bus.Publish(events.KindCompleted, j)

		assert.Equal(t, 2, f.Dropped())
	})

	t.Run("should keep going when redis fails", func(t *testing.T) {
		bus := events.NewBus(discardLogger())
		pub := &fakePublisher{err: errors.New("connection refused")}
		f, err := redisbus.NewForwarder(bus, pub, "jobs", 4, discardLogger())
		require.NoError(t, err)

		bus.Publish(events.KindPlanned, breadJob(t))
		f.Close()

		assert.NotPanics(t, func() { f.Run(t.Context()) })
		assert.Empty(t, pub.received())
	})
}

func TestMessageOf(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))
	m := redisbus.MessageOf(events.Event{Kind: events.KindFailed, OccurredAt: at})

	assert.Equal(t, "job_failed", m.Kind)
	assert.Zero(t, m.JobID)
	assert.Equal(t, time.UTC, m.OccurredAt.Location())
}
