package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/models"
)

type chanSource struct {
	events chan Event
	fail   chan error
}

func newChanSource() *chanSource {
	return &chanSource{events: make(chan Event, 16), fail: make(chan error, 1)}
}

func (s *chanSource) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	case err := <-s.fail:
		return Event{}, err
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (s *chanSource) Close(context.Context) error { return nil }

type captureSink struct {
	mu   sync.Mutex
	seen []*models.Notification
}

func (c *captureSink) Deliver(n *models.Notification) {
	c.mu.Lock()
	c.seen = append(c.seen, n)
	c.mu.Unlock()
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func waitForCount(t *testing.T, sink *captureSink, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sink.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("sink saw %d deliveries, want %d", sink.count(), want)
}

func insertEvent(id string, userID int64) Event {
	return Event{
		ID:           id,
		Operation:    OperationInsert,
		Notification: &models.Notification{UserID: userID, Type: models.NotificationCheckIn},
	}
}

func TestConsumerDeliversCreateEventsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newChanSource()
	sink := &captureSink{}
	c := NewConsumer(func(context.Context) (Source, error) { return src, nil },
		zap.NewNop().Sugar(), []Sink{sink})
	c.Start(ctx)
	c.Start(ctx) // second Start must not open a second subscription

	src.events <- insertEvent("a", 7)
	src.events <- insertEvent("a", 7) // redelivered by the feed
	src.events <- insertEvent("b", 8)

	waitForCount(t, sink, 2)
	time.Sleep(50 * time.Millisecond)
	if sink.count() != 2 {
		t.Fatalf("duplicate event was broadcast, %d deliveries", sink.count())
	}
}

func TestConsumerIgnoresNonInsertOperations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newChanSource()
	sink := &captureSink{}
	c := NewConsumer(func(context.Context) (Source, error) { return src, nil },
		zap.NewNop().Sugar(), []Sink{sink})
	c.Start(ctx)

	src.events <- Event{ID: "a", Operation: "update", Notification: &models.Notification{UserID: 7}}
	src.events <- Event{ID: "b", Operation: OperationInsert} // no document attached
	src.events <- insertEvent("c", 7)

	waitForCount(t, sink, 1)
	if sink.seen[0].UserID != 7 {
		t.Fatalf("delivered wrong notification: %+v", sink.seen[0])
	}
}

func TestConsumerRedeliversAfterDedupReset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newChanSource()
	sink := &captureSink{}
	c := NewConsumer(func(context.Context) (Source, error) { return src, nil },
		zap.NewNop().Sugar(), []Sink{sink}, WithDedupLimit(3))
	c.Start(ctx)

	src.events <- insertEvent("a", 7)
	src.events <- insertEvent("b", 7)
	src.events <- insertEvent("c", 7)
	src.events <- insertEvent("d", 7) // pushes the set past its limit
	src.events <- insertEvent("a", 7) // same event again, after the reset

	waitForCount(t, sink, 5)
}

func TestConsumerResubscribesAfterStreamError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := newChanSource()
	second := newChanSource()
	sink := &captureSink{}

	var mu sync.Mutex
	opened := 0
	open := func(context.Context) (Source, error) {
		mu.Lock()
		defer mu.Unlock()
		opened++
		if opened == 1 {
			return first, nil
		}
		return second, nil
	}

	c := NewConsumer(open, zap.NewNop().Sugar(), []Sink{sink})
	c.Start(ctx)

	first.events <- insertEvent("a", 7)
	waitForCount(t, sink, 1)

	first.fail <- errors.New("cursor killed")
	second.events <- insertEvent("b", 7)
	waitForCount(t, sink, 2)
}
