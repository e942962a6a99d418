// Package stream consumes the notification collection's change feed and fans
// newly created records out to delivery sinks (the websocket hub, the push
// forwarder). Delivery is at-least-once: the de-duplication set is cleared
// wholesale when it exceeds its size limit.
package stream

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/metrics"
	"github.com/dealerdesk/crm-backend/internal/models"
)

const OperationInsert = "insert"

// Event is one change-feed entry.
type Event struct {
	ID           string
	Operation    string
	Notification *models.Notification
}

// Source yields change events. Next blocks until an event arrives, the
// context is cancelled, or the feed fails.
type Source interface {
	Next(ctx context.Context) (Event, error)
	Close(ctx context.Context) error
}

// OpenFunc opens a fresh subscription to the change feed.
type OpenFunc func(ctx context.Context) (Source, error)

// Sink receives notifications extracted from create events.
type Sink interface {
	Deliver(n *models.Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n *models.Notification)

func (f SinkFunc) Deliver(n *models.Notification) { f(n) }

type Consumer struct {
	open  OpenFunc
	sinks []Sink
	dedup *dedupSet
	log   *zap.SugaredLogger
	once  sync.Once
}

type ConsumerOption func(*Consumer)

func WithDedupLimit(limit int) ConsumerOption {
	return func(c *Consumer) { c.dedup = newDedupSet(limit) }
}

func NewConsumer(open OpenFunc, log *zap.SugaredLogger, sinks []Sink, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		open:  open,
		sinks: sinks,
		dedup: newDedupSet(defaultDedupLimit),
		log:   log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start opens the subscription and consumes it until ctx is cancelled.
// Guarded so only one subscription ever exists per consumer; later calls are
// no-ops.
func (c *Consumer) Start(ctx context.Context) {
	c.once.Do(func() {
		go c.run(ctx)
	})
}

// run keeps a subscription alive, reopening with exponential backoff after a
// mid-stream failure so a transient feed error does not permanently stop
// realtime delivery.
func (c *Consumer) run(ctx context.Context) {
	for ctx.Err() == nil {
		src, err := c.openWithBackoff(ctx)
		if err != nil {
			return // context cancelled
		}
		if err := c.consume(ctx, src); err != nil {
			c.log.Warnw("change feed interrupted, resubscribing", "error", err)
		}
	}
}

func (c *Consumer) openWithBackoff(ctx context.Context) (Source, error) {
	var src Source
	operation := func() error {
		s, err := c.open(ctx)
		if err != nil {
			c.log.Warnw("change feed subscription failed", "error", err)
			return err
		}
		src = s
		return nil
	}
	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return src, nil
}

func (c *Consumer) consume(ctx context.Context, src Source) error {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		_ = src.Close(closeCtx)
	}()
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			return err
		}
		c.handle(ev)
	}
}

func (c *Consumer) handle(ev Event) {
	token := ev.ID + ":" + ev.Operation
	if c.dedup.observe(token) {
		metrics.StreamEvents.WithLabelValues("duplicate").Inc()
		return
	}
	if ev.Operation != OperationInsert || ev.Notification == nil {
		metrics.StreamEvents.WithLabelValues("ignored").Inc()
		return
	}
	metrics.StreamEvents.WithLabelValues("delivered").Inc()
	for _, s := range c.sinks {
		s.Deliver(ev.Notification)
	}
}
