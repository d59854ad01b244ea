package messaging

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/logger"
)

const (
	defaultPoolSize    = 10
	defaultQueueSize   = 1024
	publishTimeout     = 10 * time.Second
	dispatcherShutdown = 30 * time.Second
)

// Dispatcher publishes platform events on a bounded worker pool so request
// handlers never block on the broker. Failed publishes are logged and
// dropped; events are best-effort notifications, not the source of truth.
type Dispatcher struct {
	publisher Publisher
	pool      pond.Pool
}

// NewDispatcher creates a dispatcher on top of a publisher. Zero sizes select
// defaults.
func NewDispatcher(publisher Publisher, poolSize, queueSize int) *Dispatcher {
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Dispatcher{
		publisher: publisher,
		pool:      pond.NewPool(poolSize, pond.WithQueueSize(queueSize)),
	}
}

// Dispatch stamps the event with an id and timestamp and queues it for
// publishing
func (d *Dispatcher) Dispatch(eventType domain.PlatformEventType, userID, subjectID *int64) {
	event := &domain.PlatformEvent{
		EventID:   ulid.Make().String(),
		EventType: eventType,
		UserID:    userID,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
	}

	d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := d.publisher.PublishEvent(ctx, event); err != nil {
			logger.Error(err,
				zap.String("event_id", event.EventID),
				zap.String("event_type", string(event.EventType)),
			)
		}
	})
}

// Close drains queued events and closes the publisher
func (d *Dispatcher) Close() {
	done := make(chan struct{})
	go func() {
		d.pool.StopAndWait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(dispatcherShutdown):
		logger.Warn("event dispatcher shutdown timed out, dropping queued events")
	}

	d.publisher.Close()
}
