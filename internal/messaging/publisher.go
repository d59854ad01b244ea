package messaging

import (
	"context"

	"github.com/emberdao/soulforge/internal/domain"
)

// Publisher defines the interface for publishing platform events to the
// message broker
type Publisher interface {
	// PublishEvent publishes a platform event
	PublishEvent(ctx context.Context, event *domain.PlatformEvent) error
	// Close closes the connection
	Close()
}

// noopPublisher drops events. Used when no broker is configured.
type noopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(_ context.Context, _ *domain.PlatformEvent) error {
	return nil
}

func (noopPublisher) Close() {}
