package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []*domain.PlatformEvent
	err    error
	closed bool
}

func (p *capturingPublisher) PublishEvent(_ context.Context, event *domain.PlatformEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func TestDispatcherPublishesStampedEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	dispatcher := NewDispatcher(publisher, 2, 16)

	userID := int64(7)
	subjectID := int64(3)
	dispatcher.Dispatch(domain.EventTypeVoteCast, &userID, &subjectID)
	dispatcher.Close()

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, domain.EventTypeVoteCast, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Minute)
	require.NotNil(t, event.UserID)
	assert.Equal(t, int64(7), *event.UserID)
	require.NotNil(t, event.SubjectID)
	assert.Equal(t, int64(3), *event.SubjectID)
	assert.True(t, publisher.closed)
}

func TestDispatcherSurvivesPublishFailure(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	dispatcher := NewDispatcher(publisher, 1, 4)

	dispatcher.Dispatch(domain.EventTypeUserRegistered, nil, nil)
	dispatcher.Dispatch(domain.EventTypeUserPromoted, nil, nil)
	dispatcher.Close()

	assert.Empty(t, publisher.events)
	assert.True(t, publisher.closed)
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher()
	err := publisher.PublishEvent(context.Background(), &domain.PlatformEvent{})
	assert.NoError(t, err)
	publisher.Close()
}
