package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/domain/events"
	"mnemosyne/infrastructure/events/inmemory"
)

func TestBus_PublishInvokesEverySubscriberInOrder(t *testing.T) {
	// Arrange
	bus := inmemory.New(zap.NewNop())
	var order []string
	bus.Subscribe(func(_ context.Context, e events.DomainEvent) { order = append(order, "first:"+e.GetEventType()) })
	bus.Subscribe(func(_ context.Context, e events.DomainEvent) { order = append(order, "second:"+e.GetEventType()) })

	// Act
	err := bus.Publish(context.Background(), events.NewDecayCycleCompleted("owner-1", 3, time.Now()))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"first:decay.cycle_completed", "second:decay.cycle_completed"}, order)
}

func TestBus_PublishWithNoSubscribersSucceeds(t *testing.T) {
	// Arrange
	bus := inmemory.New(zap.NewNop())

	// Act
	err := bus.Publish(context.Background(), events.NewDecayCycleCompleted("owner-1", 0, time.Now()))

	// Assert
	assert.NoError(t, err)
}

func TestBus_SubscribeAfterPublishOnlySeesFutureEvents(t *testing.T) {
	// Arrange
	bus := inmemory.New(zap.NewNop())
	received := 0

	// Act
	require.NoError(t, bus.Publish(context.Background(), events.NewDecayCycleCompleted("owner-1", 1, time.Now())))
	bus.Subscribe(func(_ context.Context, _ events.DomainEvent) { received++ })
	require.NoError(t, bus.Publish(context.Background(), events.NewDecayCycleCompleted("owner-1", 1, time.Now())))

	// Assert
	assert.Equal(t, 1, received)
}
