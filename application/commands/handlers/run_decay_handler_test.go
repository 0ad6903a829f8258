package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/handlers"
	"mnemosyne/application/services/signal"
	"mnemosyne/domain/config"
	"mnemosyne/domain/events"
	"mnemosyne/infrastructure/persistence/embedded"
)

type recordingEventBus struct {
	published []events.DomainEvent
}

func (b *recordingEventBus) Publish(_ context.Context, event events.DomainEvent) error {
	b.published = append(b.published, event)
	return nil
}

func TestRunDecayHandler_DecaysEngramsAndPublishesEvent(t *testing.T) {
	// Arrange
	store := embedded.New()
	eg := newTestEngram(t, store, "a")
	eg.Reinforce(0.4, time.Now())
	require.NoError(t, store.SaveEngram(context.Background(), eg))

	cfg := config.DefaultDomainConfig()
	sig := signal.NewService(store, cfg, zap.NewNop())
	bus := &recordingEventBus{}
	h := handlers.NewRunDecayHandler(sig, bus, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.RunDecayCommand{OwnerID: "o"})

	// Assert
	require.NoError(t, err)
	require.Len(t, bus.published, 1)
	evt, ok := bus.published[0].(events.DecayCycleCompleted)
	require.True(t, ok)
	assert.Equal(t, "o", evt.OwnerID)
}

func TestRunDecayHandler_SucceedsWithNilEventBus(t *testing.T) {
	// Arrange
	store := embedded.New()
	cfg := config.DefaultDomainConfig()
	sig := signal.NewService(store, cfg, zap.NewNop())
	h := handlers.NewRunDecayHandler(sig, nil, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.RunDecayCommand{OwnerID: "o"})

	// Assert
	assert.NoError(t, err)
}
