package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/handlers"
	"mnemosyne/application/services/signal"
	"mnemosyne/domain/config"
	"mnemosyne/infrastructure/persistence/embedded"
	pkgerrors "mnemosyne/pkg/errors"
)

func TestReinforceEngramHandler_AppliesExplicitBoost(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngram(t, store, "a")
	cfg := config.DefaultDomainConfig()
	sig := signal.NewService(store, cfg, zap.NewNop())
	h := handlers.NewReinforceEngramHandler(store, sig, cfg, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.ReinforceEngramCommand{OwnerID: "o", EngramID: e.ID(), Boost: 0.2})

	// Assert
	require.NoError(t, err)
	got, err := store.GetEngram(context.Background(), "o", e.ID())
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got.Signal(), 1e-9)
}

func TestReinforceEngramHandler_UsesDefaultBoostWhenUnset(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngram(t, store, "a")
	cfg := config.DefaultDomainConfig()
	sig := signal.NewService(store, cfg, zap.NewNop())
	h := handlers.NewReinforceEngramHandler(store, sig, cfg, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.ReinforceEngramCommand{OwnerID: "o", EngramID: e.ID()})

	// Assert
	require.NoError(t, err)
	got, err := store.GetEngram(context.Background(), "o", e.ID())
	require.NoError(t, err)
	assert.InDelta(t, 0.5+cfg.EngramReinforceBoost, got.Signal(), 1e-9)
}

func TestReinforceEngramHandler_ReturnsNotFoundForMissingEngram(t *testing.T) {
	// Arrange
	store := embedded.New()
	cfg := config.DefaultDomainConfig()
	sig := signal.NewService(store, cfg, zap.NewNop())
	h := handlers.NewReinforceEngramHandler(store, sig, cfg, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.ReinforceEngramCommand{OwnerID: "o", EngramID: "missing"})

	// Assert
	assert.ErrorIs(t, err, pkgerrors.ErrEngramNotFound)
}
