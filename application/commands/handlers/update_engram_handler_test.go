package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/handlers"
	"mnemosyne/infrastructure/persistence/embedded"
	pkgerrors "mnemosyne/pkg/errors"
)

func TestUpdateEngramHandler_PatchesContentAndBumpsVersion(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngram(t, store, "original")
	h := handlers.NewUpdateEngramHandler(store, zap.NewNop())
	newContent := "updated content"

	// Act
	err := h.Handle(context.Background(), commands.UpdateEngramCommand{
		OwnerID: "o", EngramID: e.ID(), Content: &newContent,
	})

	// Assert
	require.NoError(t, err)
	got, err := store.GetEngram(context.Background(), "o", e.ID())
	require.NoError(t, err)
	assert.Equal(t, "updated content", got.Content())
	assert.Equal(t, 2, got.Version())
}

func TestUpdateEngramHandler_ReturnsNotFoundForMissingEngram(t *testing.T) {
	// Arrange
	store := embedded.New()
	h := handlers.NewUpdateEngramHandler(store, zap.NewNop())
	newContent := "x"

	// Act
	err := h.Handle(context.Background(), commands.UpdateEngramCommand{OwnerID: "o", EngramID: "missing", Content: &newContent})

	// Assert
	assert.ErrorIs(t, err, pkgerrors.ErrEngramNotFound)
}

func TestUpdateEngramHandler_RejectsStaleIfMatch(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngram(t, store, "original")
	h := handlers.NewUpdateEngramHandler(store, zap.NewNop())
	newContent := "updated"
	stale := e.Version() + 5

	// Act
	err := h.Handle(context.Background(), commands.UpdateEngramCommand{
		OwnerID: "o", EngramID: e.ID(), Content: &newContent, IfMatch: &stale,
	})

	// Assert
	assert.ErrorIs(t, err, pkgerrors.ErrConcurrentModification)
}

func TestUpdateEngramHandler_AcceptsMatchingIfMatch(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngram(t, store, "original")
	h := handlers.NewUpdateEngramHandler(store, zap.NewNop())
	newContent := "updated"
	current := e.Version()

	// Act
	err := h.Handle(context.Background(), commands.UpdateEngramCommand{
		OwnerID: "o", EngramID: e.ID(), Content: &newContent, IfMatch: &current,
	})

	// Assert
	require.NoError(t, err)
}
