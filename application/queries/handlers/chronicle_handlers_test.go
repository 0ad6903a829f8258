package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/queries"
	"mnemosyne/application/queries/handlers"
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/core"
	"mnemosyne/infrastructure/persistence/embedded"
	pkgerrors "mnemosyne/pkg/errors"
)

func TestGetCurrentChronicleHandler_ReturnsOpenChronicle(t *testing.T) {
	// Arrange
	store := embedded.New()
	now := time.Now()
	temporalSvc := temporal.NewService(store, store, zap.NewNop())
	c, err := temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, now)
	require.NoError(t, err)
	h := handlers.NewGetCurrentChronicleHandler(store)

	// Act
	result, err := h.Handle(context.Background(), queries.GetCurrentChronicleQuery{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status",
	})

	// Assert
	require.NoError(t, err)
	got, ok := result.(*core.Chronicle)
	require.True(t, ok)
	assert.Equal(t, c.ID(), got.ID())
}

func TestGetCurrentChronicleHandler_ReturnsNotFoundWhenNoneRecorded(t *testing.T) {
	// Arrange
	store := embedded.New()
	h := handlers.NewGetCurrentChronicleHandler(store)

	// Act
	_, err := h.Handle(context.Background(), queries.GetCurrentChronicleQuery{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status",
	})

	// Assert
	assert.ErrorIs(t, err, pkgerrors.ErrChronicleNotFound)
}

func TestQueryChroniclesHandler_FiltersByEntityAndAttribute(t *testing.T) {
	// Arrange
	store := embedded.New()
	now := time.Now()
	temporalSvc := temporal.NewService(store, store, zap.NewNop())
	_, err := temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, now)
	require.NoError(t, err)
	_, err = temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "o", Entity: "project:zephyr", Attribute: "status", Value: "blocked",
	}, now)
	require.NoError(t, err)
	h := handlers.NewQueryChroniclesHandler(temporalSvc)

	// Act
	result, err := h.Handle(context.Background(), queries.QueryChroniclesQuery{OwnerID: "o", Entity: "project:atlas"})

	// Assert
	require.NoError(t, err)
	got, ok := result.([]*core.Chronicle)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "active", got[0].Value())
}

func TestGetTimelineHandler_ReturnsAscendingOrder(t *testing.T) {
	// Arrange
	store := embedded.New()
	temporalSvc := temporal.NewService(store, store, zap.NewNop())
	base := time.Now()
	_, err := temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "planning",
	}, base)
	require.NoError(t, err)
	_, err = temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, base.Add(time.Hour))
	require.NoError(t, err)
	h := handlers.NewGetTimelineHandler(temporalSvc)

	// Act
	result, err := h.Handle(context.Background(), queries.GetTimelineQuery{OwnerID: "o", Entity: "project:atlas"})

	// Assert
	require.NoError(t, err)
	got, ok := result.([]*core.Chronicle)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "planning", got[0].Value())
	assert.Equal(t, "active", got[1].Value())
}

func TestGetRelatedChroniclesHandler_ReturnsLinkedChronicle(t *testing.T) {
	// Arrange
	store := embedded.New()
	now := time.Now()
	origin, err := core.NewChronicle(core.NewChronicleParams{OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "active"}, now)
	require.NoError(t, err)
	linked, err := core.NewChronicle(core.NewChronicleParams{OwnerID: "o", Entity: "project:zephyr", Attribute: "status", Value: "blocked"}, now)
	require.NoError(t, err)
	require.NoError(t, store.SaveChronicle(context.Background(), origin))
	require.NoError(t, store.SaveChronicle(context.Background(), linked))
	temporalSvc := temporal.NewService(store, store, zap.NewNop())
	_, err = temporalSvc.LinkNexus(context.Background(), core.NewNexusParams{
		OwnerID: "o", OriginID: origin.ID(), LinkedID: linked.ID(), BondType: "blocks", EffectiveFrom: now,
	}, now)
	require.NoError(t, err)
	h := handlers.NewGetRelatedChroniclesHandler(temporalSvc)

	// Act
	result, err := h.Handle(context.Background(), queries.GetRelatedChroniclesQuery{OwnerID: "o", ChronicleID: origin.ID()})

	// Assert
	require.NoError(t, err)
	got, ok := result.([]*core.Chronicle)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, linked.ID(), got[0].ID())
}
