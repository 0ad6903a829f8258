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
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/core"
	"mnemosyne/infrastructure/persistence/embedded"
)

func TestCreateNexusHandler_LinksTwoChronicles(t *testing.T) {
	// Arrange
	store := embedded.New()
	now := time.Now()
	origin, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, now)
	require.NoError(t, err)
	linked, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "project:zephyr", Attribute: "status", Value: "blocked",
	}, now)
	require.NoError(t, err)
	require.NoError(t, store.SaveChronicle(context.Background(), origin))
	require.NoError(t, store.SaveChronicle(context.Background(), linked))

	temporalSvc := temporal.NewService(store, store, zap.NewNop())
	h := handlers.NewCreateNexusHandler(temporalSvc, zap.NewNop())

	// Act
	err = h.Handle(context.Background(), commands.CreateNexusCommand{
		OwnerID: "o", OriginID: origin.ID(), LinkedID: linked.ID(), BondType: "blocks",
	})

	// Assert
	require.NoError(t, err)
	outgoing, err := store.ListNexusesFrom(context.Background(), "o", origin.ID())
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "blocks", outgoing[0].BondType())
	assert.Equal(t, linked.ID(), outgoing[0].LinkedID())
}
