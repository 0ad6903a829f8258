package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/handlers"
	"mnemosyne/application/ports"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/dedup"
	"mnemosyne/application/services/extract"
	"mnemosyne/application/services/ingest"
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/config"
	"mnemosyne/infrastructure/persistence/embedded"
)

type passthroughProvider struct{}

func (passthroughProvider) Extract(_ context.Context, rawInput string) (ports.ExtractionResult, error) {
	return ports.ExtractionResult{
		Facts: []ports.ExtractedFact{{Content: rawInput, Strand: config.StrandGeneral}},
	}, nil
}

type zeroEmbedder struct{ dim int }

func (z zeroEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, z.dim), nil
}
func (z zeroEmbedder) Dimension() int { return z.dim }

func TestAddMemoryHandler_IngestsContentIntoStore(t *testing.T) {
	// Arrange
	store := embedded.New()
	cfg := config.DefaultDomainConfig()
	orchestrator := ingest.NewService(
		store, zeroEmbedder{dim: 2},
		extract.NewService(passthroughProvider{}, zap.NewNop()),
		dedup.NewService(store, cfg),
		association.NewService(store, cfg, zap.NewNop()),
		temporal.NewService(store, store, zap.NewNop()),
		nil, cfg, zap.NewNop(),
	)
	h := handlers.NewAddMemoryHandler(orchestrator, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.AddMemoryCommand{OwnerID: "o", Content: "remember this"})

	// Assert
	require.NoError(t, err)
	all, err := store.ListEngrams(context.Background(), "o")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "remember this", all[0].Content())
}

func TestAddMemoryHandler_RejectsWrongCommandType(t *testing.T) {
	// Arrange
	store := embedded.New()
	cfg := config.DefaultDomainConfig()
	orchestrator := ingest.NewService(
		store, zeroEmbedder{dim: 2},
		extract.NewService(passthroughProvider{}, zap.NewNop()),
		dedup.NewService(store, cfg),
		association.NewService(store, cfg, zap.NewNop()),
		temporal.NewService(store, store, zap.NewNop()),
		nil, cfg, zap.NewNop(),
	)
	h := handlers.NewAddMemoryHandler(orchestrator, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), commands.ReinforceEngramCommand{OwnerID: "o", EngramID: "x"})

	// Assert
	assert.Error(t, err)
}
