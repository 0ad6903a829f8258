package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/queries"
	"mnemosyne/application/queries/handlers"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/retrieval"
	"mnemosyne/domain/config"
	"mnemosyne/infrastructure/persistence/embedded"
)

type constantEmbedder struct {
	dim    int
	vector []float32
}

func (c constantEmbedder) Embed(_ context.Context, _ string) ([]float32, error) { return c.vector, nil }
func (c constantEmbedder) Dimension() int                                       { return c.dim }

func TestSearchHandler_ReturnsHitsForMatchingQuery(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newEngramForQuery(t, store, "fire safety drill procedures")
	cfg := config.DefaultDomainConfig()
	assoc := association.NewService(store, cfg, zap.NewNop())
	emb := constantEmbedder{dim: 2, vector: []float32{1, 0}}
	retrievalSvc := retrieval.NewService(store, store, emb, assoc, nil, cfg, zap.NewNop())
	h := handlers.NewSearchHandler(retrievalSvc)

	// Act
	result, err := h.Handle(context.Background(), queries.SearchQuery{OwnerID: "o", Query: "fire safety"})

	// Assert
	require.NoError(t, err)
	res, ok := result.(retrieval.Result)
	require.True(t, ok)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, e.ID(), res.Hits[0].Engram.ID())
}

func TestSearchHandler_RejectsWrongQueryType(t *testing.T) {
	// Arrange
	store := embedded.New()
	cfg := config.DefaultDomainConfig()
	assoc := association.NewService(store, cfg, zap.NewNop())
	emb := constantEmbedder{dim: 2, vector: []float32{1, 0}}
	retrievalSvc := retrieval.NewService(store, store, emb, assoc, nil, cfg, zap.NewNop())
	h := handlers.NewSearchHandler(retrievalSvc)

	// Act
	_, err := h.Handle(context.Background(), queries.GetEngramQuery{OwnerID: "o", EngramID: "x"})

	// Assert
	assert.Error(t, err)
}
