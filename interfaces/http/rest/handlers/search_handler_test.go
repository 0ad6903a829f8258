package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	queryhandlers "mnemosyne/application/queries/handlers"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/retrieval"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
	"mnemosyne/infrastructure/persistence/embedded"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/interfaces/http/rest/handlers"
	pkgerrors "mnemosyne/pkg/errors"
)

type constantSearchEmbedder struct{ vec []float32 }

func (c constantSearchEmbedder) Embed(_ context.Context, _ string) ([]float32, error) { return c.vec, nil }
func (c constantSearchEmbedder) Dimension() int                                       { return len(c.vec) }

func newWiredSearchHandler(t *testing.T) (chi.Router, *embedded.Store) {
	t.Helper()
	store := embedded.New()
	logger := zap.NewNop()
	cfg := config.DefaultDomainConfig()
	embedder := constantSearchEmbedder{vec: []float32{1, 0}}
	assoc := association.NewService(store, cfg, logger)
	retrievalSvc := retrieval.NewService(store, store, embedder, assoc, nil, cfg, logger)

	qBus := querybus.NewQueryBus(logger)
	require.NoError(t, qBus.Register(queries.SearchQuery{}, queryhandlers.NewSearchHandler(retrievalSvc)))

	errorHandler := pkgerrors.NewErrorHandler(logger, true)
	h := handlers.NewSearchHandler(qBus, errorHandler, logger)

	r := chi.NewRouter()
	r.Post("/search", h.Search)
	return r, store
}

func TestSearch_ReturnsMatchingEngram(t *testing.T) {
	// Arrange
	router, store := newWiredSearchHandler(t)
	e, err := core.NewEngram(core.NewEngramParams{OwnerID: "owner-1", Content: "project atlas status", Embedding: []float32{1, 0}}, 2, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveEngram(context.Background(), e))

	body, _ := json.Marshal(dto.SearchRequest{Query: "atlas"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Hits, 1)
	assert.Equal(t, e.ID(), got.Hits[0].Engram.ID)
}

func TestSearch_RejectsMissingQuery(t *testing.T) {
	// Arrange
	router, _ := newWiredSearchHandler(t)
	body, _ := json.Marshal(dto.SearchRequest{})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
