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

	"mnemosyne/application/services/temporal"
	"mnemosyne/infrastructure/persistence/embedded"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/interfaces/http/rest/handlers"
	pkgerrors "mnemosyne/pkg/errors"
)

func newWiredNexusHandler(t *testing.T) (*handlers.NexusHandler, *temporal.Service, chi.Router) {
	t.Helper()
	store := embedded.New()
	logger := zap.NewNop()
	temporalSvc := temporal.NewService(store, store, logger)
	errorHandler := pkgerrors.NewErrorHandler(logger, true)
	h := handlers.NewNexusHandler(temporalSvc, errorHandler, logger)

	r := chi.NewRouter()
	r.Post("/nexuses", h.CreateNexus)
	return h, temporalSvc, r
}

func TestCreateNexus_LinksTwoChronicles(t *testing.T) {
	// Arrange
	_, temporalSvc, router := newWiredNexusHandler(t)
	c1, err := temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "owner-1", Entity: "a", Attribute: "status", Value: "x",
	}, time.Now())
	require.NoError(t, err)
	c2, err := temporalSvc.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "owner-1", Entity: "b", Attribute: "status", Value: "y",
	}, time.Now())
	require.NoError(t, err)

	body, _ := json.Marshal(dto.CreateNexusRequest{OriginID: c1.ID(), LinkedID: c2.ID(), BondType: "implies"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/nexuses", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var got dto.Nexus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, c1.ID(), got.OriginID)
	assert.Equal(t, c2.ID(), got.LinkedID)
	assert.Equal(t, "implies", got.BondType)
}

func TestCreateNexus_RejectsMissingBondType(t *testing.T) {
	// Arrange
	_, _, router := newWiredNexusHandler(t)
	body, _ := json.Marshal(dto.CreateNexusRequest{OriginID: "a", LinkedID: "b"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/nexuses", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
