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

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	commandhandlers "mnemosyne/application/commands/handlers"
	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	queryhandlers "mnemosyne/application/queries/handlers"
	"mnemosyne/application/services/temporal"
	"mnemosyne/infrastructure/persistence/embedded"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/interfaces/http/rest/handlers"
	pkgerrors "mnemosyne/pkg/errors"
)

type wiredChronicleHandler struct {
	handler  *handlers.ChronicleHandler
	temporal *temporal.Service
	router   chi.Router
}

func newWiredChronicleHandler(t *testing.T) *wiredChronicleHandler {
	t.Helper()
	store := embedded.New()
	logger := zap.NewNop()
	temporalSvc := temporal.NewService(store, store, logger)

	cmdBus := bus.NewCommandBus(logger)
	require.NoError(t, cmdBus.Register(commands.DeleteChronicleCommand{}, commandhandlers.NewDeleteChronicleHandler(temporalSvc, logger)))

	qBus := querybus.NewQueryBus(logger)
	require.NoError(t, qBus.Register(queries.GetCurrentChronicleQuery{}, queryhandlers.NewGetCurrentChronicleHandler(store)))
	require.NoError(t, qBus.Register(queries.QueryChroniclesQuery{}, queryhandlers.NewQueryChroniclesHandler(temporalSvc)))
	require.NoError(t, qBus.Register(queries.GetTimelineQuery{}, queryhandlers.NewGetTimelineHandler(temporalSvc)))
	require.NoError(t, qBus.Register(queries.GetRelatedChroniclesQuery{}, queryhandlers.NewGetRelatedChroniclesHandler(temporalSvc)))

	errorHandler := pkgerrors.NewErrorHandler(logger, true)
	h := handlers.NewChronicleHandler(temporalSvc, cmdBus, qBus, errorHandler, logger)

	r := chi.NewRouter()
	r.Post("/chronicles", h.CreateChronicle)
	r.Get("/chronicles", h.ListChronicles)
	r.Get("/chronicles/current", h.GetCurrentChronicle)
	r.Get("/chronicles/timeline", h.GetTimeline)
	r.Patch("/chronicles/{chronicleID}", h.UpdateChronicle)
	r.Delete("/chronicles/{chronicleID}", h.DeleteChronicle)
	r.Get("/chronicles/{chronicleID}/related", h.GetRelatedChronicles)

	return &wiredChronicleHandler{handler: h, temporal: temporalSvc, router: r}
}

func TestCreateChronicle_RecordsNewFact(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	body, _ := json.Marshal(dto.RecordChronicleRequest{Entity: "project:atlas", Attribute: "status", Value: "active"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/chronicles", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var got dto.Chronicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "active", got.Value)
	assert.True(t, got.Current)
}

func TestCreateChronicle_RejectsMissingAttribute(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	body, _ := json.Marshal(dto.RecordChronicleRequest{Entity: "project:atlas"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/chronicles", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrentChronicle_ReturnsOpenChronicle(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	_, err := w.temporal.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "owner-1", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, time.Now())
	require.NoError(t, err)
	req := withOwner(httptest.NewRequest(http.MethodGet, "/chronicles/current?entity=project:atlas&attribute=status", nil), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.Chronicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "active", got.Value)
}

func TestGetCurrentChronicle_ReturnsNotFoundWhenNoneRecorded(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	req := withOwner(httptest.NewRequest(http.MethodGet, "/chronicles/current?entity=nope&attribute=nope", nil), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateChronicle_PatchesCertainty(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	c, err := w.temporal.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "owner-1", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, time.Now())
	require.NoError(t, err)
	newCertainty := 0.4
	body, _ := json.Marshal(dto.UpdateChronicleRequest{Certainty: &newCertainty})
	req := withOwner(httptest.NewRequest(http.MethodPatch, "/chronicles/"+c.ID(), bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.Chronicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0.4, got.Certainty)
}

func TestDeleteChronicle_ExpiresChronicleAndReturns204(t *testing.T) {
	// Arrange
	w := newWiredChronicleHandler(t)
	c, err := w.temporal.RecordFact(context.Background(), temporal.RecordFactParams{
		OwnerID: "owner-1", Entity: "project:atlas", Attribute: "status", Value: "active",
	}, time.Now())
	require.NoError(t, err)
	req := withOwner(httptest.NewRequest(http.MethodDelete, "/chronicles/"+c.ID(), nil), "owner-1")
	rec := httptest.NewRecorder()

	// Act
	w.router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusNoContent, rec.Code)
}
