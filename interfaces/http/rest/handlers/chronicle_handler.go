package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/core"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/pkg/auth"
	pkgerrors "mnemosyne/pkg/errors"
)

// ChronicleHandler serves the /chronicles route tree.
type ChronicleHandler struct {
	temporal     *temporal.Service
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func NewChronicleHandler(temporalSvc *temporal.Service, commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ChronicleHandler {
	return &ChronicleHandler{temporal: temporalSvc, commandBus: commandBus, queryBus: queryBus, errorHandler: errorHandler, logger: logger}
}

// CreateChronicle handles POST /api/v1/chronicles. It calls the temporal
// service's RecordFact directly, for the same reason EngramHandler calls
// ingest.AddMemory directly: the chronicle's ID is generated inside
// RecordFact, and the command bus has no channel to hand it back through.
func (h *ChronicleHandler) CreateChronicle(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.RecordChronicleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Entity == "" || req.Attribute == "" {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "entity and attribute are required")
		return
	}

	var effectiveFrom time.Time
	if req.EffectiveFrom != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EffectiveFrom)
		if err != nil {
			h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "effectiveFrom must be RFC3339")
			return
		}
		effectiveFrom = parsed
	}

	chronicle, err := h.temporal.RecordFact(r.Context(), temporal.RecordFactParams{
		OwnerID:       owner.OwnerID,
		Entity:        req.Entity,
		Attribute:     req.Attribute,
		Value:         req.Value,
		Certainty:     req.Certainty,
		EffectiveFrom: effectiveFrom,
		Metadata:      req.Metadata,
	}, time.Now())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, dto.NewChronicle(chronicle))
}

// ListChronicles handles GET /api/v1/chronicles.
func (h *ChronicleHandler) ListChronicles(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := queries.QueryChroniclesQuery{
		OwnerID:   owner.OwnerID,
		Entity:    r.URL.Query().Get("entity"),
		Attribute: r.URL.Query().Get("attribute"),
	}
	if at := r.URL.Query().Get("at"); at != "" {
		if parsed, err := time.Parse(time.RFC3339, at); err == nil {
			q.At = &parsed
		}
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			q.From = &parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			q.To = &parsed
		}
	}

	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewChronicles(result.([]*core.Chronicle)))
}

// UpdateChronicle handles PATCH /api/v1/chronicles/{chronicleID}.
func (h *ChronicleHandler) UpdateChronicle(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	chronicleID := chi.URLParam(r, "chronicleID")

	var req dto.UpdateChronicleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	chronicle, err := h.temporal.UpdateChronicle(r.Context(), owner.OwnerID, chronicleID, req.Certainty, req.Metadata)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if chronicle == nil {
		h.errorHandler.Handle(w, r, pkgerrors.ErrChronicleNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewChronicle(chronicle))
}

// DeleteChronicle handles DELETE /api/v1/chronicles/{chronicleID}.
func (h *ChronicleHandler) DeleteChronicle(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	cmd := commands.DeleteChronicleCommand{OwnerID: owner.OwnerID, ChronicleID: chi.URLParam(r, "chronicleID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentChronicle handles GET /api/v1/chronicles/current.
func (h *ChronicleHandler) GetCurrentChronicle(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCurrentChronicleQuery{
		OwnerID:   owner.OwnerID,
		Entity:    r.URL.Query().Get("entity"),
		Attribute: r.URL.Query().Get("attribute"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewChronicle(result.(*core.Chronicle)))
}

// GetTimeline handles GET /api/v1/chronicles/timeline.
func (h *ChronicleHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTimelineQuery{
		OwnerID: owner.OwnerID,
		Entity:  r.URL.Query().Get("entity"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewChronicles(result.([]*core.Chronicle)))
}

// GetRelatedChronicles handles GET /api/v1/chronicles/{chronicleID}/related.
func (h *ChronicleHandler) GetRelatedChronicles(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRelatedChroniclesQuery{
		OwnerID:     owner.OwnerID,
		ChronicleID: chi.URLParam(r, "chronicleID"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewChronicles(result.([]*core.Chronicle)))
}

