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
	"mnemosyne/application/services/ingest"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/pkg/auth"
	pkgerrors "mnemosyne/pkg/errors"
	"mnemosyne/pkg/validate"
)

// EngramHandler serves the /engrams route tree.
type EngramHandler struct {
	ingest       *ingest.Service
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func NewEngramHandler(ingestSvc *ingest.Service, commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *EngramHandler {
	return &EngramHandler{ingest: ingestSvc, commandBus: commandBus, queryBus: queryBus, errorHandler: errorHandler, logger: logger}
}

// CreateEngram handles POST /api/v1/engrams. It calls the ingest
// orchestrator directly rather than the command bus: AddMemory can mint
// zero, one, or several engrams depending on what extraction finds, and
// the command bus's Send only ever returns an error, so there is no way to
// hand the created engrams back to the caller through it.
func (h *EngramHandler) CreateEngram(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.AddMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params := ingest.AddMemoryParams{
		OwnerID:   owner.OwnerID,
		Content:   req.Content,
		Strand:    config.Strand(req.Strand),
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		Signal:    req.Signal,
		PulseRate: req.PulseRate,
	}

	engrams, err := h.ingest.AddMemory(r.Context(), params, time.Now())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, dto.NewEngrams(engrams))
}

// GetEngram handles GET /api/v1/engrams/{engramID}.
func (h *EngramHandler) GetEngram(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetEngramQuery{
		OwnerID:  owner.OwnerID,
		EngramID: chi.URLParam(r, "engramID"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewEngram(result.(*core.Engram)))
}

// ListEngrams handles GET /api/v1/engrams.
func (h *EngramHandler) ListEngrams(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListEngramsQuery{OwnerID: owner.OwnerID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.NewEngrams(result.([]*core.Engram)))
}

// UpdateEngram handles PATCH /api/v1/engrams/{engramID}.
func (h *EngramHandler) UpdateEngram(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	engramID := chi.URLParam(r, "engramID")

	var req dto.UpdateEngramRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var strand *config.Strand
	if req.Strand != nil {
		s := config.Strand(*req.Strand)
		strand = &s
	}

	cmd := commands.UpdateEngramCommand{
		OwnerID:  owner.OwnerID,
		EngramID: engramID,
		Content:  req.Content,
		Tags:     req.Tags,
		Metadata: req.Metadata,
		Strand:   strand,
		IfMatch:  req.IfMatch,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetEngramQuery{OwnerID: owner.OwnerID, EngramID: engramID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewEngram(result.(*core.Engram)))
}

// DeleteEngram handles DELETE /api/v1/engrams/{engramID}.
func (h *EngramHandler) DeleteEngram(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	cmd := commands.DeleteEngramCommand{OwnerID: owner.OwnerID, EngramID: chi.URLParam(r, "engramID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteEngrams handles the bulk-delete supplement.
func (h *EngramHandler) BulkDeleteEngrams(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.BulkDeleteEngramsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cmd := commands.BulkDeleteEngramsCommand{OwnerID: owner.OwnerID, EngramIDs: req.EngramIDs}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReinforceEngram handles POST /api/v1/engrams/{engramID}/reinforce.
func (h *EngramHandler) ReinforceEngram(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	engramID := chi.URLParam(r, "engramID")

	var req dto.ReinforceEngramRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	cmd := commands.ReinforceEngramCommand{OwnerID: owner.OwnerID, EngramID: engramID, Boost: req.Boost}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetEngramQuery{OwnerID: owner.OwnerID, EngramID: engramID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, dto.NewEngram(result.(*core.Engram)))
}
