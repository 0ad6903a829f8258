package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	"mnemosyne/application/services/retrieval"
	"mnemosyne/domain/config"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/pkg/auth"
	pkgerrors "mnemosyne/pkg/errors"
	"mnemosyne/pkg/validate"
)

// SearchHandler serves POST /api/v1/engrams/search.
type SearchHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func NewSearchHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{queryBus: queryBus, errorHandler: errorHandler, logger: logger}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.SearchQuery{
		OwnerID:        owner.OwnerID,
		Query:          req.Query,
		Limit:          req.Limit,
		Strand:         config.Strand(req.Strand),
		MinScore:       req.MinScore,
		MinFinalScore:  req.MinFinalScore,
		ExpandSynapses: req.ExpandSynapses,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.NewSearchResult(result.(retrieval.Result)))
}
