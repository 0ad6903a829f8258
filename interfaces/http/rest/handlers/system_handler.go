package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/ports"
	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	"mnemosyne/pkg/auth"
	pkgerrors "mnemosyne/pkg/errors"
)

// SystemHandler serves /health, /status and /decay/run.
type SystemHandler struct {
	store        ports.Store
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func NewSystemHandler(store ports.Store, commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{store: store, commandBus: commandBus, queryBus: queryBus, errorHandler: errorHandler, logger: logger}
}

// Health handles GET /health. It never touches the store: a healthy
// process that can answer HTTP requests is itself the signal a load
// balancer needs.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /status, returning a per-owner storage summary.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetStatsQuery{OwnerID: owner.OwnerID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// RunDecay handles POST /decay/run, triggering a decay cycle for the
// authenticated owner's engrams.
func (h *SystemHandler) RunDecay(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	cmd := commands.RunDecayCommand{OwnerID: owner.OwnerID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "decay cycle completed"})
}
